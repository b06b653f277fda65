package dto

import "github.com/noah-isme/examgate-go-api/internal/models"

// TestSummary is a scheduling-relevant view of a test definition.
type TestSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	ProfessorID   uint   `json:"professor_id"`
	InstitutionID uint   `json:"institution_id"`
}

// StudentSummary is a scheduling-relevant view of a student.
type StudentSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	InstitutionID uint   `json:"institution_id"`
}

// ProfessorSummary is a scheduling-relevant view of a professor.
type ProfessorSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	InstitutionID uint   `json:"institution_id"`
}

// InstitutionSummary is a scheduling-relevant view of an institution.
type InstitutionSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ReleaseCatalog bundles the companion collections needed to build a release
// form, each filtered under the caller's scope.
type ReleaseCatalog struct {
	Tests        []TestSummary          `json:"tests"`
	Students     []StudentSummary       `json:"students"`
	Professors   []ProfessorSummary     `json:"professors"`
	Institutions []InstitutionSummary   `json:"institutions"`
	Scope        models.ScopeDescriptor `json:"scope"`
}

// NewTestSummarySlice converts test models into catalog entries.
func NewTestSummarySlice(tests []models.Test) []TestSummary {
	summaries := make([]TestSummary, 0, len(tests))
	for _, test := range tests {
		summaries = append(summaries, TestSummary{
			ID:            test.ID,
			Title:         test.Title,
			ProfessorID:   test.ProfessorID,
			InstitutionID: test.InstitutionID,
		})
	}

	return summaries
}

// NewStudentSummarySlice converts student models into catalog entries.
func NewStudentSummarySlice(students []models.Student) []StudentSummary {
	summaries := make([]StudentSummary, 0, len(students))
	for _, student := range students {
		summaries = append(summaries, StudentSummary{
			ID:            student.ID,
			Name:          student.Name,
			Email:         student.Email,
			InstitutionID: student.InstitutionID,
		})
	}

	return summaries
}

// NewProfessorSummarySlice converts professor models into catalog entries.
func NewProfessorSummarySlice(professors []models.Professor) []ProfessorSummary {
	summaries := make([]ProfessorSummary, 0, len(professors))
	for _, professor := range professors {
		summaries = append(summaries, ProfessorSummary{
			ID:            professor.ID,
			Name:          professor.Name,
			InstitutionID: professor.InstitutionID,
		})
	}

	return summaries
}

// NewInstitutionSummarySlice converts institution models into catalog entries.
func NewInstitutionSummarySlice(institutions []models.Institution) []InstitutionSummary {
	summaries := make([]InstitutionSummary, 0, len(institutions))
	for _, institution := range institutions {
		summaries = append(summaries, InstitutionSummary{
			ID:   institution.ID,
			Name: institution.Name,
		})
	}

	return summaries
}
