package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/examgate-go-api/internal/dto"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/repository"
)

// CatalogService lists the companion collections (tests, students,
// professors, institutions) needed to build a release, filtered under the
// caller's resolved scope.
type CatalogService interface {
	ListAuxiliary(ctx context.Context, scope models.ScopeDescriptor) (dto.ReleaseCatalog, error)
}

type catalogService struct {
	tests        repository.TestRepository
	students     repository.StudentRepository
	professors   repository.ProfessorRepository
	institutions repository.InstitutionRepository
	logger       zerolog.Logger
}

// NewCatalogService builds the auxiliary catalog reader.
func NewCatalogService(tests repository.TestRepository, students repository.StudentRepository, professors repository.ProfessorRepository, institutions repository.InstitutionRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		tests:        tests,
		students:     students,
		professors:   professors,
		institutions: institutions,
		logger:       logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListAuxiliary(ctx context.Context, scope models.ScopeDescriptor) (dto.ReleaseCatalog, error) {
	catalog := dto.ReleaseCatalog{
		Tests:        []dto.TestSummary{},
		Students:     []dto.StudentSummary{},
		Professors:   []dto.ProfessorSummary{},
		Institutions: []dto.InstitutionSummary{},
		Scope:        scope,
	}

	switch scope.Kind {
	case models.ScopeGlobal:
		if scope.InstitutionFilter != nil {
			return s.fillForInstitution(ctx, catalog, *scope.InstitutionFilter)
		}
		return s.fillGlobal(ctx, catalog)

	case models.ScopeInstitution:
		return s.fillForInstitution(ctx, catalog, scope.InstitutionID)

	case models.ScopeProfessor:
		return s.fillForProfessor(ctx, catalog, scope)

	default:
		// Unauthorized scopes see empty collections, not an error.
		return catalog, nil
	}
}

func (s *catalogService) fillGlobal(ctx context.Context, catalog dto.ReleaseCatalog) (dto.ReleaseCatalog, error) {
	tests, err := s.tests.ListAll(ctx)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	professors, err := s.professors.ListAll(ctx)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	institutions, err := s.institutions.ListAll(ctx)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	catalog.Tests = dto.NewTestSummarySlice(tests)
	catalog.Students = dto.NewStudentSummarySlice(students)
	catalog.Professors = dto.NewProfessorSummarySlice(professors)
	catalog.Institutions = dto.NewInstitutionSummarySlice(institutions)

	return catalog, nil
}

func (s *catalogService) fillForInstitution(ctx context.Context, catalog dto.ReleaseCatalog, institutionID uint) (dto.ReleaseCatalog, error) {
	tests, err := s.tests.ListByInstitution(ctx, institutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	students, err := s.students.ListByInstitution(ctx, institutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	professors, err := s.professors.ListByInstitution(ctx, institutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	institution, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	catalog.Tests = dto.NewTestSummarySlice(tests)
	catalog.Students = dto.NewStudentSummarySlice(students)
	catalog.Professors = dto.NewProfessorSummarySlice(professors)
	catalog.Institutions = dto.NewInstitutionSummarySlice([]models.Institution{institution})

	return catalog, nil
}

// fillForProfessor narrows tests to the professor's own while students come
// from the professor's whole institution, matching who a teacher may assign.
func (s *catalogService) fillForProfessor(ctx context.Context, catalog dto.ReleaseCatalog, scope models.ScopeDescriptor) (dto.ReleaseCatalog, error) {
	tests, err := s.tests.ListByProfessor(ctx, scope.ProfessorID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	students, err := s.students.ListByInstitution(ctx, scope.InstitutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	professor, err := s.professors.GetByID(ctx, scope.ProfessorID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	institution, err := s.institutions.GetByID(ctx, scope.InstitutionID)
	if err != nil {
		return dto.ReleaseCatalog{}, err
	}

	catalog.Tests = dto.NewTestSummarySlice(tests)
	catalog.Students = dto.NewStudentSummarySlice(students)
	catalog.Professors = dto.NewProfessorSummarySlice([]models.Professor{professor})
	catalog.Institutions = dto.NewInstitutionSummarySlice([]models.Institution{institution})

	return catalog, nil
}
