package dto

import (
	"time"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// GeoPointPayload is a polygon vertex supplied by the caller.
type GeoPointPayload struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// SiteCreateRequest describes an allowed consultation site to attach.
type SiteCreateRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title" validate:"omitempty,max=255"`
}

// ReleaseCreateRequest is the payload for scheduling a single release.
type ReleaseCreateRequest struct {
	TestID            uint                `json:"test_id" validate:"required"`
	StudentID         uint                `json:"student_id" validate:"required"`
	ProfessorID       uint                `json:"professor_id" validate:"required"`
	InstitutionID     *uint               `json:"institution_id" validate:"omitempty"`
	StartTime         string              `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime           string              `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	MaxAttempts       int                 `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	AllowConsultation bool                `json:"allow_consultation"`
	AllowAIAgent      bool                `json:"allow_ai_agent"`
	Polygon           []GeoPointPayload   `json:"polygon" validate:"omitempty,dive"`
	Sites             []SiteCreateRequest `json:"sites" validate:"omitempty,dive"`
}

// ReleaseBulkCreateRequest fans one configuration out to many students.
// An empty student list is tolerated and yields zero releases.
type ReleaseBulkCreateRequest struct {
	TestID            uint                `json:"test_id" validate:"required"`
	StudentIDs        []uint              `json:"student_ids" validate:"omitempty,dive,required"`
	ProfessorID       uint                `json:"professor_id" validate:"required"`
	InstitutionID     *uint               `json:"institution_id" validate:"omitempty"`
	StartTime         string              `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime           string              `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	MaxAttempts       int                 `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	AllowConsultation bool                `json:"allow_consultation"`
	AllowAIAgent      bool                `json:"allow_ai_agent"`
	Polygon           []GeoPointPayload   `json:"polygon" validate:"omitempty,dive"`
	Sites             []SiteCreateRequest `json:"sites" validate:"omitempty,dive"`
}

// ForStudent derives the equivalent single-create payload for one student of
// the batch. Site and polygon slices are shared here; the engine copies them
// into per-release rows before persisting.
func (r ReleaseBulkCreateRequest) ForStudent(studentID uint) ReleaseCreateRequest {
	return ReleaseCreateRequest{
		TestID:            r.TestID,
		StudentID:         studentID,
		ProfessorID:       r.ProfessorID,
		InstitutionID:     r.InstitutionID,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		MaxAttempts:       r.MaxAttempts,
		AllowConsultation: r.AllowConsultation,
		AllowAIAgent:      r.AllowAIAgent,
		Polygon:           r.Polygon,
		Sites:             r.Sites,
	}
}

// SiteResponse is the serialized allowed-site representation.
type SiteResponse struct {
	ID        uint   `json:"id"`
	ReleaseID uint   `json:"release_id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
}

// ResultSummary carries the graded result correlated with a release.
type ResultSummary struct {
	ID          uint      `json:"id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// ReleaseResponse is the serialized release returned to API clients,
// including its derived status.
type ReleaseResponse struct {
	ID                uint                 `json:"id"`
	TestID            uint                 `json:"test_id"`
	StudentID         uint                 `json:"student_id"`
	ProfessorID       uint                 `json:"professor_id"`
	InstitutionID     uint                 `json:"institution_id"`
	StartTime         time.Time            `json:"start_time"`
	EndTime           time.Time            `json:"end_time"`
	MaxAttempts       int                  `json:"max_attempts"`
	AllowConsultation bool                 `json:"allow_consultation"`
	AllowAIAgent      bool                 `json:"allow_ai_agent"`
	Polygon           models.GeoPolygon    `json:"polygon"`
	HasGeofence       bool                 `json:"has_geofence"`
	Deleted           bool                 `json:"deleted"`
	Status            models.ReleaseStatus `json:"status"`
	Result            *ResultSummary       `json:"result,omitempty"`
	ResultCount       int                  `json:"result_count"`
	Sites             []SiteResponse       `json:"sites"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ReleaseBulkResponse reports the outcome of a fan-out creation.
type ReleaseBulkResponse struct {
	Requested int               `json:"requested"`
	Created   int               `json:"created"`
	Releases  []ReleaseResponse `json:"releases"`
}

// NewSiteResponse converts a site model into a DTO.
func NewSiteResponse(model models.TestReleaseSite) SiteResponse {
	return SiteResponse{
		ID:        model.ID,
		ReleaseID: model.ReleaseID,
		URL:       model.URL,
		Title:     model.Title,
	}
}

// NewSiteResponseSlice converts a slice of site models into DTOs.
func NewSiteResponseSlice(sites []models.TestReleaseSite) []SiteResponse {
	responses := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		responses = append(responses, NewSiteResponse(site))
	}

	return responses
}

// NewReleaseResponse converts a release model plus its derived status and
// correlated result into a DTO.
func NewReleaseResponse(model models.TestRelease, status models.ReleaseStatus, result *models.TestResult, resultCount int) ReleaseResponse {
	polygon := model.Polygon()

	response := ReleaseResponse{
		ID:                model.ID,
		TestID:            model.TestID,
		StudentID:         model.StudentID,
		ProfessorID:       model.ProfessorID,
		InstitutionID:     model.InstitutionID,
		StartTime:         model.StartTime,
		EndTime:           model.EndTime,
		MaxAttempts:       model.MaxAttempts,
		AllowConsultation: model.AllowConsultation,
		AllowAIAgent:      model.AllowAIAgent,
		Polygon:           polygon,
		HasGeofence:       polygon.IsGeofence(),
		Deleted:           model.Deleted,
		Status:            status,
		ResultCount:       resultCount,
		Sites:             NewSiteResponseSlice(model.AllowedSites),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}

	if result != nil {
		response.Result = &ResultSummary{
			ID:          result.ID,
			Score:       result.Score,
			CompletedAt: result.CompletedAt,
		}
	}

	return response
}
