package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/dto"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/repository"
)

const maxAttemptsCeiling = 10

// ReleaseService exposes the release scheduling and lifecycle use cases.
type ReleaseService interface {
	List(ctx context.Context, scope models.ScopeDescriptor, includeDeleted bool) ([]dto.ReleaseResponse, error)
	Get(ctx context.Context, scope models.ScopeDescriptor, id uint) (dto.ReleaseResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.ReleaseCreateRequest) (dto.ReleaseResponse, error)
	CreateBulk(ctx context.Context, actor Actor, payload dto.ReleaseBulkCreateRequest) (dto.ReleaseBulkResponse, error)
	SoftDelete(ctx context.Context, actor Actor, scope models.ScopeDescriptor, id uint) error
	Restore(ctx context.Context, actor Actor, scope models.ScopeDescriptor, id uint) error
	AddSite(ctx context.Context, actor Actor, scope models.ScopeDescriptor, releaseID uint, payload dto.SiteCreateRequest) (dto.SiteResponse, error)
	RemoveSite(ctx context.Context, actor Actor, scope models.ScopeDescriptor, siteID uint) error
}

type releaseService struct {
	releases  repository.ReleaseRepository
	sites     repository.ReleaseSiteRepository
	tests     repository.TestRepository
	results   repository.ResultRepository
	validator *validator.Validate
	audit     AuditRecorder
	events    EventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewReleaseService builds the release lifecycle engine. Audit and events
// may be nil; both are best-effort side channels.
func NewReleaseService(releases repository.ReleaseRepository, sites repository.ReleaseSiteRepository, tests repository.TestRepository, results repository.ResultRepository, validate *validator.Validate, audit AuditRecorder, events EventPublisher, logger zerolog.Logger) ReleaseService {
	return &releaseService{
		releases:  releases,
		sites:     sites,
		tests:     tests,
		results:   results,
		validator: validate,
		audit:     audit,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "release_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/examgate-go-api/internal/service/release"),
		now:       time.Now,
	}
}

func (s *releaseService) List(ctx context.Context, scope models.ScopeDescriptor, includeDeleted bool) ([]dto.ReleaseResponse, error) {
	releases, err := s.releases.ListScoped(ctx, scope, includeDeleted)
	if err != nil {
		return nil, err
	}

	index, err := s.correlateResults(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.ReleaseResponse, 0, len(releases))
	for _, release := range releases {
		responses = append(responses, s.buildResponse(release, now, index))
	}

	return responses, nil
}

func (s *releaseService) Get(ctx context.Context, scope models.ScopeDescriptor, id uint) (dto.ReleaseResponse, error) {
	release, err := s.getRelease(ctx, id)
	if err != nil {
		return dto.ReleaseResponse{}, err
	}

	if !releaseInScope(release, scope) {
		return dto.ReleaseResponse{}, ErrReleaseNotFound
	}

	index, err := s.correlateResults(ctx, scope)
	if err != nil {
		return dto.ReleaseResponse{}, err
	}

	return s.buildResponse(release, s.now(), index), nil
}

func (s *releaseService) Create(ctx context.Context, actor Actor, payload dto.ReleaseCreateRequest) (dto.ReleaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "release.create", trace.WithAttributes(
		attribute.Int64("release.test_id", int64(payload.TestID)),
		attribute.Int64("release.student_id", int64(payload.StudentID)),
	))
	defer span.End()

	window, err := s.validateCreate(payload)
	if err != nil {
		return dto.ReleaseResponse{}, err
	}

	institutionID, err := s.resolveInstitution(ctx, payload.TestID, payload.InstitutionID)
	if err != nil {
		return dto.ReleaseResponse{}, err
	}

	release, err := s.persistRelease(ctx, payload, window, institutionID)
	if err != nil {
		return dto.ReleaseResponse{}, err
	}

	s.logger.Info().Uint("release_id", release.ID).Uint("student_id", release.StudentID).Msg("release created")
	s.recordAudit(ctx, actor, models.AuditActionReleaseCreated, &release.ID, map[string]interface{}{
		"test_id":    release.TestID,
		"student_id": release.StudentID,
	})
	s.publish(ReleaseEvent{
		Action:     models.AuditActionReleaseCreated,
		ReleaseID:  release.ID,
		StudentID:  release.StudentID,
		TestID:     release.TestID,
		ActorID:    actor.ID,
		OccurredAt: s.now(),
	})

	return dto.NewReleaseResponse(release, release.StatusAt(s.now(), false), nil, 0), nil
}

func (s *releaseService) CreateBulk(ctx context.Context, actor Actor, payload dto.ReleaseBulkCreateRequest) (dto.ReleaseBulkResponse, error) {
	ctx, span := s.tracer.Start(ctx, "release.create_bulk", trace.WithAttributes(
		attribute.Int64("release.test_id", int64(payload.TestID)),
		attribute.Int("release.student_count", len(payload.StudentIDs)),
	))
	defer span.End()

	base := payload.ForStudent(0)
	window, err := s.validateBulk(payload)
	if err != nil {
		return dto.ReleaseBulkResponse{}, err
	}

	students := dedupePreservingOrder(payload.StudentIDs)
	response := dto.ReleaseBulkResponse{
		Requested: len(students),
		Releases:  make([]dto.ReleaseResponse, 0, len(students)),
	}

	// An empty student set is a tolerated no-op, not an error.
	if len(students) == 0 {
		return response, nil
	}

	institutionID, err := s.resolveInstitution(ctx, payload.TestID, payload.InstitutionID)
	if err != nil {
		return dto.ReleaseBulkResponse{}, err
	}

	now := s.now()
	releaseIDs := make([]uint, 0, len(students))
	for _, studentID := range students {
		single := base
		single.StudentID = studentID

		release, err := s.persistRelease(ctx, single, window, institutionID)
		if err != nil {
			// Best-effort batch: releases already created stay in place.
			batchErr := &BatchError{Created: response.Created, StudentID: studentID, Err: err}
			s.logger.Error().Err(err).Uint("student_id", studentID).Int("created", response.Created).Msg("bulk creation stopped")
			return response, batchErr
		}

		response.Created++
		response.Releases = append(response.Releases, dto.NewReleaseResponse(release, release.StatusAt(now, false), nil, 0))
		releaseIDs = append(releaseIDs, release.ID)
	}

	s.logger.Info().Int("created", response.Created).Uint("test_id", payload.TestID).Msg("bulk release creation completed")
	s.recordAudit(ctx, actor, models.AuditActionReleaseBulkCreated, nil, map[string]interface{}{
		"test_id": payload.TestID,
		"created": response.Created,
	})
	s.publish(ReleaseEvent{
		Action:     models.AuditActionReleaseBulkCreated,
		ReleaseIDs: releaseIDs,
		TestID:     payload.TestID,
		ActorID:    actor.ID,
		OccurredAt: now,
	})

	return response, nil
}

// SoftDelete marks the release deleted. Deleting an already-deleted release
// is a no-op success. Allowed sites are left untouched. Releases outside the
// caller's scope report not-found, same as reads.
func (s *releaseService) SoftDelete(ctx context.Context, actor Actor, scope models.ScopeDescriptor, id uint) error {
	if err := s.getOwnedRelease(ctx, scope, id); err != nil {
		return err
	}

	if err := s.releases.SetDeleted(ctx, id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReleaseNotFound
		}
		return err
	}

	s.logger.Info().Uint("release_id", id).Msg("release soft-deleted")
	s.recordAudit(ctx, actor, models.AuditActionReleaseDeleted, &id, nil)
	s.publish(ReleaseEvent{
		Action:     models.AuditActionReleaseDeleted,
		ReleaseID:  id,
		ActorID:    actor.ID,
		OccurredAt: s.now(),
	})

	return nil
}

// Restore clears the deleted flag. Restoring an active release is a no-op
// success. Ownership, not deleted-visibility, gates the write: a professor
// may restore their own deleted release even though they cannot list it.
func (s *releaseService) Restore(ctx context.Context, actor Actor, scope models.ScopeDescriptor, id uint) error {
	if err := s.getOwnedRelease(ctx, scope, id); err != nil {
		return err
	}

	if err := s.releases.SetDeleted(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReleaseNotFound
		}
		return err
	}

	s.logger.Info().Uint("release_id", id).Msg("release restored")
	s.recordAudit(ctx, actor, models.AuditActionReleaseRestored, &id, nil)
	s.publish(ReleaseEvent{
		Action:     models.AuditActionReleaseRestored,
		ReleaseID:  id,
		ActorID:    actor.ID,
		OccurredAt: s.now(),
	})

	return nil
}

func (s *releaseService) AddSite(ctx context.Context, actor Actor, scope models.ScopeDescriptor, releaseID uint, payload dto.SiteCreateRequest) (dto.SiteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SiteResponse{}, translateValidatorError(err)
	}

	if err := s.getOwnedRelease(ctx, scope, releaseID); err != nil {
		return dto.SiteResponse{}, err
	}

	site := s.newSite(releaseID, payload)
	if err := s.sites.Create(ctx, &site); err != nil {
		return dto.SiteResponse{}, err
	}

	s.logger.Info().Uint("release_id", releaseID).Uint("site_id", site.ID).Msg("allowed site attached")
	s.recordAudit(ctx, actor, models.AuditActionSiteAdded, &releaseID, map[string]interface{}{"url": site.URL})

	return dto.NewSiteResponse(site), nil
}

// RemoveSite deletes the site after confirming the owning release is within
// the caller's scope; out-of-scope sites report not-found.
func (s *releaseService) RemoveSite(ctx context.Context, actor Actor, scope models.ScopeDescriptor, siteID uint) error {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return err
	}

	if err := s.getOwnedRelease(ctx, scope, site.ReleaseID); err != nil {
		return ErrSiteNotFound
	}

	if err := s.sites.Delete(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return err
	}

	s.recordAudit(ctx, actor, models.AuditActionSiteRemoved, nil, map[string]interface{}{"site_id": siteID})

	return nil
}

type releaseWindow struct {
	start time.Time
	end   time.Time
}

func (s *releaseService) validateCreate(payload dto.ReleaseCreateRequest) (releaseWindow, error) {
	if err := s.validator.Struct(payload); err != nil {
		return releaseWindow{}, translateValidatorError(err)
	}

	return s.validateWindow(payload.StartTime, payload.EndTime, payload.MaxAttempts)
}

func (s *releaseService) validateBulk(payload dto.ReleaseBulkCreateRequest) (releaseWindow, error) {
	if err := s.validator.Struct(payload); err != nil {
		return releaseWindow{}, translateValidatorError(err)
	}

	return s.validateWindow(payload.StartTime, payload.EndTime, payload.MaxAttempts)
}

func (s *releaseService) validateWindow(startRaw, endRaw string, maxAttempts int) (releaseWindow, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return releaseWindow{}, newValidationError("start_time", "must be a valid RFC 3339 instant")
	}

	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return releaseWindow{}, newValidationError("end_time", "must be a valid RFC 3339 instant")
	}

	if !end.After(start) {
		return releaseWindow{}, newValidationError("end_time", "must be after start_time")
	}

	if maxAttempts < 0 || maxAttempts > maxAttemptsCeiling {
		return releaseWindow{}, newValidationError("max_attempts", fmt.Sprintf("must be between 1 and %d", maxAttemptsCeiling))
	}

	return releaseWindow{start: start, end: end}, nil
}

func (s *releaseService) resolveInstitution(ctx context.Context, testID uint, explicit *uint) (uint, error) {
	if explicit != nil && *explicit != 0 {
		return *explicit, nil
	}

	// Absent an explicit institution the release inherits the test's own.
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTestNotFound
		}
		return 0, err
	}

	return test.InstitutionID, nil
}

// persistRelease writes the release row first and the site rows after. A
// site failure leaves the release in place; the caller retries site
// attachment rather than release creation.
func (s *releaseService) persistRelease(ctx context.Context, payload dto.ReleaseCreateRequest, window releaseWindow, institutionID uint) (models.TestRelease, error) {
	maxAttempts := payload.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	release := models.TestRelease{
		TestID:            payload.TestID,
		StudentID:         payload.StudentID,
		ProfessorID:       payload.ProfessorID,
		InstitutionID:     institutionID,
		StartTime:         window.start,
		EndTime:           window.end,
		MaxAttempts:       maxAttempts,
		AllowConsultation: payload.AllowConsultation,
		AllowAIAgent:      payload.AllowAIAgent,
	}
	release.SetPolygon(polygonFromPayload(payload.Polygon))

	if err := s.releases.Create(ctx, &release); err != nil {
		return models.TestRelease{}, fmt.Errorf("persist release: %w", err)
	}

	for _, sitePayload := range payload.Sites {
		site := s.newSite(release.ID, sitePayload)
		if err := s.sites.Create(ctx, &site); err != nil {
			return models.TestRelease{}, fmt.Errorf("persist allowed site for release %d: %w", release.ID, err)
		}
		release.AllowedSites = append(release.AllowedSites, site)
	}

	return release, nil
}

// newSite builds an owned site row. Each call allocates an independent copy;
// bulk creation relies on this to keep site lists unshared across releases.
func (s *releaseService) newSite(releaseID uint, payload dto.SiteCreateRequest) models.TestReleaseSite {
	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		title = payload.URL
	}

	return models.TestReleaseSite{
		ReleaseID: releaseID,
		URL:       payload.URL,
		Title:     title,
	}
}

func (s *releaseService) getRelease(ctx context.Context, id uint) (models.TestRelease, error) {
	release, err := s.releases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TestRelease{}, ErrReleaseNotFound
		}
		return models.TestRelease{}, err
	}

	return release, nil
}

// correlateResults indexes graded results by release. More than one result
// for a release is an upstream anomaly; any match marks the release
// completed and the count is surfaced as-is.
func (s *releaseService) correlateResults(ctx context.Context, scope models.ScopeDescriptor) (map[uint][]models.TestResult, error) {
	results, err := s.results.ListScoped(ctx, scope)
	if err != nil {
		return nil, err
	}

	index := make(map[uint][]models.TestResult, len(results))
	for _, result := range results {
		index[result.TestReleaseID] = append(index[result.TestReleaseID], result)
	}

	return index, nil
}

func (s *releaseService) buildResponse(release models.TestRelease, now time.Time, index map[uint][]models.TestResult) dto.ReleaseResponse {
	matches := index[release.ID]

	// Deleted releases short-circuit: derivation never runs for them.
	if release.Deleted {
		return dto.NewReleaseResponse(release, models.ReleaseStatusDeleted, nil, len(matches))
	}

	var first *models.TestResult
	if len(matches) > 0 {
		first = &matches[0]
	}

	return dto.NewReleaseResponse(release, release.StatusAt(now, len(matches) > 0), first, len(matches))
}

func (s *releaseService) recordAudit(ctx context.Context, actor Actor, action string, releaseID *uint, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, actor, action, releaseID, metadata)
}

func (s *releaseService) publish(event ReleaseEvent) {
	if s.events == nil {
		return
	}
	s.events.Publish(event)
}

// getOwnedRelease loads the release and verifies the caller's scope owns it.
// Out-of-scope releases are indistinguishable from missing ones.
func (s *releaseService) getOwnedRelease(ctx context.Context, scope models.ScopeDescriptor, id uint) error {
	release, err := s.getRelease(ctx, id)
	if err != nil {
		return err
	}

	if !releaseOwnedByScope(release, scope) {
		return ErrReleaseNotFound
	}

	return nil
}

// releaseOwnedByScope is the write-side ownership check. Unlike the read
// check it ignores the deleted flag: restore targets deleted rows by
// definition.
func releaseOwnedByScope(release models.TestRelease, scope models.ScopeDescriptor) bool {
	switch scope.Kind {
	case models.ScopeGlobal:
		return scope.InstitutionFilter == nil || release.InstitutionID == *scope.InstitutionFilter
	case models.ScopeInstitution:
		return release.InstitutionID == scope.InstitutionID
	case models.ScopeProfessor:
		return release.ProfessorID == scope.ProfessorID
	default:
		return false
	}
}

func releaseInScope(release models.TestRelease, scope models.ScopeDescriptor) bool {
	switch scope.Kind {
	case models.ScopeGlobal:
		if scope.InstitutionFilter != nil && release.InstitutionID != *scope.InstitutionFilter {
			return false
		}
		return true
	case models.ScopeInstitution:
		return release.InstitutionID == scope.InstitutionID && !release.Deleted
	case models.ScopeProfessor:
		return release.ProfessorID == scope.ProfessorID && !release.Deleted
	default:
		return false
	}
}

func dedupePreservingOrder(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return unique
}

func polygonFromPayload(points []dto.GeoPointPayload) models.GeoPolygon {
	polygon := make(models.GeoPolygon, 0, len(points))
	for _, point := range points {
		polygon = append(polygon, models.GeoPoint{Lat: point.Lat, Lng: point.Lng})
	}

	return polygon
}

// translateValidatorError converts the first tag failure into the field-named
// validation error callers render verbatim.
func translateValidatorError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return newValidationError(toSnakeCase(first.Field()), fmt.Sprintf("failed %q constraint", first.Tag()))
	}

	return err
}

func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Acronym runs like URL stay one word.
			startsWord := i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if startsWord {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
