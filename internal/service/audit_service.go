package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/examgate-go-api/internal/dto"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/repository"
)

// Actor identifies the authenticated principal performing a release
// operation, for audit purposes.
type Actor struct {
	ID   uint
	Role string
}

// AuditRecorder persists release lifecycle audit entries. Recording is
// best-effort; a failed write is logged, never surfaced to the caller.
type AuditRecorder interface {
	Record(ctx context.Context, actor Actor, action string, releaseID *uint, metadata map[string]interface{})
}

// AuditTrail reads the recorded trail back. Listing is administrator-only;
// narrower scopes get an empty page rather than an error.
type AuditTrail interface {
	AuditRecorder
	List(ctx context.Context, scope models.ScopeDescriptor, filter repository.AuditFilter) ([]dto.AuditEntryResponse, int64, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit trail.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditTrail {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, actor Actor, action string, releaseID *uint, metadata map[string]interface{}) {
	entry := models.AuditEntry{
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    action,
		ReleaseID: releaseID,
		Metadata:  datatypes.JSONMap(metadata),
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}

func (s *auditService) List(ctx context.Context, scope models.ScopeDescriptor, filter repository.AuditFilter) ([]dto.AuditEntryResponse, int64, error) {
	if scope.Kind != models.ScopeGlobal {
		return []dto.AuditEntryResponse{}, 0, nil
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewAuditEntryResponseSlice(entries), total, nil
}
