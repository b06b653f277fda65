package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/repository"
)

// ScopeService resolves an authenticated principal into the single scope
// descriptor consumed by every downstream release operation.
type ScopeService interface {
	Resolve(ctx context.Context, userID uint) (models.ScopeDescriptor, error)
	ResolveByAuthID(ctx context.Context, authID string) (models.ScopeDescriptor, error)
	Invalidate(ctx context.Context, userID uint) error
}

type scopeService struct {
	users        repository.AppUserRepository
	institutions repository.InstitutionRepository
	professors   repository.ProfessorRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewScopeService builds the scope resolver. The Redis client is optional;
// without it every call resolves from the store.
func NewScopeService(users repository.AppUserRepository, institutions repository.InstitutionRepository, professors repository.ProfessorRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ScopeService {
	return &scopeService{
		users:        users,
		institutions: institutions,
		professors:   professors,
		cache:        cache,
		cacheTTL:     ttl,
		logger:       logger.With().Str("component", "scope_service").Logger(),
	}
}

func scopeCacheKey(userID uint) string {
	return fmt.Sprintf("scope:user:%d", userID)
}

func scopeAuthCacheKey(authID string) string {
	return fmt.Sprintf("scope:auth:%s", authID)
}

// Resolve maps the user's role to a scope descriptor. A manager without an
// institution or a teacher without a professor record resolves to the empty
// unauthorized scope; only store failures surface as errors.
func (s *scopeService) Resolve(ctx context.Context, userID uint) (models.ScopeDescriptor, error) {
	return s.resolveCached(ctx, scopeCacheKey(userID), func() (models.AppUser, error) {
		return s.users.GetByID(ctx, userID)
	})
}

// ResolveByAuthID resolves a principal identified by an external auth token
// subject rather than a numeric user id.
func (s *scopeService) ResolveByAuthID(ctx context.Context, authID string) (models.ScopeDescriptor, error) {
	return s.resolveCached(ctx, scopeAuthCacheKey(authID), func() (models.AppUser, error) {
		return s.users.GetByAuthID(ctx, authID)
	})
}

func (s *scopeService) resolveCached(ctx context.Context, cacheKey string, lookup func() (models.AppUser, error)) (models.ScopeDescriptor, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var scope models.ScopeDescriptor
			if unmarshalErr := json.Unmarshal([]byte(cached), &scope); unmarshalErr == nil {
				s.logger.Debug().Str("cache_key", cacheKey).Msg("scope cache hit")
				return scope, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read scope cache")
		}
	}

	scope, err := s.resolveFromStore(ctx, lookup)
	if err != nil {
		return models.ScopeDescriptor{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(scope); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store scope cache")
			}
		}
	}

	return scope, nil
}

func (s *scopeService) resolveFromStore(ctx context.Context, lookup func() (models.AppUser, error)) (models.ScopeDescriptor, error) {
	user, err := lookup()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UnauthorizedScope(), nil
		}
		return models.ScopeDescriptor{}, fmt.Errorf("resolve app user: %w", err)
	}

	switch user.Role {
	case models.RoleAdministrator:
		return models.GlobalScope(nil), nil

	case models.RoleInstitution:
		institution, err := s.institutions.GetByManager(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A manager not yet linked to an institution sees nothing.
				return models.UnauthorizedScope(), nil
			}
			return models.ScopeDescriptor{}, fmt.Errorf("resolve managed institution: %w", err)
		}
		return models.InstitutionScope(institution.ID), nil

	case models.RoleTeacher:
		professor, err := s.professors.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.UnauthorizedScope(), nil
			}
			return models.ScopeDescriptor{}, fmt.Errorf("resolve professor: %w", err)
		}
		return models.ProfessorScope(professor.ID, professor.InstitutionID), nil

	default:
		return models.UnauthorizedScope(), nil
	}
}

// Invalidate drops the cached descriptor so the next Resolve re-reads the
// principal's role and links.
func (s *scopeService) Invalidate(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Del(ctx, scopeCacheKey(userID)).Err()
}
