package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// ReleaseRepository defines persistence operations for test releases. Every
// read is parameterized by a resolved scope descriptor; scoping happens in
// the query itself so no caller ever sees out-of-scope rows.
type ReleaseRepository interface {
	ListScoped(ctx context.Context, scope models.ScopeDescriptor, includeDeleted bool) ([]models.TestRelease, error)
	GetByID(ctx context.Context, id uint) (models.TestRelease, error)
	Create(ctx context.Context, release *models.TestRelease) error
	SetDeleted(ctx context.Context, id uint, deleted bool) error
}

type releaseRepository struct {
	db *gorm.DB
}

// NewReleaseRepository instantiates a GORM-backed release repository.
func NewReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &releaseRepository{db: db}
}

func (r *releaseRepository) ListScoped(ctx context.Context, scope models.ScopeDescriptor, includeDeleted bool) ([]models.TestRelease, error) {
	if !scope.IsAuthorized() {
		return []models.TestRelease{}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.TestRelease{}).Preload("AllowedSites")

	switch scope.Kind {
	case models.ScopeGlobal:
		if scope.InstitutionFilter != nil {
			query = query.Where("institution_id = ?", *scope.InstitutionFilter)
		}
	case models.ScopeInstitution:
		query = query.Where("institution_id = ?", scope.InstitutionID)
	case models.ScopeProfessor:
		query = query.Where("professor_id = ?", scope.ProfessorID)
	}

	// Soft-deleted visibility is an administrator-only capability; the flag
	// is ignored for every other scope.
	if !includeDeleted || !scope.CanViewDeleted() {
		query = query.Where("deleted = ?", false)
	}

	var releases []models.TestRelease
	if err := query.Order("start_time ASC").Find(&releases).Error; err != nil {
		return nil, err
	}

	return releases, nil
}

// GetByID resolves a release by identifier regardless of its deleted flag so
// soft-deleted releases stay addressable for restore.
func (r *releaseRepository) GetByID(ctx context.Context, id uint) (models.TestRelease, error) {
	var release models.TestRelease
	if err := r.db.WithContext(ctx).Preload("AllowedSites").First(&release, id).Error; err != nil {
		return models.TestRelease{}, err
	}

	return release, nil
}

func (r *releaseRepository) Create(ctx context.Context, release *models.TestRelease) error {
	return r.db.WithContext(ctx).Create(release).Error
}

func (r *releaseRepository) SetDeleted(ctx context.Context, id uint, deleted bool) error {
	result := r.db.WithContext(ctx).Model(&models.TestRelease{}).Where("id = ?", id).Update("deleted", deleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// The flag may already hold the requested value; distinguish a
		// missing row from an idempotent no-op.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.TestRelease{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
