package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// ReleaseSiteRepository defines persistence operations for allowed
// consultation sites. Sites belong to exactly one release.
type ReleaseSiteRepository interface {
	ListByRelease(ctx context.Context, releaseID uint) ([]models.TestReleaseSite, error)
	GetByID(ctx context.Context, id uint) (models.TestReleaseSite, error)
	Create(ctx context.Context, site *models.TestReleaseSite) error
	Delete(ctx context.Context, id uint) error
}

type releaseSiteRepository struct {
	db *gorm.DB
}

// NewReleaseSiteRepository instantiates a GORM-backed site repository.
func NewReleaseSiteRepository(db *gorm.DB) ReleaseSiteRepository {
	return &releaseSiteRepository{db: db}
}

func (r *releaseSiteRepository) ListByRelease(ctx context.Context, releaseID uint) ([]models.TestReleaseSite, error) {
	var sites []models.TestReleaseSite
	if err := r.db.WithContext(ctx).Where("release_id = ?", releaseID).Order("id ASC").Find(&sites).Error; err != nil {
		return nil, err
	}

	return sites, nil
}

func (r *releaseSiteRepository) GetByID(ctx context.Context, id uint) (models.TestReleaseSite, error) {
	var site models.TestReleaseSite
	if err := r.db.WithContext(ctx).First(&site, id).Error; err != nil {
		return models.TestReleaseSite{}, err
	}

	return site, nil
}

func (r *releaseSiteRepository) Create(ctx context.Context, site *models.TestReleaseSite) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *releaseSiteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TestReleaseSite{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
