package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// InstitutionRepository defines read operations over institutions.
type InstitutionRepository interface {
	ListAll(ctx context.Context) ([]models.Institution, error)
	GetByID(ctx context.Context, id uint) (models.Institution, error)
	GetByManager(ctx context.Context, managerID uint) (models.Institution, error)
}

type institutionRepository struct {
	db *gorm.DB
}

// NewInstitutionRepository instantiates a GORM-backed institution repository.
func NewInstitutionRepository(db *gorm.DB) InstitutionRepository {
	return &institutionRepository{db: db}
}

func (r *institutionRepository) ListAll(ctx context.Context) ([]models.Institution, error) {
	var institutions []models.Institution
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&institutions).Error; err != nil {
		return nil, err
	}

	return institutions, nil
}

func (r *institutionRepository) GetByID(ctx context.Context, id uint) (models.Institution, error) {
	var institution models.Institution
	if err := r.db.WithContext(ctx).First(&institution, id).Error; err != nil {
		return models.Institution{}, err
	}

	return institution, nil
}

func (r *institutionRepository) GetByManager(ctx context.Context, managerID uint) (models.Institution, error) {
	var institution models.Institution
	if err := r.db.WithContext(ctx).Where("manager_id = ?", managerID).First(&institution).Error; err != nil {
		return models.Institution{}, err
	}

	return institution, nil
}
