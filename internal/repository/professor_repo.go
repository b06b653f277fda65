package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// ProfessorRepository defines read operations over professors.
type ProfessorRepository interface {
	ListAll(ctx context.Context) ([]models.Professor, error)
	ListByInstitution(ctx context.Context, institutionID uint) ([]models.Professor, error)
	GetByID(ctx context.Context, id uint) (models.Professor, error)
	GetByUserID(ctx context.Context, userID uint) (models.Professor, error)
}

type professorRepository struct {
	db *gorm.DB
}

// NewProfessorRepository instantiates a GORM-backed professor repository.
func NewProfessorRepository(db *gorm.DB) ProfessorRepository {
	return &professorRepository{db: db}
}

func (r *professorRepository) ListAll(ctx context.Context) ([]models.Professor, error) {
	var professors []models.Professor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&professors).Error; err != nil {
		return nil, err
	}

	return professors, nil
}

func (r *professorRepository) ListByInstitution(ctx context.Context, institutionID uint) ([]models.Professor, error) {
	var professors []models.Professor
	if err := r.db.WithContext(ctx).Where("institution_id = ?", institutionID).Order("name ASC").Find(&professors).Error; err != nil {
		return nil, err
	}

	return professors, nil
}

func (r *professorRepository) GetByID(ctx context.Context, id uint) (models.Professor, error) {
	var professor models.Professor
	if err := r.db.WithContext(ctx).First(&professor, id).Error; err != nil {
		return models.Professor{}, err
	}

	return professor, nil
}

func (r *professorRepository) GetByUserID(ctx context.Context, userID uint) (models.Professor, error) {
	var professor models.Professor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&professor).Error; err != nil {
		return models.Professor{}, err
	}

	return professor, nil
}
