package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// TestRepository defines read operations over test definitions.
type TestRepository interface {
	ListAll(ctx context.Context) ([]models.Test, error)
	ListByInstitution(ctx context.Context, institutionID uint) ([]models.Test, error)
	ListByProfessor(ctx context.Context, professorID uint) ([]models.Test, error)
	GetByID(ctx context.Context, id uint) (models.Test, error)
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository instantiates a GORM-backed test repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) ListAll(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) ListByInstitution(ctx context.Context, institutionID uint) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).Where("institution_id = ?", institutionID).Order("title ASC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) ListByProfessor(ctx context.Context, professorID uint) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).Where("professor_id = ?", professorID).Order("title ASC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) GetByID(ctx context.Context, id uint) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return models.Test{}, err
	}

	return test, nil
}
