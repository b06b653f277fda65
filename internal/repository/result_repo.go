package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// ResultRepository reads graded results produced by the external grading
// collaborator. ListScoped applies the same visibility rule as the release
// listing so result correlation never widens a caller's scope.
type ResultRepository interface {
	ListScoped(ctx context.Context, scope models.ScopeDescriptor) ([]models.TestResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates a GORM-backed result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) ListScoped(ctx context.Context, scope models.ScopeDescriptor) ([]models.TestResult, error) {
	if !scope.IsAuthorized() {
		return []models.TestResult{}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.TestResult{}).
		Joins("JOIN test_releases ON test_releases.id = test_results.test_release_id")

	switch scope.Kind {
	case models.ScopeGlobal:
		if scope.InstitutionFilter != nil {
			query = query.Where("test_releases.institution_id = ?", *scope.InstitutionFilter)
		}
	case models.ScopeInstitution:
		query = query.Where("test_releases.institution_id = ?", scope.InstitutionID)
	case models.ScopeProfessor:
		query = query.Where("test_releases.professor_id = ?", scope.ProfessorID)
	}

	var results []models.TestResult
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
