package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

// AppUserRepository resolves application user records for scope resolution.
type AppUserRepository interface {
	GetByID(ctx context.Context, id uint) (models.AppUser, error)
	GetByAuthID(ctx context.Context, authID string) (models.AppUser, error)
}

type appUserRepository struct {
	db *gorm.DB
}

// NewAppUserRepository instantiates a GORM-backed user repository.
func NewAppUserRepository(db *gorm.DB) AppUserRepository {
	return &appUserRepository{db: db}
}

func (r *appUserRepository) GetByID(ctx context.Context, id uint) (models.AppUser, error) {
	var user models.AppUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.AppUser{}, err
	}

	return user, nil
}

func (r *appUserRepository) GetByAuthID(ctx context.Context, authID string) (models.AppUser, error) {
	var user models.AppUser
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return models.AppUser{}, err
	}

	return user, nil
}
