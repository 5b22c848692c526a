package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// UserRepository exposes user reads and streak writes.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	UpdateStreak(ctx context.Context, id uint, streak int, lastActivity time.Time) error
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) UpdateStreak(ctx context.Context, id uint, streak int, lastActivity time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_streak":     streak,
			"last_activity_date": lastActivity,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
