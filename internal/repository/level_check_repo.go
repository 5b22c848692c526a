package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// LevelCheckRepository stores AI-scored level check attempts.
type LevelCheckRepository interface {
	Create(ctx context.Context, attempt *models.LevelCheckAttempt) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.LevelCheckAttempt, error)
}

// NewLevelCheckRepository constructs the repository.
func NewLevelCheckRepository(db *gorm.DB) LevelCheckRepository {
	return &levelCheckRepository{db: db}
}

type levelCheckRepository struct {
	db *gorm.DB
}

func (r *levelCheckRepository) Create(ctx context.Context, attempt *models.LevelCheckAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *levelCheckRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.LevelCheckAttempt, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var attempts []models.LevelCheckAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
