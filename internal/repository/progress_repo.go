package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// ProgressRepository persists the per (user, course) progress snapshot.
type ProgressRepository interface {
	Upsert(ctx context.Context, progress *models.UserProgress) error
	Get(ctx context.Context, userID, courseID uint) (models.UserProgress, error)
}

// NewProgressRepository constructs a progress repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

type progressRepository struct {
	db *gorm.DB
}

// Upsert inserts the snapshot or overwrites the counters of the existing row
// for the same (user, course).
func (r *progressRepository) Upsert(ctx context.Context, progress *models.UserProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed_lessons",
				"total_lessons",
				"progress_percentage",
				"last_accessed",
				"updated_at",
			}),
		}).
		Create(progress).Error
}

func (r *progressRepository) Get(ctx context.Context, userID, courseID uint) (models.UserProgress, error) {
	var progress models.UserProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return models.UserProgress{}, err
	}
	return progress, nil
}
