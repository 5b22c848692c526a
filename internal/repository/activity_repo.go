package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// ActivityFilter narrows learner activity queries.
type ActivityFilter struct {
	Page         int
	PageSize     int
	UserID       uint
	CourseID     *uint
	ActivityType string
}

// ActivityRepository persists the append-only learner activity history.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.UserActivity) error
	CountCompletionActivities(ctx context.Context, userID, courseID uint, activityTypes []string) (int64, error)
	List(ctx context.Context, filter ActivityFilter) ([]models.UserActivity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs the activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// CountCompletionActivities counts the user's activity records for the course
// whose type is one of activityTypes. Repeated completions of a lesson each count.
func (r *activityRepository) CountCompletionActivities(ctx context.Context, userID, courseID uint, activityTypes []string) (int64, error) {
	if len(activityTypes) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("activity_type IN ?", activityTypes).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.UserActivity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserActivity{}).Where("user_id = ?", filter.UserID)

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}

	if filter.ActivityType != "" {
		query = query.Where("activity_type = ?", filter.ActivityType)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.UserActivity
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
