package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// TaskRepository exposes task lookups by lesson.
type TaskRepository interface {
	ListByLesson(ctx context.Context, lessonID uint) ([]models.Task, error)
}

// NewTaskRepository constructs a task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

// ListByLesson returns the lesson's tasks in display order.
func (r *taskRepository) ListByLesson(ctx context.Context, lessonID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position ASC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
