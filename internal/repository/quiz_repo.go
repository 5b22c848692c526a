package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// QuizRepository exposes quiz question lookups.
type QuizRepository interface {
	ListByLesson(ctx context.Context, lessonID uint) ([]models.QuizQuestion, error)
}

// NewQuizRepository constructs a quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

type quizRepository struct {
	db *gorm.DB
}

func (r *quizRepository) ListByLesson(ctx context.Context, lessonID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position ASC").
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
