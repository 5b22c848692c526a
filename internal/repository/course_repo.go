package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// CourseRepository persists whole course trees.
type CourseRepository interface {
	CreateTree(ctx context.Context, course *models.Course) error
	FindByTitle(ctx context.Context, title string) (models.Course, error)
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

type courseRepository struct {
	db *gorm.DB
}

// CreateTree inserts the course together with its units, sections, lessons,
// tasks and quiz questions in a single transaction.
func (r *courseRepository) CreateTree(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
}

func (r *courseRepository) FindByTitle(ctx context.Context, title string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}
