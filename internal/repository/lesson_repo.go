package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// LessonRepository exposes lesson lookups and content-tree traversal.
type LessonRepository interface {
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	ResolveCourseID(ctx context.Context, lessonID uint) (uint, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

// NewLessonRepository constructs a lesson repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

type lessonRepository struct {
	db *gorm.DB
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

// ResolveCourseID walks lesson -> section -> unit -> course. A broken link in
// the chain yields gorm.ErrRecordNotFound.
func (r *lessonRepository) ResolveCourseID(ctx context.Context, lessonID uint) (uint, error) {
	var row struct {
		CourseID uint
	}

	result := r.db.WithContext(ctx).
		Table("lessons").
		Select("courses.id AS course_id").
		Joins("JOIN sections ON sections.id = lessons.section_id").
		Joins("JOIN units ON units.id = sections.unit_id").
		Joins("JOIN courses ON courses.id = units.course_id").
		Where("lessons.id = ?", lessonID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 || row.CourseID == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	return row.CourseID, nil
}

func (r *lessonRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Joins("JOIN sections ON sections.id = lessons.section_id").
		Joins("JOIN units ON units.id = sections.unit_id").
		Where("units.course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
