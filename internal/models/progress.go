package models

import "time"

// UserProgress is the per (user, course) progress snapshot, recomputed from
// the activity history.
type UserProgress struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID           uint      `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	CompletedLessons   int       `gorm:"not null;default:0" json:"completed_lessons"`
	TotalLessons       int       `gorm:"not null;default:0" json:"total_lessons"`
	ProgressPercentage int       `gorm:"not null;default:0" json:"progress_percentage"`
	LastAccessed       time.Time `json:"last_accessed"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
