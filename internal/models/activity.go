package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity types recorded for learners.
const (
	ActivityStarted        = "started"
	ActivityCompleted      = "completed"
	ActivityQuizAttempted  = "quiz_attempted"
	ActivityTasksAttempted = "tasks_attempted"
)

// UserActivity is an append-only record of a learner event on a lesson.
type UserActivity struct {
	ID           uint                     `gorm:"primaryKey" json:"id"`
	UserID       uint                     `gorm:"not null;index:idx_activity_user_course" json:"user_id"`
	CourseID     uint                     `gorm:"not null;index:idx_activity_user_course" json:"course_id"`
	LessonID     uint                     `gorm:"not null;index" json:"lesson_id"`
	ActivityType string                   `gorm:"size:32;not null" json:"activity_type"`
	QuizScore    *int                     `json:"quiz_score"`
	QuizAnswers  datatypes.JSONSlice[int] `json:"quiz_answers"`
	CreatedAt    time.Time                `json:"created_at"`
}
