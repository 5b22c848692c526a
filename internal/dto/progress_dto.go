package dto

import (
	"time"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// ProgressResponse is the per-course progress snapshot of a learner.
type ProgressResponse struct {
	UserID             uint      `json:"user_id"`
	CourseID           uint      `json:"course_id"`
	CompletedLessons   int       `json:"completed_lessons"`
	TotalLessons       int       `json:"total_lessons"`
	ProgressPercentage int       `json:"progress_percentage"`
	LastAccessed       time.Time `json:"last_accessed"`
}

// NewProgressResponse maps a progress row.
func NewProgressResponse(progress models.UserProgress) ProgressResponse {
	return ProgressResponse{
		UserID:             progress.UserID,
		CourseID:           progress.CourseID,
		CompletedLessons:   progress.CompletedLessons,
		TotalLessons:       progress.TotalLessons,
		ProgressPercentage: progress.ProgressPercentage,
		LastAccessed:       progress.LastAccessed,
	}
}

// StreakResponse reports the learner's consecutive-day streak.
type StreakResponse struct {
	CurrentStreak    int        `json:"current_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

// ActivityResponse describes one recorded learner event.
type ActivityResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	CourseID     uint      `json:"course_id"`
	LessonID     uint      `json:"lesson_id"`
	ActivityType string    `json:"activity_type"`
	QuizScore    *int      `json:"quiz_score,omitempty"`
	QuizAnswers  []int     `json:"quiz_answers,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewActivityResponse maps an activity row.
func NewActivityResponse(activity models.UserActivity) ActivityResponse {
	return ActivityResponse{
		ID:           activity.ID,
		UserID:       activity.UserID,
		CourseID:     activity.CourseID,
		LessonID:     activity.LessonID,
		ActivityType: activity.ActivityType,
		QuizScore:    activity.QuizScore,
		QuizAnswers:  []int(activity.QuizAnswers),
		CreatedAt:    activity.CreatedAt,
	}
}

// ActivityListRequest filters a learner's activity history.
type ActivityListRequest struct {
	Page         int    `query:"page" validate:"omitempty,gte=1"`
	PageSize     int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	CourseID     uint   `query:"course_id"`
	ActivityType string `query:"activity_type" validate:"omitempty,oneof=started completed quiz_attempted tasks_attempted"`
}

// ActivityListResponse wraps a page of activities.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
