package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task is one interactive exercise inside a lesson. Type selects how Content
// (prompt fields, always visible) and AnswerKey (never serialised) are read.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	LessonID    uint           `gorm:"not null;index" json:"lesson_id"`
	Order       int            `gorm:"column:position;default:0" json:"order"`
	Title       string         `gorm:"size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        string         `gorm:"size:48;not null" json:"type"`
	Content     datatypes.JSON `json:"content"`
	AnswerKey   datatypes.JSON `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
