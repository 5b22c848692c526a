package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizQuestion is a single-answer question of a quiz lesson.
type QuizQuestion struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	LessonID           uint                        `gorm:"not null;index" json:"lesson_id"`
	Order              int                         `gorm:"column:position;default:0" json:"order"`
	Prompt             string                      `gorm:"type:text;not null" json:"prompt"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `gorm:"not null" json:"-"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}
