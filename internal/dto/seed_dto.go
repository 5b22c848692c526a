package dto

import "encoding/json"

// SeedCourseRequest describes a full course tree to import.
type SeedCourseRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Language    string     `json:"language" validate:"omitempty,max=16"`
	Publish     bool       `json:"publish"`
	Units       []SeedUnit `json:"units" validate:"required,min=1,dive"`
}

// SeedUnit is a unit of a seeded course.
type SeedUnit struct {
	Title    string        `json:"title" validate:"required"`
	Order    int           `json:"order"`
	Sections []SeedSection `json:"sections" validate:"dive"`
}

// SeedSection is a section of a seeded unit.
type SeedSection struct {
	Title   string       `json:"title" validate:"required"`
	Order   int          `json:"order"`
	Lessons []SeedLesson `json:"lessons" validate:"dive"`
}

// SeedLesson is a lesson of a seeded section.
type SeedLesson struct {
	Title           string         `json:"title" validate:"required"`
	Kind            string         `json:"kind" validate:"required,oneof=content quiz tasks"`
	Order           int            `json:"order"`
	RequiresPayment bool           `json:"requires_payment"`
	Tasks           []SeedTask     `json:"tasks" validate:"dive"`
	Questions       []SeedQuestion `json:"questions" validate:"dive"`
}

// SeedTask is a task with its answer key.
type SeedTask struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type" validate:"required"`
	Order       int             `json:"order"`
	Content     json.RawMessage `json:"content"`
	AnswerKey   json.RawMessage `json:"answer_key"`
}

// SeedQuestion is a single-answer quiz question.
type SeedQuestion struct {
	Prompt             string   `json:"prompt" validate:"required"`
	Order              int      `json:"order"`
	Options            []string `json:"options" validate:"required,min=2"`
	CorrectOptionIndex int      `json:"correct_option_index" validate:"gte=0"`
}

// SeedCourseResponse reports the outcome of a seed run.
type SeedCourseResponse struct {
	CourseID  uint `json:"course_id"`
	Created   bool `json:"created"`
	Units     int  `json:"units"`
	Lessons   int  `json:"lessons"`
	Tasks     int  `json:"tasks"`
	Questions int  `json:"questions"`
}
