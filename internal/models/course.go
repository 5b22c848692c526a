package models

import "time"

// Lesson kinds.
const (
	LessonKindContent = "content"
	LessonKindQuiz    = "quiz"
	LessonKindTasks   = "tasks"
)

// Course is the root of the learning content tree.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Language    string    `gorm:"size:32" json:"language"`
	IsPublished bool      `gorm:"default:false" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Units       []Unit    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"units,omitempty"`
}

// Unit groups sections inside a course.
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Order     int       `gorm:"column:position;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Sections  []Section `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"sections,omitempty"`
}

// Section groups lessons inside a unit.
type Section struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UnitID    uint      `gorm:"not null;index" json:"unit_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Order     int       `gorm:"column:position;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Lessons   []Lesson  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lessons,omitempty"`
}

// Lesson is the leaf of the content tree. Task lessons hold Tasks, quiz
// lessons hold QuizQuestions.
type Lesson struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SectionID       uint           `gorm:"not null;index" json:"section_id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Kind            string         `gorm:"size:32;not null;default:content" json:"kind"`
	Order           int            `gorm:"column:position;default:0" json:"order"`
	RequiresPayment bool           `gorm:"default:false" json:"requires_payment"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Tasks           []Task         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tasks,omitempty"`
	Questions       []QuizQuestion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// IsGated reports whether the user may not attempt graded content of the lesson.
func (l Lesson) IsGated(user User) bool {
	return l.RequiresPayment && !user.IsPaid
}
