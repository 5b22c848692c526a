package models

import "time"

// User is a learner or staff member. Streak fields are only written by the
// progress service on lesson completion.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	Email            string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role             string     `gorm:"size:32;not null;default:student" json:"role"`
	IsPaid           bool       `gorm:"default:false" json:"is_paid"`
	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
