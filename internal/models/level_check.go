package models

import (
	"time"

	"gorm.io/datatypes"
)

// Level check skills.
const (
	LevelCheckWriting  = "writing"
	LevelCheckSpeaking = "speaking"
)

// LevelCheckAttempt stores an AI-scored writing or speaking response.
type LevelCheckAttempt struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	Skill     string            `gorm:"size:32;not null" json:"skill"`
	Part      string            `gorm:"size:32" json:"part"`
	Prompt    string            `gorm:"type:text" json:"prompt"`
	Response  string            `gorm:"type:text" json:"response"`
	Band      float64           `gorm:"not null" json:"band"`
	Feedback  string            `gorm:"type:text" json:"feedback"`
	Provider  string            `gorm:"size:32" json:"provider"`
	Fallback  bool              `gorm:"default:false" json:"fallback"`
	Details   datatypes.JSONMap `json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}
