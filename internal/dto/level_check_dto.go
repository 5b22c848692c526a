package dto

import (
	"time"

	"github.com/noah-isme/lingua-go-api/internal/models"
)

// WritingCheckRequest submits an essay for band estimation.
type WritingCheckRequest struct {
	Part     string `json:"part" validate:"required,oneof=task1 task2"`
	Prompt   string `json:"prompt" validate:"required,min=10"`
	Response string `json:"response" validate:"required,min=20,max=10000"`
}

// SpeakingCheckRequest submits a speaking transcript for band estimation.
type SpeakingCheckRequest struct {
	Part       string `json:"part" validate:"required,oneof=part1 part2 part3"`
	Prompt     string `json:"prompt" validate:"required,min=5"`
	Transcript string `json:"transcript" validate:"required,min=10,max=10000"`
}

// LevelCheckResponse is the scored level check attempt.
type LevelCheckResponse struct {
	ID        uint               `json:"id"`
	Skill     string             `json:"skill"`
	Part      string             `json:"part"`
	Band      float64            `json:"band"`
	Feedback  string             `json:"feedback"`
	Criteria  map[string]float64 `json:"criteria,omitempty"`
	Provider  string             `json:"provider"`
	Fallback  bool               `json:"fallback"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewLevelCheckResponse maps a stored attempt. Criteria are read back from the
// details column.
func NewLevelCheckResponse(attempt models.LevelCheckAttempt) LevelCheckResponse {
	response := LevelCheckResponse{
		ID:        attempt.ID,
		Skill:     attempt.Skill,
		Part:      attempt.Part,
		Band:      attempt.Band,
		Feedback:  attempt.Feedback,
		Provider:  attempt.Provider,
		Fallback:  attempt.Fallback,
		CreatedAt: attempt.CreatedAt,
	}

	if raw, ok := attempt.Details["criteria"].(map[string]interface{}); ok {
		response.Criteria = make(map[string]float64, len(raw))
		for name, value := range raw {
			if score, ok := value.(float64); ok {
				response.Criteria[name] = score
			}
		}
	}

	return response
}
