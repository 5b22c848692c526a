package ai

import "context"

// EvaluationInput contains the learner response that should be banded.
type EvaluationInput struct {
	Skill    string
	Part     string
	Prompt   string
	Response string
}

// EvaluationResult is the structured band estimate returned by a provider.
type EvaluationResult struct {
	Band     float64                `json:"band"`
	Feedback string                 `json:"feedback"`
	Criteria map[string]float64     `json:"criteria,omitempty"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Evaluator describes an AI model capable of estimating a proficiency band.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluationInput) (EvaluationResult, error)
}
