package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ProviderConfig selects and configures one evaluator backend.
type ProviderConfig struct {
	Provider     string
	Model        string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
	BaseURL      string
	MaxTokens    int
	Logger       zerolog.Logger
}

// NewEvaluator builds the evaluator named by cfg.Provider. An empty provider
// picks the first backend with a configured key; no key at all yields nil.
func NewEvaluator(ctx context.Context, cfg ProviderConfig) (Evaluator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case cfg.OpenAIKey != "":
			provider = ProviderOpenAI
		case cfg.AnthropicKey != "":
			provider = ProviderAnthropic
		case cfg.GeminiKey != "":
			provider = ProviderGemini
		default:
			return nil, nil
		}
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIEvaluator(OpenAIConfig{APIKey: cfg.OpenAIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, MaxTokens: cfg.MaxTokens, Logger: cfg.Logger})
	case ProviderAnthropic:
		return NewAnthropicEvaluator(AnthropicConfig{APIKey: cfg.AnthropicKey, Model: cfg.Model, BaseURL: cfg.BaseURL, MaxTokens: cfg.MaxTokens, Logger: cfg.Logger})
	case ProviderGemini:
		return NewGeminiEvaluator(ctx, GeminiConfig{APIKey: cfg.GeminiKey, BaseURL: cfg.BaseURL, Model: cfg.Model, MaxTokens: cfg.MaxTokens, Logger: cfg.Logger})
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// ProviderName reports the backend name of an evaluator.
func ProviderName(evaluator Evaluator) string {
	switch evaluator.(type) {
	case *OpenAIEvaluator:
		return ProviderOpenAI
	case *AnthropicEvaluator:
		return ProviderAnthropic
	case *GeminiEvaluator:
		return ProviderGemini
	default:
		return "unknown"
	}
}
