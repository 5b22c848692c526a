package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnthropicConfig defines configuration options for the Anthropic evaluator.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Logger    zerolog.Logger
}

// AnthropicEvaluator implements Evaluator against the Anthropic messages API.
type AnthropicEvaluator struct {
	client *anthropic.Client
	cfg    AnthropicConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewAnthropicEvaluator constructs a new evaluator.
func NewAnthropicEvaluator(cfg AnthropicConfig) (*AnthropicEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicEvaluator{
		client: &client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/lingua-go-api/pkg/ai/anthropic"),
		logger: cfg.Logger.With().Str("component", "ai_anthropic").Logger(),
	}, nil
}

// Evaluate sends the band request to Anthropic and parses the first text block.
func (a *AnthropicEvaluator) Evaluate(parent context.Context, input EvaluationInput) (EvaluationResult, error) {
	ctx, span := a.tracer.Start(parent, "anthropic.evaluate", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
		attribute.String("skill", input.Skill),
	))
	defer span.End()

	start := time.Now()
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: evaluatorSystemPrompt(input.Skill)}},
		Messages: []anthropic.MessageParam{
			{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(buildUserPrompt(input))},
			},
		},
	})
	observeDuration("anthropic", a.cfg.Model, start)
	if err != nil {
		return EvaluationResult{}, recordFailure(span, "anthropic", a.cfg.Model, mapAnthropicError(err))
	}

	text := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return EvaluationResult{}, recordFailure(span, "anthropic", a.cfg.Model, fmt.Errorf("%w: no text content in anthropic response", ErrInvalidResponse))
	}

	result, err := ParseEvaluationResponse(text)
	if err != nil {
		a.logger.Debug().Err(err).Msg("anthropic returned an unparseable band evaluation")
		return EvaluationResult{}, recordFailure(span, "anthropic", a.cfg.Model, err)
	}

	result.Raw = map[string]interface{}{
		"usage": map[string]int64{
			"input_tokens":  msg.Usage.InputTokens,
			"output_tokens": msg.Usage.OutputTokens,
		},
		"stop_reason": string(msg.StopReason),
	}
	return result, nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: anthropic rejected request: %v", ErrInvalidResponse, err)
	}
	return fmt.Errorf("%w: anthropic: %v", ErrProviderUnavailable, err)
}
