package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiConfig defines configuration options for the Gemini evaluator.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    zerolog.Logger
}

// GeminiEvaluator implements Evaluator against the Gemini generate content API.
type GeminiEvaluator struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiEvaluator constructs a new evaluator.
func NewGeminiEvaluator(ctx context.Context, cfg GeminiConfig) (*GeminiEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiEvaluator{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/lingua-go-api/pkg/ai/gemini"),
		logger: cfg.Logger.With().Str("component", "ai_gemini").Logger(),
	}, nil
}

// Evaluate sends the band request to Gemini with a JSON response mime type.
func (g *GeminiEvaluator) Evaluate(parent context.Context, input EvaluationInput) (EvaluationResult, error) {
	ctx, span := g.tracer.Start(parent, "gemini.evaluate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("skill", input.Skill),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(g.cfg.MaxTokens),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: evaluatorSystemPrompt(input.Skill)}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: buildUserPrompt(input)}}},
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	observeDuration("gemini", g.cfg.Model, start)
	if err != nil {
		return EvaluationResult{}, recordFailure(span, "gemini", g.cfg.Model, fmt.Errorf("%w: gemini: %v", ErrProviderUnavailable, err))
	}

	result, err := ParseEvaluationResponse(resp.Text())
	if err != nil {
		g.logger.Debug().Err(err).Msg("gemini returned an unparseable band evaluation")
		return EvaluationResult{}, recordFailure(span, "gemini", g.cfg.Model, err)
	}

	if resp.UsageMetadata != nil {
		result.Raw = map[string]interface{}{
			"usage": map[string]int32{
				"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
				"candidates_tokens": resp.UsageMetadata.CandidatesTokenCount,
			},
		}
	}
	return result, nil
}
