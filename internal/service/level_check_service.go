package service

import (
	"context"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/observability"
	"github.com/noah-isme/lingua-go-api/internal/repository"
	"github.com/noah-isme/lingua-go-api/pkg/ai"
)

// DefaultBand is reported when the evaluator fails.
const DefaultBand = 5.0

const fallbackFeedback = "Automatic evaluation is unavailable; an estimated band has been recorded."

// LevelCheckService estimates writing and speaking bands with an AI evaluator.
type LevelCheckService interface {
	CheckWriting(ctx context.Context, learner Learner, payload dto.WritingCheckRequest) (dto.LevelCheckResponse, error)
	CheckSpeaking(ctx context.Context, learner Learner, payload dto.SpeakingCheckRequest) (dto.LevelCheckResponse, error)
	History(ctx context.Context, learner Learner, limit int) ([]dto.LevelCheckResponse, error)
}

type levelCheckService struct {
	attempts  repository.LevelCheckRepository
	evaluator ai.Evaluator
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	timeout   time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewLevelCheckService constructs the level check service. A nil evaluator
// makes every check fail with ErrEvaluatorUnavailable.
func NewLevelCheckService(attempts repository.LevelCheckRepository, evaluator ai.Evaluator, validate *validator.Validate, timeout time.Duration, logger zerolog.Logger) LevelCheckService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &levelCheckService{
		attempts:  attempts,
		evaluator: evaluator,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		timeout:   timeout,
		logger:    logger.With().Str("component", "level_check_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/lingua-go-api/internal/service/level_check"),
	}
}

func (s *levelCheckService) CheckWriting(ctx context.Context, learner Learner, payload dto.WritingCheckRequest) (dto.LevelCheckResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelCheckResponse{}, err
	}
	return s.check(ctx, learner, ai.EvaluationInput{
		Skill:    models.LevelCheckWriting,
		Part:     payload.Part,
		Prompt:   payload.Prompt,
		Response: payload.Response,
	})
}

func (s *levelCheckService) CheckSpeaking(ctx context.Context, learner Learner, payload dto.SpeakingCheckRequest) (dto.LevelCheckResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelCheckResponse{}, err
	}
	return s.check(ctx, learner, ai.EvaluationInput{
		Skill:    models.LevelCheckSpeaking,
		Part:     payload.Part,
		Prompt:   payload.Prompt,
		Response: payload.Transcript,
	})
}

func (s *levelCheckService) History(ctx context.Context, learner Learner, limit int) ([]dto.LevelCheckResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	attempts, err := s.attempts.ListByUser(ctx, learner.ID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LevelCheckResponse, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, dto.NewLevelCheckResponse(attempt))
	}
	return items, nil
}

// plainText strips markup while keeping quotes, apostrophes and ampersands
// as the learner typed them.
func (s *levelCheckService) plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

// check runs one evaluation. When the evaluator fails, a fallback attempt
// with DefaultBand is stored and returned together with a ValidationError.
func (s *levelCheckService) check(ctx context.Context, learner Learner, input ai.EvaluationInput) (dto.LevelCheckResponse, error) {
	if s.evaluator == nil {
		return dto.LevelCheckResponse{}, ErrEvaluatorUnavailable
	}

	input.Prompt = s.plainText(input.Prompt)
	input.Response = s.plainText(input.Response)
	if input.Response == "" {
		return dto.LevelCheckResponse{}, validationErrorf("response empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "level_check.evaluate", trace.WithAttributes(
		attribute.String("level_check.skill", input.Skill),
		attribute.String("level_check.part", input.Part),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(spanCtx, s.timeout)
	result, evalErr := s.evaluator.Evaluate(callCtx, input)
	cancel()

	attempt := models.LevelCheckAttempt{
		UserID:   learner.ID,
		Skill:    input.Skill,
		Part:     input.Part,
		Prompt:   input.Prompt,
		Response: input.Response,
		Provider: ai.ProviderName(s.evaluator),
	}

	if evalErr != nil {
		span.RecordError(evalErr)
		s.logger.Warn().Err(evalErr).Uint("user_id", learner.ID).Str("skill", input.Skill).Msg("level check evaluation failed, storing fallback band")
		attempt.Band = DefaultBand
		attempt.Feedback = fallbackFeedback
		attempt.Fallback = true
		attempt.Details = datatypes.JSONMap{"error": evalErr.Error()}
	} else {
		attempt.Band = result.Band
		attempt.Feedback = s.plainText(result.Feedback)
		attempt.Details = datatypes.JSONMap{"criteria": criteriaDetails(result.Criteria), "raw": result.Raw}
	}

	observability.LevelChecks().WithLabelValues(input.Skill, strconv.FormatBool(attempt.Fallback)).Inc()

	if err := s.attempts.Create(spanCtx, &attempt); err != nil {
		span.RecordError(err)
		return dto.LevelCheckResponse{}, err
	}

	response := dto.NewLevelCheckResponse(attempt)
	if attempt.Fallback {
		return response, validationErrorf("level check evaluation failed")
	}
	return response, nil
}

func criteriaDetails(criteria map[string]float64) map[string]interface{} {
	details := make(map[string]interface{}, len(criteria))
	for name, band := range criteria {
		details[name] = band
	}
	return details
}
