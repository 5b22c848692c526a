package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/repository"
	"github.com/noah-isme/lingua-go-api/pkg/ai"
)

type stubEvaluator struct {
	result ai.EvaluationResult
	err    error
	inputs []ai.EvaluationInput
	delay  time.Duration
}

func (s *stubEvaluator) Evaluate(ctx context.Context, input ai.EvaluationInput) (ai.EvaluationResult, error) {
	s.inputs = append(s.inputs, input)
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return ai.EvaluationResult{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.result, s.err
}

var writingRequest = dto.WritingCheckRequest{
	Part:     "task2",
	Prompt:   "Discuss both views and give your opinion.",
	Response: "<b>Some people</b> believe that public transport should be free for everyone.",
}

func TestLevelCheckStoresEvaluatedBand(t *testing.T) {
	db := setupServiceDB(t)
	evaluator := &stubEvaluator{result: ai.EvaluationResult{
		Band:     6.5,
		Feedback: "Well organised <script>x</script>",
		Criteria: map[string]float64{"coherence": 7},
	}}
	svc := NewLevelCheckService(repository.NewLevelCheckRepository(db), evaluator, validator.New(), time.Second, testLogger())

	response, err := svc.CheckWriting(context.Background(), Learner{ID: 5}, writingRequest)
	require.NoError(t, err)
	require.Equal(t, 6.5, response.Band)
	require.False(t, response.Fallback)
	require.Equal(t, "Well organised", response.Feedback)
	require.Equal(t, 7.0, response.Criteria["coherence"])

	require.Len(t, evaluator.inputs, 1)
	require.Equal(t, "writing", evaluator.inputs[0].Skill)
	require.NotContains(t, evaluator.inputs[0].Response, "<b>")

	history, err := svc.History(context.Background(), Learner{ID: 5}, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 7.0, history[0].Criteria["coherence"])
}

func TestLevelCheckKeepsPunctuationInPlainText(t *testing.T) {
	db := setupServiceDB(t)
	evaluator := &stubEvaluator{result: ai.EvaluationResult{Band: 6, Feedback: "Don't overuse \"however\" & \"moreover\"."}}
	svc := NewLevelCheckService(repository.NewLevelCheckRepository(db), evaluator, validator.New(), time.Second, testLogger())

	response, err := svc.CheckWriting(context.Background(), Learner{ID: 8}, dto.WritingCheckRequest{
		Part:     "task2",
		Prompt:   "Should cities ban private cars?",
		Response: `<p>I don't think "cars" & buses should share lanes.</p>`,
	})
	require.NoError(t, err)

	require.Len(t, evaluator.inputs, 1)
	require.Equal(t, `I don't think "cars" & buses should share lanes.`, evaluator.inputs[0].Response)
	require.Equal(t, `Don't overuse "however" & "moreover".`, response.Feedback)

	var stored models.LevelCheckAttempt
	require.NoError(t, db.First(&stored, response.ID).Error)
	require.Equal(t, `I don't think "cars" & buses should share lanes.`, stored.Response)
}

func TestLevelCheckFallsBackWhenEvaluatorFails(t *testing.T) {
	db := setupServiceDB(t)
	evaluator := &stubEvaluator{err: errors.New("upstream timeout")}
	svc := NewLevelCheckService(repository.NewLevelCheckRepository(db), evaluator, validator.New(), time.Second, testLogger())

	response, err := svc.CheckSpeaking(context.Background(), Learner{ID: 5}, dto.SpeakingCheckRequest{
		Part:       "part1",
		Prompt:     "Describe your hometown.",
		Transcript: "I live in a small coastal town in the north.",
	})
	require.ErrorIs(t, err, ErrValidation)
	require.True(t, response.Fallback)
	require.Equal(t, DefaultBand, response.Band)
	require.NotZero(t, response.ID)
}

func TestLevelCheckHonoursTimeout(t *testing.T) {
	db := setupServiceDB(t)
	evaluator := &stubEvaluator{delay: time.Second}
	svc := NewLevelCheckService(repository.NewLevelCheckRepository(db), evaluator, validator.New(), 20*time.Millisecond, testLogger())

	response, err := svc.CheckWriting(context.Background(), Learner{ID: 5}, writingRequest)
	require.ErrorIs(t, err, ErrValidation)
	require.True(t, response.Fallback)
}

func TestLevelCheckWithoutEvaluator(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewLevelCheckService(repository.NewLevelCheckRepository(db), nil, validator.New(), time.Second, testLogger())

	_, err := svc.CheckWriting(context.Background(), Learner{ID: 5}, writingRequest)
	require.ErrorIs(t, err, ErrEvaluatorUnavailable)

	_, err = svc.CheckWriting(context.Background(), Learner{ID: 5}, dto.WritingCheckRequest{Part: "task3"})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}
