package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/grading"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/observability"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

// LessonService grades lesson submissions and records lesson lifecycle events.
type LessonService interface {
	SubmitTasks(ctx context.Context, learner Learner, lessonID uint, payload dto.TaskSubmissionRequest) (dto.TaskSubmissionResponse, error)
	SubmitQuiz(ctx context.Context, learner Learner, lessonID uint, payload dto.QuizSubmissionRequest) (dto.QuizSubmissionResponse, error)
	Start(ctx context.Context, learner Learner, lessonID uint) (dto.LessonActivityResponse, error)
	Complete(ctx context.Context, learner Learner, lessonID uint) (dto.LessonActivityResponse, error)
}

// LessonServiceConfig tunes task evaluation.
type LessonServiceConfig struct {
	EvaluationWorkers int
}

type lessonService struct {
	lessons   repository.LessonRepository
	tasks     repository.TaskRepository
	quizzes   repository.QuizRepository
	users     repository.UserRepository
	progress  ProgressService
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	workers   int
}

// NewLessonService constructs the lesson service.
func NewLessonService(lessons repository.LessonRepository, tasks repository.TaskRepository, quizzes repository.QuizRepository, users repository.UserRepository, progress ProgressService, validate *validator.Validate, logger zerolog.Logger, cfg LessonServiceConfig) LessonService {
	workers := cfg.EvaluationWorkers
	if workers <= 0 {
		workers = 4
	}

	return &lessonService{
		lessons:   lessons,
		tasks:     tasks,
		quizzes:   quizzes,
		users:     users,
		progress:  progress,
		validator: validate,
		logger:    logger.With().Str("component", "lesson_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/lingua-go-api/internal/service/lesson"),
		workers:   workers,
	}
}

func (s *lessonService) SubmitTasks(ctx context.Context, learner Learner, lessonID uint, payload dto.TaskSubmissionRequest) (dto.TaskSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "lessons.submit_tasks", trace.WithAttributes(
		attribute.Int64("lesson.id", int64(lessonID)),
		attribute.Int("submission.count", len(payload.Submissions)),
	))
	defer span.End()

	if _, err := s.accessibleLesson(spanCtx, learner, lessonID); err != nil {
		span.RecordError(err)
		return dto.TaskSubmissionResponse{}, err
	}

	tasks, err := s.tasks.ListByLesson(spanCtx, lessonID)
	if err != nil {
		span.RecordError(err)
		return dto.TaskSubmissionResponse{}, err
	}

	pairs, err := PairSubmissions(tasks, payload.Submissions)
	if err != nil {
		return dto.TaskSubmissionResponse{}, err
	}

	results, err := s.evaluate(spanCtx, pairs)
	if err != nil {
		span.RecordError(err)
		return dto.TaskSubmissionResponse{}, err
	}

	summary := grading.Aggregate(results)
	if summary.OverallScore != nil {
		observability.SubmissionScores().WithLabelValues(models.LessonKindTasks).Observe(float64(*summary.OverallScore))
	}

	recorded, err := s.progress.Record(spanCtx, ActivityEvent{
		UserID:   learner.ID,
		LessonID: lessonID,
		Type:     models.ActivityTasksAttempted,
		Score:    summary.OverallScore,
	})
	if err != nil {
		span.RecordError(err)
		return dto.TaskSubmissionResponse{}, err
	}

	response := dto.NewTaskSubmissionResponse(lessonID, summary, results)
	response.Progress = recorded.Progress

	s.logger.Info().
		Uint("user_id", learner.ID).
		Uint("lesson_id", lessonID).
		Int("graded", summary.TotalQuestions).
		Int("correct", summary.TotalCorrect).
		Msg("task batch evaluated")

	return response, nil
}

func (s *lessonService) SubmitQuiz(ctx context.Context, learner Learner, lessonID uint, payload dto.QuizSubmissionRequest) (dto.QuizSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmissionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "lessons.submit_quiz", trace.WithAttributes(
		attribute.Int64("lesson.id", int64(lessonID)),
	))
	defer span.End()

	if _, err := s.accessibleLesson(spanCtx, learner, lessonID); err != nil {
		span.RecordError(err)
		return dto.QuizSubmissionResponse{}, err
	}

	questions, err := s.quizzes.ListByLesson(spanCtx, lessonID)
	if err != nil {
		span.RecordError(err)
		return dto.QuizSubmissionResponse{}, err
	}

	keys := make([]grading.QuizKey, 0, len(questions))
	for _, question := range questions {
		keys = append(keys, grading.QuizKey{QuestionID: question.ID, CorrectOptionIndex: question.CorrectOptionIndex})
	}

	summary := grading.ScoreQuiz(keys, payload.Answers)
	observability.SubmissionScores().WithLabelValues(models.LessonKindQuiz).Observe(float64(summary.Score))

	score := summary.Score
	recorded, err := s.progress.Record(spanCtx, ActivityEvent{
		UserID:   learner.ID,
		LessonID: lessonID,
		Type:     models.ActivityQuizAttempted,
		Score:    &score,
		Answers:  payload.Answers,
	})
	if err != nil {
		span.RecordError(err)
		return dto.QuizSubmissionResponse{}, err
	}

	response := dto.NewQuizSubmissionResponse(lessonID, summary)
	response.Progress = recorded.Progress
	return response, nil
}

func (s *lessonService) Start(ctx context.Context, learner Learner, lessonID uint) (dto.LessonActivityResponse, error) {
	if _, err := s.accessibleLesson(ctx, learner, lessonID); err != nil {
		return dto.LessonActivityResponse{}, err
	}
	return s.progress.Record(ctx, ActivityEvent{UserID: learner.ID, LessonID: lessonID, Type: models.ActivityStarted})
}

func (s *lessonService) Complete(ctx context.Context, learner Learner, lessonID uint) (dto.LessonActivityResponse, error) {
	if _, err := s.accessibleLesson(ctx, learner, lessonID); err != nil {
		return dto.LessonActivityResponse{}, err
	}
	return s.progress.Record(ctx, ActivityEvent{UserID: learner.ID, LessonID: lessonID, Type: models.ActivityCompleted})
}

// accessibleLesson loads the lesson and enforces the paid-content gate.
func (s *lessonService) accessibleLesson(ctx context.Context, learner Learner, lessonID uint) (models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	if !lesson.RequiresPayment || learner.IsStaff() {
		return lesson, nil
	}

	user, err := s.users.GetByID(ctx, learner.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrUserNotFound
		}
		return models.Lesson{}, err
	}
	if lesson.IsGated(user) {
		return models.Lesson{}, ErrPaymentRequired
	}
	return lesson, nil
}

// evaluate scores every pair on a bounded worker pool. Results keep the task
// order of the lesson.
func (s *lessonService) evaluate(ctx context.Context, pairs []grading.Pair) ([]grading.Result, error) {
	results := make([]grading.Result, len(pairs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, pair := range pairs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result := grading.Evaluate(pair.Task, pair.Submission)
			observability.TaskEvaluations().WithLabelValues(string(pair.Task.Type), evaluationOutcome(result)).Inc()
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluationOutcome(result grading.Result) string {
	switch {
	case !result.HasScore:
		return "ungraded"
	case result.IsCorrect:
		return "correct"
	case result.Score > 0:
		return "partial"
	default:
		return "incorrect"
	}
}
