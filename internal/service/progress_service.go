package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/grading"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/observability"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

// completionActivityTypes are the activity types that mark a lesson as done.
// tasks_attempted is deliberately absent.
var completionActivityTypes = []string{models.ActivityCompleted, models.ActivityQuizAttempted}

// ActivityEvent describes a learner event to record.
type ActivityEvent struct {
	UserID   uint
	LessonID uint
	Type     string
	Score    *int
	Answers  []int
}

// ProgressService records learner activity and maintains course progress and
// streaks.
type ProgressService interface {
	Record(ctx context.Context, event ActivityEvent) (dto.LessonActivityResponse, error)
	Recompute(ctx context.Context, userID, courseID uint) (dto.ProgressResponse, error)
	Get(ctx context.Context, userID, courseID uint) (dto.ProgressResponse, error)
	Streak(ctx context.Context, userID uint) (dto.StreakResponse, error)
	ListActivities(ctx context.Context, userID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

// ProgressDeps groups the collaborators of the progress service.
type ProgressDeps struct {
	Lessons    repository.LessonRepository
	Activities repository.ActivityRepository
	Progress   repository.ProgressRepository
	Users      repository.UserRepository
	Locker     ProgressLocker
	Publisher  ProgressPublisher
	Cache      *redis.Client
	CacheTTL   time.Duration
}

type progressService struct {
	lessons    repository.LessonRepository
	activities repository.ActivityRepository
	progress   repository.ProgressRepository
	users      repository.UserRepository
	locker     ProgressLocker
	publisher  ProgressPublisher
	cache      *redis.Client
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewProgressService constructs the progress service.
func NewProgressService(deps ProgressDeps, validate *validator.Validate, logger zerolog.Logger) ProgressService {
	locker := deps.Locker
	if locker == nil {
		locker = newLocalLocker()
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &progressService{
		lessons:    deps.Lessons,
		activities: deps.Activities,
		progress:   deps.Progress,
		users:      deps.Users,
		locker:     locker,
		publisher:  deps.Publisher,
		cache:      deps.Cache,
		cacheTTL:   ttl,
		validator:  validate,
		logger:     logger.With().Str("component", "progress_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/lingua-go-api/internal/service/progress"),
		now:        time.Now,
	}
}

func (s *progressService) Record(ctx context.Context, event ActivityEvent) (dto.LessonActivityResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "progress.record", trace.WithAttributes(
		attribute.Int64("user.id", int64(event.UserID)),
		attribute.Int64("lesson.id", int64(event.LessonID)),
		attribute.String("activity.type", event.Type),
	))
	defer span.End()

	courseID, err := s.lessons.ResolveCourseID(spanCtx, event.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = fmt.Errorf("%w: lesson %d is not attached to a course", ErrDataIntegrity, event.LessonID)
		}
		span.RecordError(err)
		return dto.LessonActivityResponse{}, err
	}

	activity := models.UserActivity{
		UserID:       event.UserID,
		CourseID:     courseID,
		LessonID:     event.LessonID,
		ActivityType: event.Type,
		QuizScore:    event.Score,
		QuizAnswers:  event.Answers,
	}
	if err := s.activities.Create(spanCtx, &activity); err != nil {
		span.RecordError(err)
		return dto.LessonActivityResponse{}, err
	}

	response := dto.LessonActivityResponse{Activity: dto.NewActivityResponse(activity)}
	if event.Type == models.ActivityStarted {
		return response, nil
	}

	progress, err := s.Recompute(spanCtx, event.UserID, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.LessonActivityResponse{}, err
	}
	response.Progress = &progress

	if event.Type == models.ActivityCompleted {
		streak, err := s.advanceStreak(spanCtx, event.UserID)
		if err != nil {
			span.RecordError(err)
			return dto.LessonActivityResponse{}, err
		}
		response.Streak = &streak
	}

	if s.publisher != nil {
		publishErr := s.publisher.PublishProgress(spanCtx, ProgressEvent{
			Trigger:  event.Type,
			LessonID: event.LessonID,
			Progress: progress,
			Streak:   response.Streak,
		})
		if publishErr != nil {
			s.logger.Warn().Err(publishErr).Msg("failed to publish progress event")
		}
	}

	return response, nil
}

// Recompute derives progress from the activity history and replaces the
// stored snapshot. Writers for the same (user, course) are serialised.
func (s *progressService) Recompute(ctx context.Context, userID, courseID uint) (dto.ProgressResponse, error) {
	release, err := s.locker.Acquire(ctx, progressLockKey(userID, courseID))
	if err != nil {
		observability.ProgressRecomputations().WithLabelValues("lock_failed").Inc()
		return dto.ProgressResponse{}, err
	}
	defer release()

	completed, err := s.activities.CountCompletionActivities(ctx, userID, courseID, completionActivityTypes)
	if err != nil {
		observability.ProgressRecomputations().WithLabelValues("error").Inc()
		return dto.ProgressResponse{}, err
	}

	total, err := s.lessons.CountByCourse(ctx, courseID)
	if err != nil {
		observability.ProgressRecomputations().WithLabelValues("error").Inc()
		return dto.ProgressResponse{}, err
	}

	snapshot := models.UserProgress{
		UserID:             userID,
		CourseID:           courseID,
		CompletedLessons:   int(completed),
		TotalLessons:       int(total),
		ProgressPercentage: grading.Percentage(int(completed), int(total)),
		LastAccessed:       s.now().UTC(),
	}
	if err := s.progress.Upsert(ctx, &snapshot); err != nil {
		observability.ProgressRecomputations().WithLabelValues("error").Inc()
		return dto.ProgressResponse{}, err
	}

	s.invalidate(ctx, userID, courseID)
	observability.ProgressRecomputations().WithLabelValues("ok").Inc()

	s.logger.Debug().
		Uint("user_id", userID).
		Uint("course_id", courseID).
		Int("completed", snapshot.CompletedLessons).
		Int("total", snapshot.TotalLessons).
		Msg("progress recomputed")

	return dto.NewProgressResponse(snapshot), nil
}

func (s *progressService) Get(ctx context.Context, userID, courseID uint) (dto.ProgressResponse, error) {
	cacheKey := progressCacheKey(userID, courseID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ProgressResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress cache")
		}
	}

	stored, err := s.progress.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, ErrProgressNotFound
		}
		return dto.ProgressResponse{}, err
	}

	response := dto.NewProgressResponse(stored)
	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress cache")
			}
		}
	}

	return response, nil
}

func (s *progressService) Streak(ctx context.Context, userID uint) (dto.StreakResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StreakResponse{}, ErrUserNotFound
		}
		return dto.StreakResponse{}, err
	}

	return dto.StreakResponse{CurrentStreak: user.CurrentStreak, LastActivityDate: user.LastActivityDate}, nil
}

func (s *progressService) ListActivities(ctx context.Context, userID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	if s.validator != nil {
		if err := s.validator.Struct(req); err != nil {
			return dto.ActivityListResponse{}, err
		}
	}

	filter := repository.ActivityFilter{
		Page:         req.Page,
		PageSize:     req.PageSize,
		UserID:       userID,
		ActivityType: req.ActivityType,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if req.CourseID != 0 {
		courseID := req.CourseID
		filter.CourseID = &courseID
	}

	activities, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, dto.NewActivityResponse(activity))
	}

	return dto.ActivityListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *progressService) advanceStreak(ctx context.Context, userID uint) (dto.StreakResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StreakResponse{}, ErrUserNotFound
		}
		return dto.StreakResponse{}, err
	}

	now := s.now().UTC()
	streak, changed := NextStreak(user.CurrentStreak, user.LastActivityDate, now)
	if !changed {
		return dto.StreakResponse{CurrentStreak: streak, LastActivityDate: user.LastActivityDate}, nil
	}

	if err := s.users.UpdateStreak(ctx, userID, streak, now); err != nil {
		return dto.StreakResponse{}, err
	}
	return dto.StreakResponse{CurrentStreak: streak, LastActivityDate: &now}, nil
}

func (s *progressService) invalidate(ctx context.Context, userID, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, progressCacheKey(userID, courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate progress cache")
	}
}

func progressCacheKey(userID, courseID uint) string {
	return fmt.Sprintf("progress:user:%d:course:%d", userID, courseID)
}
