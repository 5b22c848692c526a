package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

// TaskCatalogService serves lesson tasks and quiz questions.
type TaskCatalogService interface {
	ListTasks(ctx context.Context, lessonID uint) ([]dto.TaskResponse, error)
	ListTasksWithKeys(ctx context.Context, lessonID uint) ([]dto.AdminTaskResponse, error)
	ListQuizQuestions(ctx context.Context, lessonID uint) ([]dto.QuizQuestionResponse, error)
}

type taskCatalogService struct {
	lessons repository.LessonRepository
	tasks   repository.TaskRepository
	quizzes repository.QuizRepository
	logger  zerolog.Logger
}

// NewTaskCatalogService constructs the catalog service.
func NewTaskCatalogService(lessons repository.LessonRepository, tasks repository.TaskRepository, quizzes repository.QuizRepository, logger zerolog.Logger) TaskCatalogService {
	return &taskCatalogService{
		lessons: lessons,
		tasks:   tasks,
		quizzes: quizzes,
		logger:  logger.With().Str("component", "task_catalog_service").Logger(),
	}
}

func (s *taskCatalogService) ListTasks(ctx context.Context, lessonID uint) ([]dto.TaskResponse, error) {
	if err := s.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskResponse(task))
	}
	return items, nil
}

func (s *taskCatalogService) ListTasksWithKeys(ctx context.Context, lessonID uint) ([]dto.AdminTaskResponse, error) {
	if err := s.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		item := dto.NewAdminTaskResponse(task)
		if item.Gradable && !isUsableKey(task.Type, task.AnswerKey) {
			s.logger.Warn().Uint("task_id", task.ID).Str("type", task.Type).Msg("gradable task has an unusable answer key")
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *taskCatalogService) ListQuizQuestions(ctx context.Context, lessonID uint) ([]dto.QuizQuestionResponse, error) {
	if err := s.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	questions, err := s.quizzes.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.QuizQuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, dto.NewQuizQuestionResponse(question))
	}
	return items, nil
}

func (s *taskCatalogService) ensureLesson(ctx context.Context, lessonID uint) error {
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}
	return nil
}
