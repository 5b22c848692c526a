package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/grading"
	"github.com/noah-isme/lingua-go-api/internal/models"
	"github.com/noah-isme/lingua-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService imports course trees.
type SeedService interface {
	SeedCourse(ctx context.Context, token string, payload dto.SeedCourseRequest) (dto.SeedCourseResponse, error)
}

type seedService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(courses repository.CourseRepository, validate *validator.Validate, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		courses:   courses,
		validator: validate,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedCourse creates the course tree unless a course with the same title
// already exists, in which case the existing id is reported.
func (s *seedService) SeedCourse(ctx context.Context, token string, payload dto.SeedCourseRequest) (dto.SeedCourseResponse, error) {
	if !s.enabled {
		return dto.SeedCourseResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.SeedCourseResponse{}, ErrSeedUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SeedCourseResponse{}, err
	}

	title := strings.TrimSpace(payload.Title)
	existing, err := s.courses.FindByTitle(ctx, title)
	if err == nil {
		s.logger.Info().Uint("course_id", existing.ID).Msg("course already seeded")
		return dto.SeedCourseResponse{CourseID: existing.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SeedCourseResponse{}, err
	}

	course, counts, err := buildCourseTree(title, payload)
	if err != nil {
		return dto.SeedCourseResponse{}, err
	}

	if err := s.courses.CreateTree(ctx, &course); err != nil {
		return dto.SeedCourseResponse{}, err
	}

	counts.CourseID = course.ID
	counts.Created = true
	s.logger.Info().
		Uint("course_id", course.ID).
		Int("lessons", counts.Lessons).
		Int("tasks", counts.Tasks).
		Msg("course seeded")
	return counts, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func buildCourseTree(title string, payload dto.SeedCourseRequest) (models.Course, dto.SeedCourseResponse, error) {
	counts := dto.SeedCourseResponse{}
	course := models.Course{
		Title:       title,
		Description: payload.Description,
		Language:    payload.Language,
		IsPublished: payload.Publish,
	}

	for _, unit := range payload.Units {
		unitModel := models.Unit{Title: unit.Title, Order: unit.Order}
		for _, section := range unit.Sections {
			sectionModel := models.Section{Title: section.Title, Order: section.Order}
			for _, lesson := range section.Lessons {
				lessonModel, err := buildLesson(lesson)
				if err != nil {
					return models.Course{}, dto.SeedCourseResponse{}, err
				}
				counts.Lessons++
				counts.Tasks += len(lessonModel.Tasks)
				counts.Questions += len(lessonModel.Questions)
				sectionModel.Lessons = append(sectionModel.Lessons, lessonModel)
			}
			unitModel.Sections = append(unitModel.Sections, sectionModel)
		}
		counts.Units++
		course.Units = append(course.Units, unitModel)
	}

	return course, counts, nil
}

func buildLesson(lesson dto.SeedLesson) (models.Lesson, error) {
	model := models.Lesson{
		Title:           lesson.Title,
		Kind:            lesson.Kind,
		Order:           lesson.Order,
		RequiresPayment: lesson.RequiresPayment,
	}

	for _, task := range lesson.Tasks {
		taskType := grading.TaskType(task.Type)
		if !taskType.Known() {
			return models.Lesson{}, validationErrorf("lesson %q: unknown task type %q", lesson.Title, task.Type)
		}
		if taskType.Gradable() && !isUsableKey(task.Type, task.AnswerKey) {
			return models.Lesson{}, validationErrorf("lesson %q: task %q has no usable answer key", lesson.Title, task.Title)
		}
		model.Tasks = append(model.Tasks, models.Task{
			Title:       task.Title,
			Description: task.Description,
			Type:        task.Type,
			Order:       task.Order,
			Content:     datatypes.JSON(task.Content),
			AnswerKey:   datatypes.JSON(task.AnswerKey),
		})
	}

	for _, question := range lesson.Questions {
		if question.CorrectOptionIndex >= len(question.Options) {
			return models.Lesson{}, validationErrorf("lesson %q: question %q has an out of range answer", lesson.Title, question.Prompt)
		}
		model.Questions = append(model.Questions, models.QuizQuestion{
			Prompt:             question.Prompt,
			Order:              question.Order,
			Options:            datatypes.JSONSlice[string](question.Options),
			CorrectOptionIndex: question.CorrectOptionIndex,
		})
	}

	return model, nil
}

// isUsableKey reports whether a stored key parses into a gradable answer key.
func isUsableKey(taskType string, raw []byte) bool {
	_, participation := grading.ParseKey(grading.TaskType(taskType), raw).(grading.ParticipationKey)
	return !participation
}
