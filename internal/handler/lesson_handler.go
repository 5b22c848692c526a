package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

// LessonHandler exposes lesson task, quiz and lifecycle endpoints.
type LessonHandler struct {
	lessons service.LessonService
	catalog service.TaskCatalogService
	logger  zerolog.Logger
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(lessons service.LessonService, catalog service.TaskCatalogService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		lessons: lessons,
		catalog: catalog,
		logger:  logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("/:id/tasks", h.listTasks)
	router.Post("/:id/tasks/submit", h.submitTasks)
	router.Get("/:id/quiz", h.listQuiz)
	router.Post("/:id/quiz/submit", h.submitQuiz)
	router.Post("/:id/start", h.start)
	router.Post("/:id/complete", h.complete)
}

func (h *LessonHandler) listTasks(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tasks, err := h.catalog.ListTasks(c.UserContext(), lessonID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "list tasks")
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *LessonHandler) submitTasks(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.lessons.SubmitTasks(c.UserContext(), learner, lessonID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "submit tasks")
	}

	return utils.SendSuccess(c, response.Message, response)
}

func (h *LessonHandler) listQuiz(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.catalog.ListQuizQuestions(c.UserContext(), lessonID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "list quiz")
	}

	return utils.SendSuccess(c, "quiz retrieved", questions)
}

func (h *LessonHandler) submitQuiz(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuizSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.lessons.SubmitQuiz(c.UserContext(), learner, lessonID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "submit quiz")
	}

	return utils.SendSuccess(c, response.Message, response)
}

func (h *LessonHandler) start(c *fiber.Ctx) error {
	return h.lifecycle(c, "lesson started", h.lessons.Start)
}

func (h *LessonHandler) complete(c *fiber.Ctx) error {
	return h.lifecycle(c, "lesson completed", h.lessons.Complete)
}

type lessonEventFunc func(ctx context.Context, learner service.Learner, lessonID uint) (dto.LessonActivityResponse, error)

func (h *LessonHandler) lifecycle(c *fiber.Ctx, message string, record lessonEventFunc) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := record(c.UserContext(), learner, lessonID)
	if err != nil {
		return sendServiceError(c, h.logger, err, message)
	}

	return utils.SendSuccess(c, message, response)
}
