package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

// ProgressHandler serves learner progress, streak and activity history.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register wires progress routes.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("/courses/:courseId", h.course)
	router.Get("/streak", h.streak)
	router.Get("/activities", h.activities)
}

func (h *ProgressHandler) course(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	progress, err := h.service.Get(c.UserContext(), userID, courseID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "get progress")
	}

	return utils.SendSuccess(c, "progress retrieved", progress)
}

func (h *ProgressHandler) streak(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	streak, err := h.service.Streak(c.UserContext(), userID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "get streak")
	}

	return utils.SendSuccess(c, "streak retrieved", streak)
}

func (h *ProgressHandler) activities(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var query dto.ActivityListRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.service.ListActivities(c.UserContext(), userID, query)
	if err != nil {
		return sendServiceError(c, h.logger, err, "list activities")
	}

	return utils.OK(c, page.Items, "activities retrieved", page.Pagination)
}
