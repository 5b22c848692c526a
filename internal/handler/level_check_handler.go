package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

// LevelCheckHandler exposes the AI writing and speaking placement checks.
type LevelCheckHandler struct {
	service service.LevelCheckService
	logger  zerolog.Logger
}

// NewLevelCheckHandler constructs the handler.
func NewLevelCheckHandler(service service.LevelCheckService, logger zerolog.Logger) *LevelCheckHandler {
	return &LevelCheckHandler{
		service: service,
		logger:  logger.With().Str("component", "level_check_handler").Logger(),
	}
}

// Register wires level check routes. The limiter guards the provider backed endpoints only.
func (h *LevelCheckHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Post("/writing", limiter, h.writing)
	router.Post("/speaking", limiter, h.speaking)
	router.Get("/history", h.history)
}

func (h *LevelCheckHandler) writing(c *fiber.Ctx) error {
	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.WritingCheckRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.CheckWriting(c.UserContext(), learner, payload)
	if err != nil {
		return h.handleError(c, err, response)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "writing evaluated", response)
}

func (h *LevelCheckHandler) speaking(c *fiber.Ctx) error {
	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.SpeakingCheckRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.CheckSpeaking(c.UserContext(), learner, payload)
	if err != nil {
		return h.handleError(c, err, response)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "speaking evaluated", response)
}

func (h *LevelCheckHandler) history(c *fiber.Ctx) error {
	learner := learnerFromContext(c)
	if learner.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	attempts, err := h.service.History(c.UserContext(), learner, limit)
	if err != nil {
		return sendServiceError(c, h.logger, err, "level check history")
	}

	return utils.SendSuccess(c, "level checks retrieved", attempts)
}

// handleError returns the stored fallback attempt alongside the 422 so clients
// can still show the default band.
func (h *LevelCheckHandler) handleError(c *fiber.Ctx, err error, fallback dto.LevelCheckResponse) error {
	var inputErr *service.ValidationError
	if errors.As(err, &inputErr) && fallback.Fallback {
		requestLogger(h.logger, c).Warn().Err(err).Uint("attempt_id", fallback.ID).Msg("level check fell back to default band")
		return utils.Fail(c, fiber.StatusUnprocessableEntity, inputErr.Message, fallback)
	}
	return sendServiceError(c, h.logger, err, "level check")
}
