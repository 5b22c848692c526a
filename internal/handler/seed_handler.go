package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-go-api/internal/dto"
	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for seeding course content.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/courses", h.courses)
}

func (h *SeedHandler) courses(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload dto.SeedCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SeedCourse(c.UserContext(), token, payload)
	if err != nil {
		return h.seedError(c, err)
	}

	message := "course seeded"
	status := fiber.StatusCreated
	if !result.Created {
		message = "course already present"
		status = fiber.StatusOK
	}

	return utils.SendSuccessWithStatus(c, status, message, result)
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var inputErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, &inputErr):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, inputErr.Message)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("seed operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
	}
}
