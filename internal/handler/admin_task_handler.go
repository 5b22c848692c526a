package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/internal/utils"
)

// AdminTaskHandler lets staff inspect lesson tasks together with their answer keys.
type AdminTaskHandler struct {
	catalog service.TaskCatalogService
	logger  zerolog.Logger
}

// NewAdminTaskHandler constructs the handler.
func NewAdminTaskHandler(catalog service.TaskCatalogService, logger zerolog.Logger) *AdminTaskHandler {
	return &AdminTaskHandler{
		catalog: catalog,
		logger:  logger.With().Str("component", "admin_task_handler").Logger(),
	}
}

// Register wires admin task routes.
func (h *AdminTaskHandler) Register(router fiber.Router) {
	router.Get("/:id/tasks", h.list)
}

func (h *AdminTaskHandler) list(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tasks, err := h.catalog.ListTasksWithKeys(c.UserContext(), lessonID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "list tasks with keys")
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}
