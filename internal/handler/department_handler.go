package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// DepartmentHandler wires department management endpoints.
type DepartmentHandler struct {
	service service.DepartmentService
	logger  zerolog.Logger
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(service service.DepartmentService, logger zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		logger:  logger.With().Str("component", "department_handler").Logger(),
	}
}

// Register attaches the department routes to the router group.
func (h *DepartmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *DepartmentHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list departments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list departments")
	}

	return utils.SendSuccess(c, "departments retrieved", response)
}

func (h *DepartmentHandler) create(c *fiber.Ctx) error {
	var payload dto.DepartmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	department, err := h.service.Create(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create department")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create department")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department created", department)
}

func (h *DepartmentHandler) delete(c *fiber.Ctx) error {
	result := h.service.Delete(requestContext(c), actorFromContext(c), c.Params("id"))
	if !result.Success && result.Error == service.ErrDepartmentNotFound.Error() {
		return c.Status(fiber.StatusNotFound).JSON(result)
	}
	return sendActionResult(c, result)
}
