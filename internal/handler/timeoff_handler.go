package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/middleware"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// TimeOffHandler wires leave request endpoints.
type TimeOffHandler struct {
	service service.TimeOffService
	logger  zerolog.Logger
}

// NewTimeOffHandler constructs the handler.
func NewTimeOffHandler(service service.TimeOffService, logger zerolog.Logger) *TimeOffHandler {
	return &TimeOffHandler{
		service: service,
		logger:  logger.With().Str("component", "timeoff_handler").Logger(),
	}
}

// Register attaches the time-off routes to the router group.
func (h *TimeOffHandler) Register(router fiber.Router) {
	router.Post("", h.request)
	router.Get("/mine", h.listMine)
	router.Get("/pending", middleware.RequireRole("admin", "manager"), h.listPending)
	router.Post("/:id/decision", middleware.RequireRole("admin", "manager"), h.decide)
}

func (h *TimeOffHandler) request(c *fiber.Ctx) error {
	var payload dto.TimeOffCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Request(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create time-off request")
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "time-off request created", response)
}

func (h *TimeOffHandler) listMine(c *fiber.Ctx) error {
	response, err := h.service.ListMine(requestContext(c), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list time-off requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list time-off requests")
	}

	return utils.SendSuccess(c, "time-off requests retrieved", response)
}

func (h *TimeOffHandler) listPending(c *fiber.Ctx) error {
	response, err := h.service.ListPending(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending time-off requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending time-off requests")
	}

	return utils.SendSuccess(c, "pending time-off requests", response)
}

func (h *TimeOffHandler) decide(c *fiber.Ctx) error {
	var payload dto.TimeOffDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.Decide(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	if !result.Success && result.Error == service.ErrTimeOffNotFound.Error() {
		return c.Status(fiber.StatusNotFound).JSON(result)
	}
	return sendActionResult(c, result)
}
