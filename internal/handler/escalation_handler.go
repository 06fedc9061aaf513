package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// EscalationHandler wires the super-admin approval workflow endpoints.
type EscalationHandler struct {
	service service.EscalationService
	logger  zerolog.Logger
}

// NewEscalationHandler constructs the handler.
func NewEscalationHandler(service service.EscalationService, logger zerolog.Logger) *EscalationHandler {
	return &EscalationHandler{
		service: service,
		logger:  logger.With().Str("component", "escalation_handler").Logger(),
	}
}

// Register attaches escalation routes to the router group.
func (h *EscalationHandler) Register(router fiber.Router) {
	router.Get("/pending", h.listPending)
	router.Post("", h.request)
	router.Post("/:id/decision", h.decide)
}

func (h *EscalationHandler) listPending(c *fiber.Ctx) error {
	response, err := h.service.ListPending(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending escalations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending escalations")
	}

	return utils.SendSuccess(c, "pending escalations", response)
}

func (h *EscalationHandler) request(c *fiber.Ctx) error {
	var payload dto.EscalationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RequestApproval(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyReason), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create escalation request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create escalation request")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "escalation request created", response)
}

func (h *EscalationHandler) decide(c *fiber.Ctx) error {
	var payload dto.EscalationDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Decide(requestContext(c), c.Params("id"), payload, userIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSuperAdmin):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrEscalationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEscalationFinalState):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to decide escalation request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to decide escalation request")
		}
	}

	return utils.SendSuccess(c, "escalation request decided", response)
}
