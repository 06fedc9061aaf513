package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// AuditHandler exposes the audit trail to admins.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches the audit routes to the router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 50
	} else if pageSize > 200 {
		pageSize = 200
	}

	req := dto.AuditListRequest{
		Page:     page,
		PageSize: pageSize,
		ActorID:  c.Query("actor_id"),
		Action:   c.Query("action"),
		TargetID: c.Query("target_id"),
	}

	response, err := h.service.List(requestContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit records")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit records")
	}

	return utils.SendSuccess(c, "audit records retrieved", response)
}
