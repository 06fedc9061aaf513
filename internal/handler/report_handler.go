package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// ReportHandler exposes the dashboard summary.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches the report routes to the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *ReportHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report summary")
	}

	return utils.SendSuccess(c, "report summary", summary)
}
