package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/middleware"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// ShiftHandler wires schedule endpoints including the live board websocket.
type ShiftHandler struct {
	service service.ShiftService
	logger  zerolog.Logger
}

// NewShiftHandler constructs the handler.
func NewShiftHandler(service service.ShiftService, logger zerolog.Logger) *ShiftHandler {
	return &ShiftHandler{
		service: service,
		logger:  logger.With().Str("component", "shift_handler").Logger(),
	}
}

// Register attaches the schedule routes to the router group.
func (h *ShiftHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole("admin"), h.assign)
	router.Delete("/:id", middleware.RequireRole("admin"), h.delete)
	router.Get("/mine", h.listMine)
	router.Get("/board", h.board)
	router.Get("/availability", h.availability)
	router.Put("/availability", h.upsertAvailability)

	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("request_ctx", requestContext(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.boardFeed))
}

func (h *ShiftHandler) assign(c *fiber.Ctx) error {
	var payload dto.ShiftAssignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.Assign(requestContext(c), userIDFromContext(c), payload)
	return sendActionResult(c, result)
}

func (h *ShiftHandler) delete(c *fiber.Ctx) error {
	result := h.service.Delete(requestContext(c), userIDFromContext(c), c.Params("id"))
	return sendActionResult(c, result)
}

func (h *ShiftHandler) listMine(c *fiber.Ctx) error {
	shifts, err := h.service.ListForEmployee(requestContext(c), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list shifts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list shifts")
	}

	return utils.SendSuccess(c, "shifts retrieved", shifts)
}

func (h *ShiftHandler) board(c *fiber.Ctx) error {
	weekStart := strings.TrimSpace(c.Query("week_start"))
	if weekStart == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "week_start required")
	}

	board, err := h.service.WeekBoard(requestContext(c), weekStart)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendSuccess(c, "schedule board", board)
}

func (h *ShiftHandler) availability(c *fiber.Ctx) error {
	windows, err := h.service.Availability(requestContext(c), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list availability")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list availability")
	}

	return utils.SendSuccess(c, "availability retrieved", windows)
}

func (h *ShiftHandler) upsertAvailability(c *fiber.Ctx) error {
	var payload dto.AvailabilityUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	window, err := h.service.UpsertAvailability(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to upsert availability")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save availability")
	}

	return utils.SendSuccess(c, "availability saved", window)
}

type boardFeedRequest struct {
	WeekStart string `json:"week_start"`
}

// boardFeed serves the scheduler page's live board: the client sends a week
// start and receives the current board for it, re-requesting after edits.
func (h *ShiftHandler) boardFeed(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	userID := websocketUserID(conn)
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user id missing"))
		return
	}

	ctx, _ := conn.Locals("request_ctx").(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}

	h.logger.Info().Str("user_id", userID).Msg("schedule board websocket connected")
	defer h.logger.Info().Str("user_id", userID).Msg("schedule board websocket disconnected")

	for {
		var request boardFeedRequest
		if err := conn.ReadJSON(&request); err != nil {
			return
		}

		board, err := h.service.WeekBoard(ctx, strings.TrimSpace(request.WeekStart))
		if err != nil {
			if writeErr := conn.WriteJSON(fiber.Map{"error": err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(board); err != nil {
			return
		}
	}
}

func websocketUserID(conn *websocket.Conn) string {
	if value := conn.Locals("user_id"); value != nil {
		if id, ok := value.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}
