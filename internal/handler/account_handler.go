package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/service"
	"github.com/noah-isme/rota-go-api/internal/utils"
)

// AccountHandler wires account management endpoints.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// RegisterPublic attaches the sign-up route.
func (h *AccountHandler) RegisterPublic(router fiber.Router) {
	router.Post("/signup", h.create)
}

// Register attaches the admin account routes to the router group.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/suspend", h.suspend)
	router.Post("/:id/activate", h.activate)
	router.Delete("/:id", h.delete)
	router.Put("/:id/department", h.assignDepartment)
	router.Put("/:id/manager-status", h.updateManagerStatus)
	router.Post("/:id/notify", h.notifyManager)
	router.Get("/:id/export", h.export)
}

func (h *AccountHandler) create(c *fiber.Ctx) error {
	var payload dto.AccountCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	account, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", account)
}

func (h *AccountHandler) list(c *fiber.Ctx) error {
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
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	req := dto.AccountListRequest{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		Role:         c.Query("role"),
		Status:       c.Query("status"),
		DepartmentID: c.Query("department_id"),
	}

	response, err := h.service.List(requestContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list accounts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list accounts")
	}

	return utils.SendSuccess(c, "accounts retrieved", response)
}

func (h *AccountHandler) get(c *fiber.Ctx) error {
	account, err := h.service.Get(requestContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "account not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch account")
	}

	return utils.SendSuccess(c, "account retrieved", account)
}

func (h *AccountHandler) update(c *fiber.Ctx) error {
	var payload dto.AccountUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.UpdateProfile(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) suspend(c *fiber.Ctx) error {
	var payload dto.AccountSuspendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.Suspend(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) activate(c *fiber.Ctx) error {
	result := h.service.Activate(requestContext(c), userIDFromContext(c), c.Params("id"))
	return sendActionResult(c, result)
}

func (h *AccountHandler) delete(c *fiber.Ctx) error {
	var payload dto.AccountDeleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.Delete(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) assignDepartment(c *fiber.Ctx) error {
	var payload dto.DepartmentAssignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.AssignDepartment(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) updateManagerStatus(c *fiber.Ctx) error {
	var payload dto.ManagerStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.UpdateManagerStatus(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) notifyManager(c *fiber.Ctx) error {
	var payload dto.ManagerNotificationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result := h.service.SendManagerNotification(requestContext(c), userIDFromContext(c), c.Params("id"), payload)
	return sendActionResult(c, result)
}

func (h *AccountHandler) export(c *fiber.Ctx) error {
	export, result := h.service.Export(requestContext(c), userIDFromContext(c), c.Params("id"))
	if !result.Success {
		return sendActionResult(c, result)
	}

	return utils.SendSuccess(c, "export generated", export)
}
