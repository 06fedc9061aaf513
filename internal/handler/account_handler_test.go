package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
)

type accountServiceStub struct {
	createFn        func(ctx context.Context, payload dto.AccountCreateRequest) (dto.AccountResponse, error)
	getFn           func(ctx context.Context, id string) (dto.AccountResponse, error)
	listFn          func(ctx context.Context, req dto.AccountListRequest) (dto.AccountListResponse, error)
	updateProfileFn func(ctx context.Context, actorID, targetID string, payload dto.AccountUpdateRequest) dto.ActionResult
	suspendFn       func(ctx context.Context, actorID, targetID string, payload dto.AccountSuspendRequest) dto.ActionResult
	activateFn      func(ctx context.Context, actorID, targetID string) dto.ActionResult
	deleteFn        func(ctx context.Context, actorID, targetID string, payload dto.AccountDeleteRequest) dto.ActionResult
	assignDeptFn    func(ctx context.Context, actorID, targetID string, payload dto.DepartmentAssignRequest) dto.ActionResult
	managerStatusFn func(ctx context.Context, actorID, managerID string, payload dto.ManagerStatusRequest) dto.ActionResult
	notifyFn        func(ctx context.Context, actorID, managerID string, payload dto.ManagerNotificationRequest) dto.ActionResult
	exportFn        func(ctx context.Context, actorID, targetID string) (dto.AccountExportResponse, dto.ActionResult)
}

func (s *accountServiceStub) Create(ctx context.Context, payload dto.AccountCreateRequest) (dto.AccountResponse, error) {
	return s.createFn(ctx, payload)
}

func (s *accountServiceStub) Get(ctx context.Context, id string) (dto.AccountResponse, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) List(ctx context.Context, req dto.AccountListRequest) (dto.AccountListResponse, error) {
	return s.listFn(ctx, req)
}

func (s *accountServiceStub) UpdateProfile(ctx context.Context, actorID, targetID string, payload dto.AccountUpdateRequest) dto.ActionResult {
	return s.updateProfileFn(ctx, actorID, targetID, payload)
}

func (s *accountServiceStub) Suspend(ctx context.Context, actorID, targetID string, payload dto.AccountSuspendRequest) dto.ActionResult {
	return s.suspendFn(ctx, actorID, targetID, payload)
}

func (s *accountServiceStub) Activate(ctx context.Context, actorID, targetID string) dto.ActionResult {
	return s.activateFn(ctx, actorID, targetID)
}

func (s *accountServiceStub) Delete(ctx context.Context, actorID, targetID string, payload dto.AccountDeleteRequest) dto.ActionResult {
	return s.deleteFn(ctx, actorID, targetID, payload)
}

func (s *accountServiceStub) AssignDepartment(ctx context.Context, actorID, targetID string, payload dto.DepartmentAssignRequest) dto.ActionResult {
	return s.assignDeptFn(ctx, actorID, targetID, payload)
}

func (s *accountServiceStub) UpdateManagerStatus(ctx context.Context, actorID, managerID string, payload dto.ManagerStatusRequest) dto.ActionResult {
	return s.managerStatusFn(ctx, actorID, managerID, payload)
}

func (s *accountServiceStub) SendManagerNotification(ctx context.Context, actorID, managerID string, payload dto.ManagerNotificationRequest) dto.ActionResult {
	return s.notifyFn(ctx, actorID, managerID, payload)
}

func (s *accountServiceStub) Export(ctx context.Context, actorID, targetID string) (dto.AccountExportResponse, dto.ActionResult) {
	return s.exportFn(ctx, actorID, targetID)
}

func newAccountApp(stub *accountServiceStub) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "3f6c1f0a-9d42-4f45-8f08-0d6b2f9e2b11")
		c.Locals("user_role", "admin")
		return c.Next()
	})
	NewAccountHandler(stub, zerolog.Nop()).Register(app.Group("/accounts"))
	return app
}

func performJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeActionResult(t *testing.T, resp *http.Response) dto.ActionResult {
	t.Helper()
	defer resp.Body.Close()

	var result dto.ActionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestAccountUpdatePendingAnswersAccepted(t *testing.T) {
	stub := &accountServiceStub{
		updateProfileFn: func(_ context.Context, actorID, targetID string, _ dto.AccountUpdateRequest) dto.ActionResult {
			require.Equal(t, "3f6c1f0a-9d42-4f45-8f08-0d6b2f9e2b11", actorID)
			require.Equal(t, "target-1", targetID)
			return dto.PendingApproval()
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodPatch, "/accounts/target-1", fiber.Map{"full_name": "New Name"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	result := decodeActionResult(t, resp)
	require.True(t, result.Pending)
	require.False(t, result.Success)
	require.Equal(t, "Request sent to super admin for approval", result.Message)
}

func TestAccountUpdateSuccessAnswersOK(t *testing.T) {
	stub := &accountServiceStub{
		updateProfileFn: func(_ context.Context, _, _ string, _ dto.AccountUpdateRequest) dto.ActionResult {
			return dto.Succeeded("profile updated")
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodPatch, "/accounts/target-1", fiber.Map{"full_name": "New Name"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeActionResult(t, resp)
	require.True(t, result.Success)
	require.False(t, result.Pending)
}

func TestAccountSuspendUnauthorizedAnswersForbidden(t *testing.T) {
	stub := &accountServiceStub{
		suspendFn: func(_ context.Context, _, _ string, _ dto.AccountSuspendRequest) dto.ActionResult {
			return dto.Failed(authz.ReasonUnauthorized)
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodPost, "/accounts/target-1/suspend", fiber.Map{"reason": "policy"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	result := decodeActionResult(t, resp)
	require.Equal(t, authz.ReasonUnauthorized, result.Error)
}

func TestAccountDeleteUnknownTargetAnswersNotFound(t *testing.T) {
	stub := &accountServiceStub{
		deleteFn: func(_ context.Context, _, _ string, _ dto.AccountDeleteRequest) dto.ActionResult {
			return dto.Failed("User not found")
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodDelete, "/accounts/missing", fiber.Map{"confirmation": "missing"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAccountDeleteAdminByNonSuperAnswersForbidden(t *testing.T) {
	stub := &accountServiceStub{
		deleteFn: func(_ context.Context, _, _ string, _ dto.AccountDeleteRequest) dto.ActionResult {
			return dto.Failed(authz.ReasonSuperAdminDelete)
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodDelete, "/accounts/other-admin", fiber.Map{"confirmation": "other-admin"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	result := decodeActionResult(t, resp)
	require.Equal(t, authz.ReasonSuperAdminDelete, result.Error)
}

func TestAccountActivateStoreErrorAnswersBadRequest(t *testing.T) {
	stub := &accountServiceStub{
		activateFn: func(_ context.Context, _, _ string) dto.ActionResult {
			return dto.Failed("account is not suspended")
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodPost, "/accounts/target-1/activate", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAccountExportReturnsPayloadOnSuccess(t *testing.T) {
	generated := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	stub := &accountServiceStub{
		exportFn: func(_ context.Context, _, targetID string) (dto.AccountExportResponse, dto.ActionResult) {
			return dto.AccountExportResponse{
				Profile:     dto.AccountResponse{ID: targetID, Email: "worker@example.com"},
				GeneratedAt: generated,
			}, dto.Succeeded("export generated")
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodGet, "/accounts/target-1/export", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var payload struct {
		Success bool                      `json:"success"`
		Data    dto.AccountExportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, "target-1", payload.Data.Profile.ID)
	require.Equal(t, "worker@example.com", payload.Data.Profile.Email)
}

func TestAccountExportDeniedSkipsPayload(t *testing.T) {
	stub := &accountServiceStub{
		exportFn: func(_ context.Context, _, _ string) (dto.AccountExportResponse, dto.ActionResult) {
			return dto.AccountExportResponse{}, dto.Failed(authz.ReasonUnauthorized)
		},
	}

	resp := performJSON(t, newAccountApp(stub), http.MethodGet, "/accounts/target-1/export", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
