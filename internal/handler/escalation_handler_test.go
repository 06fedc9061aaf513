package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/service"
)

type escalationServiceStub struct {
	requestFn     func(ctx context.Context, requesterID string, payload dto.EscalationCreateRequest) (dto.EscalationResponse, error)
	decideFn      func(ctx context.Context, requestID string, payload dto.EscalationDecisionRequest, deciderID string) (dto.EscalationResponse, error)
	hasApprovalFn func(ctx context.Context, requesterID, targetID string, action authz.Action) (bool, error)
	listPendingFn func(ctx context.Context) (dto.EscalationListResponse, error)
}

func (s *escalationServiceStub) RequestApproval(ctx context.Context, requesterID string, payload dto.EscalationCreateRequest) (dto.EscalationResponse, error) {
	return s.requestFn(ctx, requesterID, payload)
}

func (s *escalationServiceStub) Decide(ctx context.Context, requestID string, payload dto.EscalationDecisionRequest, deciderID string) (dto.EscalationResponse, error) {
	return s.decideFn(ctx, requestID, payload, deciderID)
}

func (s *escalationServiceStub) HasApproval(ctx context.Context, requesterID, targetID string, action authz.Action) (bool, error) {
	return s.hasApprovalFn(ctx, requesterID, targetID, action)
}

func (s *escalationServiceStub) ListPending(ctx context.Context) (dto.EscalationListResponse, error) {
	return s.listPendingFn(ctx)
}

func newEscalationApp(stub *escalationServiceStub) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "9a1b2c3d-4e5f-4a6b-8c7d-1e2f3a4b5c6d")
		c.Locals("user_role", "admin")
		return c.Next()
	})
	NewEscalationHandler(stub, zerolog.Nop()).Register(app.Group("/escalations"))
	return app
}

func TestEscalationRequestCreated(t *testing.T) {
	stub := &escalationServiceStub{
		requestFn: func(_ context.Context, requesterID string, payload dto.EscalationCreateRequest) (dto.EscalationResponse, error) {
			require.Equal(t, "9a1b2c3d-4e5f-4a6b-8c7d-1e2f3a4b5c6d", requesterID)
			return dto.EscalationResponse{
				ID:                "esc-1",
				RequestingAdminID: requesterID,
				TargetAdminID:     payload.TargetAdminID,
				ActionType:        payload.ActionType,
				Status:            "pending",
				CreatedAt:         time.Now().UTC(),
			}, nil
		},
	}

	resp := performJSON(t, newEscalationApp(stub), http.MethodPost, "/escalations", fiber.Map{
		"target_admin_id": "5d3e2f1a-0b9c-4d8e-a7f6-5e4d3c2b1a09",
		"action_type":     "suspend",
		"reason":          "repeated policy violations",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	var payload struct {
		Success bool                   `json:"success"`
		Data    dto.EscalationResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, "esc-1", payload.Data.ID)
	require.Equal(t, "pending", payload.Data.Status)
}

func TestEscalationRequestEmptyReasonAnswersBadRequest(t *testing.T) {
	stub := &escalationServiceStub{
		requestFn: func(_ context.Context, _ string, _ dto.EscalationCreateRequest) (dto.EscalationResponse, error) {
			return dto.EscalationResponse{}, service.ErrEmptyReason
		},
	}

	resp := performJSON(t, newEscalationApp(stub), http.MethodPost, "/escalations", fiber.Map{
		"target_admin_id": "5d3e2f1a-0b9c-4d8e-a7f6-5e4d3c2b1a09",
		"action_type":     "suspend",
		"reason":          "<script>alert(1)</script>",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEscalationDecideErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not super admin", err: service.ErrNotSuperAdmin, status: fiber.StatusForbidden},
		{name: "unknown request", err: service.ErrEscalationNotFound, status: fiber.StatusNotFound},
		{name: "already decided", err: service.ErrEscalationFinalState, status: fiber.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &escalationServiceStub{
				decideFn: func(_ context.Context, _ string, _ dto.EscalationDecisionRequest, _ string) (dto.EscalationResponse, error) {
					return dto.EscalationResponse{}, tc.err
				},
			}

			resp := performJSON(t, newEscalationApp(stub), http.MethodPost, "/escalations/esc-1/decision", fiber.Map{
				"outcome": "approved",
			})
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestEscalationDecideApproved(t *testing.T) {
	stub := &escalationServiceStub{
		decideFn: func(_ context.Context, requestID string, payload dto.EscalationDecisionRequest, deciderID string) (dto.EscalationResponse, error) {
			require.Equal(t, "esc-1", requestID)
			require.Equal(t, "approved", payload.Outcome)
			return dto.EscalationResponse{ID: requestID, Status: "approved", DecidedBy: &deciderID}, nil
		},
	}

	resp := performJSON(t, newEscalationApp(stub), http.MethodPost, "/escalations/esc-1/decision", fiber.Map{
		"outcome": "approved",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var payload struct {
		Data dto.EscalationResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "approved", payload.Data.Status)
	require.NotNil(t, payload.Data.DecidedBy)
}

func TestEscalationListPending(t *testing.T) {
	stub := &escalationServiceStub{
		listPendingFn: func(_ context.Context) (dto.EscalationListResponse, error) {
			return dto.EscalationListResponse{Items: []dto.EscalationResponse{
				{ID: "esc-1", Status: "pending"},
				{ID: "esc-2", Status: "pending"},
			}}, nil
		},
	}

	resp := performJSON(t, newEscalationApp(stub), http.MethodGet, "/escalations/pending", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var payload struct {
		Data dto.EscalationListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data.Items, 2)
}
