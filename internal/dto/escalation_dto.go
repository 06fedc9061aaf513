package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// EscalationCreateRequest asks the super admin for permission to act on
// another admin's account.
type EscalationCreateRequest struct {
	TargetAdminID string `json:"target_admin_id" validate:"required,uuid4"`
	ActionType    string `json:"action_type" validate:"required,min=1,max=64"`
	Reason        string `json:"reason" validate:"required,min=1,max=2000"`
}

// EscalationDecisionRequest resolves a pending escalation request.
type EscalationDecisionRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=approved denied"`
}

// EscalationResponse serializes an escalation request.
type EscalationResponse struct {
	ID                string     `json:"id"`
	RequestingAdminID string     `json:"requesting_admin_id"`
	TargetAdminID     string     `json:"target_admin_id"`
	ActionType        string     `json:"action_type"`
	Reason            string     `json:"reason"`
	Status            string     `json:"status"`
	DecidedBy         *string    `json:"decided_by,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// EscalationListResponse wraps a list of escalation requests.
type EscalationListResponse struct {
	Items []EscalationResponse `json:"items"`
}

// NewEscalationResponse converts an escalation model into a DTO.
func NewEscalationResponse(request models.EscalationRequest) EscalationResponse {
	return EscalationResponse{
		ID:                request.ID,
		RequestingAdminID: request.RequestingAdminID,
		TargetAdminID:     request.TargetAdminID,
		ActionType:        request.ActionType,
		Reason:            request.Reason,
		Status:            request.Status,
		DecidedBy:         request.DecidedBy,
		DecidedAt:         request.DecidedAt,
		CreatedAt:         request.CreatedAt,
	}
}

// NewEscalationResponseSlice converts a slice of escalation models into DTOs.
func NewEscalationResponseSlice(requests []models.EscalationRequest) []EscalationResponse {
	out := make([]EscalationResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, NewEscalationResponse(request))
	}
	return out
}
