package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// AuditListRequest defines filters for listing audit records.
type AuditListRequest struct {
	Page     int
	PageSize int
	ActorID  string
	Action   string
	TargetID string
}

// AuditResponse serializes a single audit record.
type AuditResponse struct {
	ID        uint                   `json:"id"`
	ActorID   string                 `json:"actor_id"`
	ActorRole string                 `json:"actor_role"`
	Action    string                 `json:"action"`
	TargetID  *string                `json:"target_id,omitempty"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditListResponse wraps a paginated audit trail.
type AuditListResponse struct {
	Items      []AuditResponse `json:"items"`
	Pagination PaginationMeta  `json:"pagination"`
}

// NewAuditResponse converts an audit model into a DTO.
func NewAuditResponse(record models.AuditRecord) AuditResponse {
	details := make(map[string]interface{}, len(record.Details))
	for key, value := range record.Details {
		details[key] = value
	}

	return AuditResponse{
		ID:        record.ID,
		ActorID:   record.ActorID,
		ActorRole: record.ActorRole,
		Action:    record.Action,
		TargetID:  record.TargetID,
		Details:   details,
		CreatedAt: record.CreatedAt,
	}
}
