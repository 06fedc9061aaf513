package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// TimeOffCreateRequest submits a leave request for the calling employee.
type TimeOffCreateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,min=1,max=2000"`
}

// TimeOffDecisionRequest resolves a pending leave request.
type TimeOffDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved denied"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// TimeOffResponse serializes a leave request.
type TimeOffResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TimeOffListResponse wraps a list of leave requests.
type TimeOffListResponse struct {
	Items []TimeOffResponse `json:"items"`
}

// NewTimeOffResponse converts a time-off model into a DTO.
func NewTimeOffResponse(request models.TimeOffRequest) TimeOffResponse {
	return TimeOffResponse{
		ID:         request.ID,
		EmployeeID: request.EmployeeID,
		StartDate:  request.StartDate,
		EndDate:    request.EndDate,
		Reason:     request.Reason,
		Status:     request.Status,
		Notes:      request.Notes,
		ReviewedBy: request.ReviewedBy,
		ReviewedAt: request.ReviewedAt,
		CreatedAt:  request.CreatedAt,
	}
}

// NewTimeOffResponseSlice converts a slice of time-off models into DTOs.
func NewTimeOffResponseSlice(requests []models.TimeOffRequest) []TimeOffResponse {
	out := make([]TimeOffResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, NewTimeOffResponse(request))
	}
	return out
}
