package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// ShiftAssignRequest assigns a shift to an employee.
type ShiftAssignRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required,uuid4"`
	DepartmentID string `json:"department_id" validate:"required,uuid4"`
	ShiftDate    string `json:"shift_date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
	Role         string `json:"role" validate:"omitempty,max=64"`
}

// ShiftResponse serializes a shift for API clients.
type ShiftResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	DepartmentID string    `json:"department_id"`
	ShiftDate    string    `json:"shift_date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// AvailabilityUpsertRequest sets one weekly availability window.
type AvailabilityUpsertRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Available *bool  `json:"available" validate:"required"`
}

// AvailabilityResponse serializes a weekly availability window.
type AvailabilityResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Weekday    int    `json:"weekday"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Available  bool   `json:"available"`
}

// ScheduleBoardResponse is the weekly board consumed by the scheduler page.
type ScheduleBoardResponse struct {
	WeekStart   string          `json:"week_start"`
	Shifts      []ShiftResponse `json:"shifts"`
	GeneratedAt time.Time       `json:"generated_at"`
	CacheHit    bool            `json:"cache_hit"`
}

// NewShiftResponse converts a shift model into a DTO.
func NewShiftResponse(shift models.Shift) ShiftResponse {
	return ShiftResponse{
		ID:           shift.ID,
		EmployeeID:   shift.EmployeeID,
		DepartmentID: shift.DepartmentID,
		ShiftDate:    shift.ShiftDate,
		StartTime:    shift.StartTime,
		EndTime:      shift.EndTime,
		Role:         shift.Role,
		Status:       shift.Status,
		CreatedAt:    shift.CreatedAt,
	}
}

// NewShiftResponseSlice converts a slice of shift models into DTOs.
func NewShiftResponseSlice(shifts []models.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, NewShiftResponse(shift))
	}
	return out
}

// NewAvailabilityResponse converts an availability model into a DTO.
func NewAvailabilityResponse(window models.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:         window.ID,
		EmployeeID: window.EmployeeID,
		Weekday:    window.Weekday,
		StartTime:  window.StartTime,
		EndTime:    window.EndTime,
		Available:  window.Available,
	}
}

// NewAvailabilityResponseSlice converts a slice of availability models into DTOs.
func NewAvailabilityResponseSlice(windows []models.Availability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(windows))
	for _, window := range windows {
		out = append(out, NewAvailabilityResponse(window))
	}
	return out
}
