package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// AccountCreateRequest is the sign-up payload. The first account ever
// created is promoted to admin by the store's bootstrap rule; a valid admin
// signup code has the same effect.
type AccountCreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required,min=1,max=255"`
	AdminCode string `json:"admin_code" validate:"omitempty,max=128"`
}

// AccountListRequest defines filters for listing accounts.
type AccountListRequest struct {
	Page         int
	PageSize     int
	Search       string
	Role         string
	Status       string
	DepartmentID string
}

// AccountUpdateRequest captures partial profile updates issued by admins.
type AccountUpdateRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Role         *string `json:"role" validate:"omitempty,oneof=employee manager admin"`
	Status       *string `json:"status" validate:"omitempty,oneof=active suspended terminated"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
}

// AccountSuspendRequest carries the reason recorded with a suspension.
type AccountSuspendRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=2000"`
}

// AccountDeleteRequest carries the reason recorded with a removal.
type AccountDeleteRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=2000"`
}

// DepartmentAssignRequest moves an account into a department; a nil
// department clears the assignment.
type DepartmentAssignRequest struct {
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
}

// ManagerStatusRequest updates a manager account's status with an optional
// reason relayed to the manager.
type ManagerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended terminated"`
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// ManagerNotificationRequest is an admin-to-manager direct notification.
type ManagerNotificationRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// AccountResponse serializes account data for API clients.
type AccountResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	Status       string    `json:"status"`
	DepartmentID *string   `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountListResponse wraps a paginated account listing.
type AccountListResponse struct {
	Items      []AccountResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// AccountExportResponse aggregates everything stored about one account.
type AccountExportResponse struct {
	Profile      AccountResponse        `json:"profile"`
	Shifts       []ShiftResponse        `json:"shifts"`
	Availability []AvailabilityResponse `json:"availability"`
	TimeOff      []TimeOffResponse      `json:"time_off"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// NewAccountResponse converts an account model into a DTO.
func NewAccountResponse(account models.Account) AccountResponse {
	return AccountResponse{
		ID:           account.ID,
		Email:        account.Email,
		FullName:     account.FullName,
		Role:         string(account.Role),
		IsSuperAdmin: account.IsSuperAdmin,
		Status:       account.Status,
		DepartmentID: account.DepartmentID,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}

// NewAccountResponseSlice converts a slice of account models into DTOs.
func NewAccountResponseSlice(accounts []models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}
