package dto

import (
	"time"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// DepartmentCreateRequest creates a new department.
type DepartmentCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// DepartmentResponse serializes a department.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// DepartmentListResponse wraps a department listing.
type DepartmentListResponse struct {
	Items []DepartmentResponse `json:"items"`
}

// NewDepartmentResponse converts a department model into a DTO.
func NewDepartmentResponse(department models.Department, memberCount int64) DepartmentResponse {
	return DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		MemberCount: memberCount,
		CreatedAt:   department.CreatedAt,
	}
}
