package models

import "time"

// Role identifies the privilege tier of an account.
type Role string

// Roles ordered by privilege: employee < manager < admin.
const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Level returns the numeric privilege rank of the role. Unknown roles rank
// below employee so they never pass a gate by accident.
func (r Role) Level() int {
	switch r {
	case RoleEmployee:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// Account status values.
const (
	AccountStatusActive     = "active"
	AccountStatusSuspended  = "suspended"
	AccountStatusTerminated = "terminated"
)

// Account represents a system user that can hold shifts and, depending on
// role, manage other accounts.
type Account struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Role         Role      `gorm:"size:32;not null;default:employee" json:"role"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"is_super_admin"`
	Status       string    `gorm:"size:32;not null;default:active" json:"status"`
	DepartmentID *string   `gorm:"type:uuid" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account sits in the admin tier.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
