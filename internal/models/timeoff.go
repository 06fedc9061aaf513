package models

import "time"

// Time-off request status values.
const (
	TimeOffStatusPending  = "pending"
	TimeOffStatusApproved = "approved"
	TimeOffStatusDenied   = "denied"
)

// TimeOffRequest is an employee's ask for leave between two dates. Managers
// and admins review it; the decision is recorded alongside the reviewer.
type TimeOffRequest struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID string     `gorm:"type:uuid;index;not null" json:"employee_id"`
	StartDate  string     `gorm:"size:10;not null" json:"start_date"`
	EndDate    string     `gorm:"size:10;not null" json:"end_date"`
	Reason     string     `gorm:"type:text;not null" json:"reason"`
	Status     string     `gorm:"size:32;not null;default:pending" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`
	ReviewedBy *string    `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
