package models

import "time"

// Shift status values.
const (
	ShiftStatusScheduled = "scheduled"
	ShiftStatusPublished = "published"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// Shift is a single assignment of an employee to a working window.
type Shift struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID   string    `gorm:"type:uuid;index;not null" json:"employee_id"`
	DepartmentID string    `gorm:"type:uuid;index" json:"department_id"`
	ShiftDate    string    `gorm:"size:10;not null;index" json:"shift_date"`
	StartTime    string    `gorm:"size:8;not null" json:"start_time"`
	EndTime      string    `gorm:"size:8;not null" json:"end_time"`
	Role         string    `gorm:"size:64" json:"role"`
	Status       string    `gorm:"size:32;not null;default:scheduled" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Availability captures a recurring weekly window during which an employee
// can be scheduled. Weekday follows time.Weekday numbering (Sunday = 0).
type Availability struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID string    `gorm:"type:uuid;index;not null" json:"employee_id"`
	Weekday    int       `gorm:"not null" json:"weekday"`
	StartTime  string    `gorm:"size:8;not null" json:"start_time"`
	EndTime    string    `gorm:"size:8;not null" json:"end_time"`
	Available  bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
