package models

import "time"

// Escalation request status values. Pending is the only non-terminal state;
// a decided request is never reopened, re-asking creates a new row.
const (
	EscalationStatusPending  = "pending"
	EscalationStatusApproved = "approved"
	EscalationStatusDenied   = "denied"
)

// EscalationRequest records one admin asking the super admin for permission
// to act on another admin's account.
type EscalationRequest struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	RequestingAdminID  string     `gorm:"type:uuid;index:idx_escalation_triple;not null" json:"requesting_admin_id"`
	TargetAdminID      string     `gorm:"type:uuid;index:idx_escalation_triple;not null" json:"target_admin_id"`
	ActionType         string     `gorm:"size:64;index:idx_escalation_triple;not null" json:"action_type"`
	Reason             string     `gorm:"type:text;not null" json:"reason"`
	Status             string     `gorm:"size:32;not null;default:pending" json:"status"`
	DecidedBy          *string    `gorm:"type:uuid" json:"decided_by"`
	DecidedAt          *time.Time `json:"decided_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Decided reports whether the request reached a terminal state.
func (e EscalationRequest) Decided() bool {
	return e.Status == EscalationStatusApproved || e.Status == EscalationStatusDenied
}
