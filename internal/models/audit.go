package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditRecord is the immutable trail entry written after every authorized
// state-changing operation (and sensitive reads such as data export).
type AuditRecord struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   string            `gorm:"type:uuid;index;not null" json:"actor_id"`
	ActorRole string            `gorm:"size:32;not null" json:"actor_role"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	TargetID  *string           `gorm:"type:uuid;index" json:"target_id"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}
