package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one immutable entry of the non-repudiation trail: who performed
// which action on which record. Entries are written inside the transaction of
// the mutation they describe and never updated afterwards.
type AuditLog struct {
	ID       uint   `gorm:"primaryKey;index" json:"id"`
	Table    string `gorm:"column:table_name;size:64;not null" json:"table_name"`
	Action   string `gorm:"size:16;not null" json:"action"`
	RecordID uint   `gorm:"not null" json:"record_id"`
	UserID   uint   `gorm:"not null" json:"user_id"`
	// Description is free text and may embed the submitted field values
	// verbatim; entities holding sensitive fields would leak them here.
	Description string            `gorm:"not null" json:"description"`
	Values      datatypes.JSONMap `gorm:"type:json" json:"values"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TableName pins the audit table name.
func (AuditLog) TableName() string { return "audit_log" }
