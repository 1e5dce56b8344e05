package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction represents the kind of mutation an audit entry describes
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// EntityType discriminates which entity an audit entry (and its summary rules,
// subject template and related-field map) belongs to
type EntityType string

const (
	EntityVehicle           EntityType = "vehicle"
	EntityDocumentType      EntityType = "document_type"
	EntityVehicleDocument   EntityType = "vehicle_document"
	EntityReminderConfig    EntityType = "reminder_config"
	EntityReminderRecipient EntityType = "reminder_recipient"
)

// AuditLog is an immutable record of one mutating operation. Context holds the
// structured payload {event, changes, related, meta} as JSONB.
type AuditLog struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType    EntityType     `gorm:"size:50;not null;index" json:"entity_type"`
	EntityID      uint           `gorm:"not null;index" json:"entity_id"`
	Action        AuditAction    `gorm:"size:10;not null" json:"action"`
	ActorUsername string         `gorm:"size:100" json:"actor_username"`
	Summary       string         `gorm:"size:500;not null" json:"summary"`
	Context       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"context"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
}

// TableName specifies the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_log"
}
