package models

import "time"

// ReminderConfig is a named offset rule: "send a reminder OffsetDays days before
// expiry". The fixed set is seeded at startup; admins may only disable or rename.
type ReminderConfig struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	OffsetDays int       `gorm:"uniqueIndex;not null" json:"offset_days"`
	Enabled    bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// ReminderQueueItem is the idempotent scheduling record: at most one row per
// (vehicle_document_id, reminder_config_id) pair. The scheduler owns ScheduledAt,
// the dispatcher owns SentAt/Attempts/LastError.
type ReminderQueueItem struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleDocumentID uint       `gorm:"not null;uniqueIndex:uq_document_config" json:"vehicle_document_id"`
	ReminderConfigID  uint       `gorm:"not null;uniqueIndex:uq_document_config" json:"reminder_config_id"`
	ScheduledAt       time.Time  `gorm:"not null;index" json:"scheduled_at"`
	SentAt            *time.Time `json:"sent_at"`
	Attempts          int        `gorm:"not null;default:0" json:"attempts"`
	LastError         *string    `gorm:"size:500" json:"last_error"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

// ReminderRecipient is an email address that receives the daily digests.
// Email is unique case-insensitively (enforced by the handlers).
type ReminderRecipient struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:100" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// DueReminder is a due-and-unsent queue row joined with its document and config,
// ready to be grouped into a digest email.
type DueReminder struct {
	QueueItemID      uint      `json:"queue_item_id"`
	ReminderConfigID uint      `json:"reminder_config_id"`
	ConfigName       string    `json:"config_name"`
	OffsetDays       int       `json:"offset_days"`
	DocumentID       uint      `json:"document_id"`
	DocumentNo       string    `json:"document_no"`
	DocumentTypeName string    `json:"document_type_name"`
	VehicleName      string    `json:"vehicle_name"`
	ExpiryDate       time.Time `json:"expiry_date"`
}

// DispatchResult is the outcome of one dispatch pass. OK is false when at least
// one config group failed to send; the failure never propagates as an error.
type DispatchResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// TableName specifies the table name for the ReminderConfig model
func (ReminderConfig) TableName() string {
	return "reminder_config"
}

// TableName specifies the table name for the ReminderQueueItem model
func (ReminderQueueItem) TableName() string {
	return "reminder_queue_item"
}

// TableName specifies the table name for the ReminderRecipient model
func (ReminderRecipient) TableName() string {
	return "reminder_recipient"
}

// CreateRecipientRequest represents the data needed to add a reminder recipient
type CreateRecipientRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"omitempty,max=100"`
	Active *bool  `json:"active"`
}

// UpdateRecipientRequest represents the data accepted when updating a recipient
type UpdateRecipientRequest struct {
	Email  *string `json:"email" binding:"omitempty,email"`
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

// UpdateReminderConfigRequest allows renaming or toggling a seeded config.
// Offsets are fixed at seed time and cannot be changed through the API.
type UpdateReminderConfigRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=50"`
	Enabled *bool   `json:"enabled"`
}

// TriggerRemindersRequest is the body of the manual dispatch endpoint
type TriggerRemindersRequest struct {
	Preface string `json:"preface" binding:"omitempty,max=500"`
}
