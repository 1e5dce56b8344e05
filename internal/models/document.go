package models

import (
	"time"

	"gorm.io/gorm"
)

// VehicleDocument represents a tracked document (registration, insurance, permit...)
// attached to a vehicle. The reminder scheduler only reads id, expiry date and the
// denormalized vehicle/document-type names.
type VehicleDocument struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleID      uint           `gorm:"not null;index" json:"vehicle_id"`
	DocumentTypeID uint           `gorm:"not null;index" json:"document_type_id"`
	DocumentNo     string         `gorm:"size:100;not null" json:"document_no"`
	StartDate      time.Time      `gorm:"not null" json:"start_date"`
	ExpiryDate     time.Time      `gorm:"not null;index" json:"expiry_date"`
	Notes          string         `gorm:"size:500" json:"notes"`
	Link           string         `gorm:"size:500" json:"link"`
	Vehicle        *Vehicle       `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	DocumentType   *DocumentType  `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the VehicleDocument model
func (VehicleDocument) TableName() string {
	return "vehicle_document"
}

// DocumentSummary is the denormalized view of a document the reminder
// subsystem works with (one row per document, names already joined in).
type DocumentSummary struct {
	ID               uint      `json:"id"`
	DocumentNo       string    `json:"document_no"`
	ExpiryDate       time.Time `json:"expiry_date"`
	VehicleName      string    `json:"vehicle_name"`
	DocumentTypeName string    `json:"document_type_name"`
}

// CreateVehicleDocumentRequest represents the data needed to track a new document
type CreateVehicleDocumentRequest struct {
	VehicleID      uint      `json:"vehicle_id" binding:"required"`
	DocumentTypeID uint      `json:"document_type_id" binding:"required"`
	DocumentNo     string    `json:"document_no" binding:"required,max=100"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	ExpiryDate     time.Time `json:"expiry_date" binding:"required"`
	Notes          string    `json:"notes" binding:"omitempty,max=500"`
	Link           string    `json:"link" binding:"omitempty,max=500,url"`
}

// UpdateVehicleDocumentRequest represents the data accepted when updating a document.
// Pointer fields distinguish "not provided" from zero values.
type UpdateVehicleDocumentRequest struct {
	DocumentNo *string    `json:"document_no" binding:"omitempty,max=100"`
	StartDate  *time.Time `json:"start_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Notes      *string    `json:"notes" binding:"omitempty,max=500"`
	Link       *string    `json:"link" binding:"omitempty,max=500,url"`
}
