package models

import (
	"time"

	"gorm.io/gorm"
)

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleInWorkshop  VehicleStatus = "in_workshop"
	VehicleDecommissed VehicleStatus = "decommissioned"
)

// Vehicle represents a vehicle in the fleet
type Vehicle struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	RegistrationNo string         `gorm:"uniqueIndex;size:20;not null" json:"registration_no"`
	Status         VehicleStatus  `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// DocumentType represents a category of vehicle document (registration, insurance, permit...)
type DocumentType struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicle"
}

// TableName specifies the table name for the DocumentType model
func (DocumentType) TableName() string {
	return "document_type"
}

// CreateVehicleRequest represents the data needed to register a vehicle
type CreateVehicleRequest struct {
	Name           string        `json:"name" binding:"required,max=100"`
	RegistrationNo string        `json:"registration_no" binding:"required,max=20"`
	Status         VehicleStatus `json:"status" binding:"omitempty,oneof=active in_workshop decommissioned"`
}

// UpdateVehicleRequest represents the data accepted when updating a vehicle
type UpdateVehicleRequest struct {
	Name           *string        `json:"name" binding:"omitempty,max=100"`
	RegistrationNo *string        `json:"registration_no" binding:"omitempty,max=20"`
	Status         *VehicleStatus `json:"status" binding:"omitempty,oneof=active in_workshop decommissioned"`
}

// CreateDocumentTypeRequest represents the data needed to create a document type
type CreateDocumentTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
}
