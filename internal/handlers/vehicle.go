package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fleetdocs/internal/audit"
	"fleetdocs/internal/database"
	"fleetdocs/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		handleError(c, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return uint(id), true
}

// CreateVehicle registers a new vehicle in the fleet
func CreateVehicle(c *gin.Context) {
	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.VehicleActive
	}

	vehicle := models.Vehicle{
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Status:         status,
	}

	db := database.GetDB()
	if err := db.Create(&vehicle).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Registration number already exists", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create vehicle", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicle,
		EntityID:   vehicle.ID,
		Action:     models.AuditCreate,
		Actor:      actorFrom(c),
		NewRecord:  vehicle,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicles lists all vehicles, optionally filtered by status
func GetVehicles(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("name")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch vehicles", err)
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// GetVehicle retrieves one vehicle by id
func GetVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve vehicle", err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle updates a vehicle's details
func UpdateVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve vehicle", err)
		return
	}

	before := vehicle

	if req.Name != nil {
		vehicle.Name = *req.Name
	}
	if req.RegistrationNo != nil {
		vehicle.RegistrationNo = *req.RegistrationNo
	}
	if req.Status != nil {
		vehicle.Status = *req.Status
	}

	if err := db.Save(&vehicle).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Registration number already exists", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to update vehicle", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicle,
		EntityID:   vehicle.ID,
		Action:     models.AuditUpdate,
		Actor:      actorFrom(c),
		OldRecord:  before,
		NewRecord:  vehicle,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle removes a vehicle that has no tracked documents
func DeleteVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve vehicle", err)
		return
	}

	var docCount int64
	db.Model(&models.VehicleDocument{}).Where("vehicle_id = ?", id).Count(&docCount)
	if docCount > 0 {
		handleError(c, http.StatusConflict, "Vehicle still has tracked documents",
			errors.New("vehicle has tracked documents"))
		return
	}

	if err := db.Delete(&vehicle).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete vehicle", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicle,
		EntityID:   vehicle.ID,
		Action:     models.AuditDelete,
		Actor:      actorFrom(c),
		OldRecord:  vehicle,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// CreateDocumentType adds a new document category
func CreateDocumentType(c *gin.Context) {
	var req models.CreateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	docType := models.DocumentType{
		Name:        req.Name,
		Description: req.Description,
	}

	db := database.GetDB()
	if err := db.Create(&docType).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Document type already exists", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create document type", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityDocumentType,
		EntityID:   docType.ID,
		Action:     models.AuditCreate,
		Actor:      actorFrom(c),
		NewRecord:  docType,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusCreated, docType)
}

// GetDocumentTypes lists all document categories
func GetDocumentTypes(c *gin.Context) {
	db := database.GetDB()

	var docTypes []models.DocumentType
	if err := db.Order("name").Find(&docTypes).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch document types", err)
		return
	}

	c.JSON(http.StatusOK, docTypes)
}
