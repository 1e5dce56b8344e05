package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fleetdocs/internal/audit"
	"fleetdocs/internal/database"
	"fleetdocs/internal/models"
	"fleetdocs/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func loadDocument(db *gorm.DB, id uint) (*models.VehicleDocument, error) {
	var doc models.VehicleDocument
	err := db.Preload("Vehicle").Preload("DocumentType").First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateVehicleDocument starts tracking a document for a vehicle
func CreateVehicleDocument(c *gin.Context) {
	var req models.CreateVehicleDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()

	var vehicle models.Vehicle
	if err := db.First(&vehicle, req.VehicleID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Vehicle not found", err)
		return
	}
	var docType models.DocumentType
	if err := db.First(&docType, req.DocumentTypeID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Document type not found", err)
		return
	}

	doc := models.VehicleDocument{
		VehicleID:      req.VehicleID,
		DocumentTypeID: req.DocumentTypeID,
		DocumentNo:     req.DocumentNo,
		StartDate:      req.StartDate,
		ExpiryDate:     req.ExpiryDate,
		Notes:          req.Notes,
		Link:           req.Link,
	}
	if err := db.Omit(clause.Associations).Create(&doc).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create document", err)
		return
	}
	doc.Vehicle = &vehicle
	doc.DocumentType = &docType

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicleDocument,
		EntityID:   doc.ID,
		Action:     models.AuditCreate,
		Actor:      actorFrom(c),
		NewRecord:  doc,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusCreated, doc)
}

// GetVehicleDocuments lists tracked documents, optionally filtered by vehicle
func GetVehicleDocuments(c *gin.Context) {
	db := database.GetDB()

	query := db.Preload("Vehicle").Preload("DocumentType").Order("expiry_date")
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	var docs []models.VehicleDocument
	if err := query.Find(&docs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch documents", err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// GetVehicleDocument retrieves one tracked document
func GetVehicleDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := loadDocument(database.GetDB(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Document not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve document", err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateVehicleDocument updates a tracked document (renewals come through here)
func UpdateVehicleDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVehicleDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	doc, err := loadDocument(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Document not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve document", err)
		return
	}

	before := *doc

	if req.DocumentNo != nil {
		doc.DocumentNo = *req.DocumentNo
	}
	if req.StartDate != nil {
		doc.StartDate = *req.StartDate
	}
	if req.ExpiryDate != nil {
		doc.ExpiryDate = *req.ExpiryDate
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.Link != nil {
		doc.Link = *req.Link
	}

	if err := db.Omit(clause.Associations).Save(doc).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update document", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicleDocument,
		EntityID:   doc.ID,
		Action:     models.AuditUpdate,
		Actor:      actorFrom(c),
		OldRecord:  before,
		NewRecord:  *doc,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, doc)
}

// DeleteVehicleDocument stops tracking a document. Its unsent queue rows are
// pruned on the next reschedule pass.
func DeleteVehicleDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	doc, err := loadDocument(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Document not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve document", err)
		return
	}

	if err := db.Delete(doc).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete document", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicleDocument,
		EntityID:   doc.ID,
		Action:     models.AuditDelete,
		Actor:      actorFrom(c),
		OldRecord:  *doc,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// expiringDocument pairs a document with its remaining days for dashboards
type expiringDocument struct {
	models.VehicleDocument
	DaysRemaining int `json:"days_remaining"`
}

// GetExpiringDocuments lists documents expiring within ?days (default 30),
// including ones already expired.
func GetExpiringDocuments(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			handleError(c, http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
		days = parsed
	}

	cutoff := utils.EndOfDay(utils.AddDays(time.Now(), days))

	db := database.GetDB()
	var docs []models.VehicleDocument
	if err := db.Preload("Vehicle").Preload("DocumentType").
		Where("expiry_date <= ?", cutoff).
		Order("expiry_date").
		Find(&docs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch expiring documents", err)
		return
	}

	result := make([]expiringDocument, 0, len(docs))
	for _, doc := range docs {
		result = append(result, expiringDocument{
			VehicleDocument: doc,
			DaysRemaining:   utils.CalculateDaysRemaining(doc.ExpiryDate),
		})
	}

	c.JSON(http.StatusOK, result)
}

// SearchVehicleDocuments searches documents by number, vehicle or type name
func SearchVehicleDocuments(c *gin.Context) {
	term := c.Query("q")

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	docs, err := searchService.SearchDocuments(term, limit, offset)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Search failed", err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// UploadDocumentScan attaches a scan file to a document and stores its URL
func UploadDocumentScan(c *gin.Context) {
	if attachments == nil {
		handleError(c, http.StatusServiceUnavailable, "Scan uploads are not configured",
			errors.New("attachment service unavailable"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	doc, err := loadDocument(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Document not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve document", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		handleError(c, http.StatusBadRequest, "Missing file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, http.StatusBadRequest, "Failed to open file", err)
		return
	}
	defer file.Close()

	if err := attachments.ValidateScanFile(file, 10*1024*1024); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	url, err := attachments.UploadDocumentScan(file, fileHeader.Filename, doc.ID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to upload scan", err)
		return
	}

	before := *doc
	doc.Link = url
	if err := db.Model(doc).Update("link", url).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save scan link", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityVehicleDocument,
		EntityID:   doc.ID,
		Action:     models.AuditUpdate,
		Actor:      actorFrom(c),
		OldRecord:  before,
		NewRecord:  *doc,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, doc)
}
