package handlers

import (
	"errors"
	"net/http"

	"fleetdocs/internal/audit"
	"fleetdocs/internal/database"
	"fleetdocs/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetReminderConfigs lists all reminder configurations
func GetReminderConfigs(c *gin.Context) {
	db := database.GetDB()

	var configs []models.ReminderConfig
	if err := db.Order("offset_days").Find(&configs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder configs", err)
		return
	}

	c.JSON(http.StatusOK, configs)
}

// UpdateReminderConfig renames or toggles a seeded reminder configuration.
// Offsets are fixed at seed time.
func UpdateReminderConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReminderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var cfg models.ReminderConfig
	if err := db.First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Reminder config not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve reminder config", err)
		return
	}

	before := cfg

	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if req.Enabled != nil {
		cfg.Enabled = *req.Enabled
	}

	if err := db.Save(&cfg).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update reminder config", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityReminderConfig,
		EntityID:   cfg.ID,
		Action:     models.AuditUpdate,
		Actor:      actorFrom(c),
		OldRecord:  before,
		NewRecord:  cfg,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, cfg)
}

// GetReminderQueue lists queue rows, optionally filtered to pending or sent
func GetReminderQueue(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("scheduled_at")
	switch c.Query("status") {
	case "pending":
		query = query.Where("sent_at IS NULL")
	case "sent":
		query = query.Where("sent_at IS NOT NULL")
	case "":
	default:
		handleError(c, http.StatusBadRequest, "Invalid status filter", errors.New("status must be pending or sent"))
		return
	}

	var items []models.ReminderQueueItem
	if err := query.Find(&items).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder queue", err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// findRecipientByEmail does a case-insensitive lookup, optionally excluding one row
func findRecipientByEmail(db *gorm.DB, email string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&models.ReminderRecipient{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateRecipient adds a reminder recipient (email unique case-insensitively)
func CreateRecipient(c *gin.Context) {
	var req models.CreateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()

	exists, err := findRecipientByEmail(db, req.Email, 0)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to check recipient", err)
		return
	}
	if exists {
		handleError(c, http.StatusConflict, "Email already registered", errors.New("duplicate recipient email"))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	recipient := models.ReminderRecipient{
		Email:  req.Email,
		Name:   req.Name,
		Active: active,
	}
	if err := db.Create(&recipient).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create recipient", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityReminderRecipient,
		EntityID:   recipient.ID,
		Action:     models.AuditCreate,
		Actor:      actorFrom(c),
		NewRecord:  recipient,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusCreated, recipient)
}

// GetRecipients lists all reminder recipients
func GetRecipients(c *gin.Context) {
	db := database.GetDB()

	var recipients []models.ReminderRecipient
	if err := db.Order("email").Find(&recipients).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch recipients", err)
		return
	}

	c.JSON(http.StatusOK, recipients)
}

// UpdateRecipient updates a reminder recipient
func UpdateRecipient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var recipient models.ReminderRecipient
	if err := db.First(&recipient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Recipient not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve recipient", err)
		return
	}

	before := recipient

	if req.Email != nil {
		exists, err := findRecipientByEmail(db, *req.Email, recipient.ID)
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to check recipient", err)
			return
		}
		if exists {
			handleError(c, http.StatusConflict, "Email already registered", errors.New("duplicate recipient email"))
			return
		}
		recipient.Email = *req.Email
	}
	if req.Name != nil {
		recipient.Name = *req.Name
	}
	if req.Active != nil {
		recipient.Active = *req.Active
	}

	if err := db.Save(&recipient).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update recipient", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityReminderRecipient,
		EntityID:   recipient.ID,
		Action:     models.AuditUpdate,
		Actor:      actorFrom(c),
		OldRecord:  before,
		NewRecord:  recipient,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, recipient)
}

// DeleteRecipient removes a reminder recipient
func DeleteRecipient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	var recipient models.ReminderRecipient
	if err := db.First(&recipient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Recipient not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve recipient", err)
		return
	}

	if err := db.Delete(&recipient).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete recipient", err)
		return
	}

	recorder.Record(audit.Entry{
		EntityType: models.EntityReminderRecipient,
		EntityID:   recipient.ID,
		Action:     models.AuditDelete,
		Actor:      actorFrom(c),
		OldRecord:  recipient,
		Meta:       auditMeta(c),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Recipient deleted"})
}

// TriggerReminders runs the full daily cycle on demand: reschedule, then
// dispatch. The HTTP status is 200 either way; OK=false in the body means one
// or more digest groups failed and will retry tomorrow.
func TriggerReminders(c *gin.Context) {
	var req models.TriggerRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	triggeredBy := actorFrom(c)
	if triggeredBy == "" {
		triggeredBy = "manual"
	}

	result := dailyJob.Run(triggeredBy, req.Preface)
	c.JSON(http.StatusOK, result)
}

// RescheduleReminders rebuilds the reminder queue without dispatching
func RescheduleReminders(c *gin.Context) {
	stats := dailyJob.Scheduler().RescheduleAllDocuments()
	c.JSON(http.StatusOK, stats)
}

// GetAuditLogs lists audit entries, optionally filtered by entity
func GetAuditLogs(c *gin.Context) {
	db := database.GetDB()

	query := db.Order("created_at DESC").Limit(100)
	if entityType := c.Query("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch audit logs", err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
