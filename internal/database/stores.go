package database

import (
	"errors"
	"time"

	"fleetdocs/internal/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of the collaborator interfaces the
// reminder scheduler and dispatcher consume.
type Store struct {
	db *gorm.DB
}

func NewStore() *Store {
	return &Store{db: GetDB()}
}

// ListDocuments returns every tracked document with denormalized vehicle and
// document-type names.
func (s *Store) ListDocuments() ([]models.DocumentSummary, error) {
	var docs []models.DocumentSummary
	err := s.db.Model(&models.VehicleDocument{}).
		Select(`vehicle_document.id, vehicle_document.document_no, vehicle_document.expiry_date,
			vehicle.name AS vehicle_name, document_type.name AS document_type_name`).
		Joins("JOIN vehicle ON vehicle.id = vehicle_document.vehicle_id").
		Joins("JOIN document_type ON document_type.id = vehicle_document.document_type_id").
		Scan(&docs).Error
	return docs, err
}

// ListEnabledConfigs returns the reminder configurations that may create queue rows
func (s *Store) ListEnabledConfigs() ([]models.ReminderConfig, error) {
	var configs []models.ReminderConfig
	err := s.db.Where("enabled = ?", true).Order("offset_days").Find(&configs).Error
	return configs, err
}

// FindQueueItem looks up the queue row for a (document, config) pair.
// Returns nil without error when no row exists.
func (s *Store) FindQueueItem(documentID, configID uint) (*models.ReminderQueueItem, error) {
	var item models.ReminderQueueItem
	err := s.db.Where("vehicle_document_id = ? AND reminder_config_id = ?", documentID, configID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateQueueItem inserts a fresh queue row
func (s *Store) CreateQueueItem(item *models.ReminderQueueItem) error {
	return s.db.Create(item).Error
}

// SaveQueueItem persists scheduling-field updates made by the scheduler
func (s *Store) SaveQueueItem(item *models.ReminderQueueItem) error {
	return s.db.Save(item).Error
}

// PruneOrphanedQueueItems deletes unsent queue rows whose document no longer
// exists. Sent rows are kept as delivery history.
func (s *Store) PruneOrphanedQueueItems() (int64, error) {
	res := s.db.
		Where("sent_at IS NULL AND vehicle_document_id NOT IN (?)",
			s.db.Model(&models.VehicleDocument{}).Select("id")).
		Delete(&models.ReminderQueueItem{})
	return res.RowsAffected, res.Error
}

// DueUnsent selects all queue rows eligible for dispatch as of the given
// moment, joined with their document and config for digest composition.
func (s *Store) DueUnsent(asOf time.Time) ([]models.DueReminder, error) {
	var due []models.DueReminder
	err := s.db.Model(&models.ReminderQueueItem{}).
		Select(`reminder_queue_item.id AS queue_item_id, reminder_queue_item.reminder_config_id,
			reminder_config.name AS config_name, reminder_config.offset_days,
			vehicle_document.id AS document_id, vehicle_document.document_no,
			document_type.name AS document_type_name, vehicle.name AS vehicle_name,
			vehicle_document.expiry_date`).
		Joins("JOIN reminder_config ON reminder_config.id = reminder_queue_item.reminder_config_id").
		Joins("JOIN vehicle_document ON vehicle_document.id = reminder_queue_item.vehicle_document_id").
		Joins("JOIN vehicle ON vehicle.id = vehicle_document.vehicle_id").
		Joins("JOIN document_type ON document_type.id = vehicle_document.document_type_id").
		Where("reminder_queue_item.sent_at IS NULL AND reminder_queue_item.scheduled_at <= ?", asOf).
		Where("vehicle_document.deleted_at IS NULL").
		Order("reminder_config.offset_days, vehicle_document.expiry_date").
		Scan(&due).Error
	return due, err
}

// MarkSent records a successful dispatch for the given queue rows. The
// sent_at IS NULL guard keeps a concurrent pass from double-marking a row.
func (s *Store) MarkSent(ids []uint, sentAt time.Time) error {
	return s.db.Model(&models.ReminderQueueItem{}).
		Where("id IN ? AND sent_at IS NULL", ids).
		Updates(map[string]interface{}{
			"sent_at":    sentAt,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": nil,
		}).Error
}

// MarkFailed records a failed dispatch; rows stay eligible for the next run
func (s *Store) MarkFailed(ids []uint, message string) error {
	return s.db.Model(&models.ReminderQueueItem{}).
		Where("id IN ? AND sent_at IS NULL", ids).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
		}).Error
}

// ListActiveRecipients returns everyone who should receive the digests
func (s *Store) ListActiveRecipients() ([]models.ReminderRecipient, error) {
	var recipients []models.ReminderRecipient
	err := s.db.Where("active = ?", true).Order("email").Find(&recipients).Error
	return recipients, err
}
