package services

import (
	"log"
	"os"
	"time"

	"fleetdocs/internal/models"
	"fleetdocs/internal/utils"
)

// DocumentQuery returns all tracked documents with denormalized names
type DocumentQuery interface {
	ListDocuments() ([]models.DocumentSummary, error)
}

// ConfigQuery returns the reminder configurations allowed to create queue rows
type ConfigQuery interface {
	ListEnabledConfigs() ([]models.ReminderConfig, error)
}

// QueueStore is the persistence collaborator for reminder queue rows
type QueueStore interface {
	FindQueueItem(documentID, configID uint) (*models.ReminderQueueItem, error)
	CreateQueueItem(item *models.ReminderQueueItem) error
	SaveQueueItem(item *models.ReminderQueueItem) error
	PruneOrphanedQueueItems() (int64, error)
	DueUnsent(asOf time.Time) ([]models.DueReminder, error)
	MarkSent(ids []uint, sentAt time.Time) error
	MarkFailed(ids []uint, message string) error
}

// ReminderScheduler maintains the reminder queue as an idempotent projection of
// documents × enabled configs.
type ReminderScheduler struct {
	documents DocumentQuery
	configs   ConfigQuery
	queue     QueueStore
	loc       *time.Location
}

func NewReminderScheduler(documents DocumentQuery, configs ConfigQuery, queue QueueStore) *ReminderScheduler {
	return &ReminderScheduler{
		documents: documents,
		configs:   configs,
		queue:     queue,
		loc:       resolveLocation(os.Getenv("TZ")),
	}
}

// ScheduleStats summarizes one reschedule pass
type ScheduleStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Reset   int `json:"reset"`
	Pruned  int `json:"pruned"`
	Failed  int `json:"failed"`
}

// RescheduleAllDocuments upserts one queue row per (document, enabled config)
// pair with scheduled_at = start of expiry day minus the config offset. A
// failure on one pair never aborts the rest; running it twice with unchanged
// inputs leaves the queue unchanged.
func (s *ReminderScheduler) RescheduleAllDocuments() ScheduleStats {
	var stats ScheduleStats

	configs, err := s.configs.ListEnabledConfigs()
	if err != nil {
		log.Printf("Error: failed to load reminder configs: %v", err)
		stats.Failed++
		return stats
	}

	docs, err := s.documents.ListDocuments()
	if err != nil {
		log.Printf("Error: failed to load vehicle documents: %v", err)
		stats.Failed++
		return stats
	}

	for _, doc := range docs {
		for _, cfg := range configs {
			// Expiry timestamps arrive in arbitrary zones; day boundaries are
			// evaluated in the configured timezone so scheduling and dispatch
			// agree on what "today" means.
			scheduledAt := utils.AddDays(utils.StartOfDay(doc.ExpiryDate.In(s.loc)), -cfg.OffsetDays)
			if err := s.upsertQueueItem(doc.ID, cfg.ID, scheduledAt, &stats); err != nil {
				log.Printf("Warning: failed to schedule reminder for document %d config %d: %v", doc.ID, cfg.ID, err)
				stats.Failed++
			}
		}
	}

	pruned, err := s.queue.PruneOrphanedQueueItems()
	if err != nil {
		log.Printf("Warning: failed to prune orphaned queue rows: %v", err)
		stats.Failed++
	}
	stats.Pruned = int(pruned)

	log.Printf("Reminder reschedule complete: %d created, %d updated, %d reset, %d pruned, %d failed",
		stats.Created, stats.Updated, stats.Reset, stats.Pruned, stats.Failed)
	return stats
}

func (s *ReminderScheduler) upsertQueueItem(documentID, configID uint, scheduledAt time.Time, stats *ScheduleStats) error {
	existing, err := s.queue.FindQueueItem(documentID, configID)
	if err != nil {
		return err
	}

	if existing == nil {
		item := models.ReminderQueueItem{
			VehicleDocumentID: documentID,
			ReminderConfigID:  configID,
			ScheduledAt:       scheduledAt,
		}
		if err := s.queue.CreateQueueItem(&item); err != nil {
			return err
		}
		stats.Created++
		return nil
	}

	if existing.SentAt == nil {
		// Unsent row: keep scheduled_at in step with the current expiry date
		if !existing.ScheduledAt.Equal(scheduledAt) {
			existing.ScheduledAt = scheduledAt
			if err := s.queue.SaveQueueItem(existing); err != nil {
				return err
			}
			stats.Updated++
		}
		return nil
	}

	// Already sent: a strictly later recomputed date means the document was
	// renewed, so the reminder must fire again for the new expiry. Earlier or
	// equal dates leave the sent row untouched (no resend for corrections).
	if scheduledAt.After(existing.ScheduledAt) {
		existing.ScheduledAt = scheduledAt
		existing.SentAt = nil
		existing.LastError = nil
		if err := s.queue.SaveQueueItem(existing); err != nil {
			return err
		}
		stats.Reset++
	}
	return nil
}
