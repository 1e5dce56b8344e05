package audit

import (
	"encoding/json"
	"log"
	"strings"

	"fleetdocs/internal/database"
	"fleetdocs/internal/models"

	"gorm.io/gorm"
)

// Entry describes one mutation to record. OldRecord is nil for creates,
// NewRecord is nil for deletes.
type Entry struct {
	EntityType models.EntityType
	EntityID   uint
	Action     models.AuditAction
	Actor      string
	OldRecord  any
	NewRecord  any
	Meta       map[string]any
}

// Recorder persists audit log rows. Recording is best-effort: failures are
// logged and swallowed so auditing never blocks the mutation it describes.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder() *Recorder {
	return &Recorder{db: database.GetDB()}
}

// Record builds the diff, related context and summary for a mutation and
// writes the audit row.
func (r *Recorder) Record(entry Entry) {
	subjectRecord := entry.NewRecord
	if entry.Action == models.AuditDelete {
		subjectRecord = entry.OldRecord
	}

	changes := ComputeChanges(entry.OldRecord, entry.NewRecord)
	related := BuildRelated(entry.EntityType, subjectRecord)
	summary := BuildSummary(entry.EntityType, entry.Action, changes, subjectRecord)

	meta := entry.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	context := map[string]any{
		"event":   string(entry.EntityType) + "." + strings.ToLower(string(entry.Action)),
		"changes": changes,
		"related": related,
		"meta":    meta,
	}

	payload, err := json.Marshal(context)
	if err != nil {
		log.Printf("Warning: failed to marshal audit context for %s %d: %v", entry.EntityType, entry.EntityID, err)
		payload = []byte("{}")
	}

	row := models.AuditLog{
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Action:        entry.Action,
		ActorUsername: entry.Actor,
		Summary:       summary,
		Context:       payload,
	}
	if err := r.db.Create(&row).Error; err != nil {
		log.Printf("Warning: failed to write audit log for %s %d: %v", entry.EntityType, entry.EntityID, err)
	}
}
