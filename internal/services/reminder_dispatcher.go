package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fleetdocs/internal/models"
	"fleetdocs/internal/utils"
)

// RecipientQuery returns the active reminder recipients
type RecipientQuery interface {
	ListActiveRecipients() ([]models.ReminderRecipient, error)
}

// EmailSender delivers one digest per reminder configuration group
type EmailSender interface {
	SendReminderDigest(configName string, offsetDays int, items []models.DueReminder, recipients []models.ReminderRecipient, preface, triggeredBy string) error
}

// ReminderDispatcher selects due queue rows, groups them per configuration,
// sends one digest per group and records the outcome on every row.
type ReminderDispatcher struct {
	queue      QueueStore
	recipients RecipientQuery
	email      EmailSender
	loc        *time.Location
}

func NewReminderDispatcher(queue QueueStore, recipients RecipientQuery, email EmailSender) *ReminderDispatcher {
	return &ReminderDispatcher{
		queue:      queue,
		recipients: recipients,
		email:      email,
		loc:        resolveLocation(os.Getenv("TZ")),
	}
}

// reminderGroup collects the due rows sharing one reminder configuration
type reminderGroup struct {
	configID   uint
	configName string
	offsetDays int
	items      []models.DueReminder
}

// ProcessPendingReminders dispatches everything due as of today. A failure on
// one configuration group is recorded on its rows and does not block the other
// groups; the aggregate outcome is returned, never an error.
func (d *ReminderDispatcher) ProcessPendingReminders(triggeredBy, preface string) models.DispatchResult {
	now := time.Now()

	// Eligibility uses the same configured-timezone day boundary the scheduler
	// writes scheduled_at with.
	due, err := d.queue.DueUnsent(utils.StartOfDay(now.In(d.loc)))
	if err != nil {
		log.Printf("Error: failed to read reminder queue: %v", err)
		return models.DispatchResult{OK: false, Message: fmt.Sprintf("failed to read reminder queue: %v", err)}
	}
	if len(due) == 0 {
		log.Printf("Reminder dispatch (%s): nothing to send", triggeredBy)
		return models.DispatchResult{OK: true, Message: "no reminders due - nothing to send"}
	}

	recipients, err := d.recipients.ListActiveRecipients()
	if err != nil {
		log.Printf("Error: failed to load reminder recipients: %v", err)
		return models.DispatchResult{OK: false, Message: fmt.Sprintf("failed to load recipients: %v", err)}
	}
	if len(recipients) == 0 {
		// Leave the rows untouched so they go out once someone is configured
		log.Printf("Warning: %d reminder(s) due but no active recipients configured", len(due))
		return models.DispatchResult{OK: false, Message: fmt.Sprintf("no active recipients configured; %d reminder(s) left pending", len(due))}
	}

	groups := groupByConfig(due)

	var failed []string
	sent := 0
	for _, group := range groups {
		ids := make([]uint, 0, len(group.items))
		for _, item := range group.items {
			ids = append(ids, item.QueueItemID)
		}

		if err := d.email.SendReminderDigest(group.configName, group.offsetDays, group.items, recipients, preface, triggeredBy); err != nil {
			log.Printf("Error: failed to send %q digest (%d items): %v", group.configName, len(ids), err)
			if markErr := d.queue.MarkFailed(ids, err.Error()); markErr != nil {
				log.Printf("Warning: failed to record dispatch failure for %q: %v", group.configName, markErr)
			}
			failed = append(failed, group.configName)
			continue
		}

		if err := d.queue.MarkSent(ids, now); err != nil {
			log.Printf("Warning: failed to mark %q reminders sent: %v", group.configName, err)
		}
		sent += len(ids)
		log.Printf("Sent %q digest with %d document(s) to %d recipient(s)", group.configName, len(ids), len(recipients))
	}

	if len(failed) > 0 {
		return models.DispatchResult{
			OK:      false,
			Message: fmt.Sprintf("sent %d reminder(s); failed groups: %s", sent, strings.Join(failed, ", ")),
		}
	}
	return models.DispatchResult{
		OK:      true,
		Message: fmt.Sprintf("sent %d reminder(s) across %d group(s)", sent, len(groups)),
	}
}

// groupByConfig buckets due rows per reminder configuration, preserving the
// selection order of the groups.
func groupByConfig(due []models.DueReminder) []reminderGroup {
	var groups []reminderGroup
	index := make(map[uint]int)
	for _, item := range due {
		i, ok := index[item.ReminderConfigID]
		if !ok {
			i = len(groups)
			index[item.ReminderConfigID] = i
			groups = append(groups, reminderGroup{
				configID:   item.ReminderConfigID,
				configName: item.ConfigName,
				offsetDays: item.OffsetDays,
			})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}
