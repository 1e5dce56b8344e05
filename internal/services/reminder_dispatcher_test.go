package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fleetdocs/internal/models"
	"fleetdocs/internal/utils"
)

type digestCall struct {
	configName  string
	offsetDays  int
	items       []models.DueReminder
	recipients  []models.ReminderRecipient
	preface     string
	triggeredBy string
}

type fakeMailer struct {
	calls   []digestCall
	failFor map[string]error
}

func (m *fakeMailer) SendReminderDigest(configName string, offsetDays int, items []models.DueReminder, recipients []models.ReminderRecipient, preface, triggeredBy string) error {
	m.calls = append(m.calls, digestCall{
		configName:  configName,
		offsetDays:  offsetDays,
		items:       items,
		recipients:  recipients,
		preface:     preface,
		triggeredBy: triggeredBy,
	})
	if err, ok := m.failFor[configName]; ok {
		return err
	}
	return nil
}

// newTestDispatcher pins the day-boundary zone to the local one the tests use
// when building scheduled_at values
func newTestDispatcher(store *fakeStore, mailer *fakeMailer) *ReminderDispatcher {
	d := NewReminderDispatcher(store, store, mailer)
	d.loc = time.Local
	return d
}

func activeRecipients() []models.ReminderRecipient {
	return []models.ReminderRecipient{
		{ID: 1, Email: "ops@example.com", Name: "Ops", Active: true},
		{ID: 2, Email: "fleet@example.com", Name: "Fleet", Active: true},
	}
}

// dueStore builds a store with documents and queue rows already in place so
// dispatch can be tested without running the scheduler first.
func dueStore(scheduledAt time.Time) *fakeStore {
	expiry := utils.AddDays(scheduledAt, 7)
	return &fakeStore{
		docs: []models.DocumentSummary{
			{ID: 11, DocumentNo: "INS-001", VehicleName: "Truck A", DocumentTypeName: "Insurance", ExpiryDate: expiry},
			{ID: 12, DocumentNo: "FIT-002", VehicleName: "Truck B", DocumentTypeName: "Fitness", ExpiryDate: expiry},
		},
		configs: defaultConfigs(),
		items: []models.ReminderQueueItem{
			{ID: 1, VehicleDocumentID: 11, ReminderConfigID: 3, ScheduledAt: scheduledAt},
			{ID: 2, VehicleDocumentID: 12, ReminderConfigID: 3, ScheduledAt: scheduledAt},
			{ID: 3, VehicleDocumentID: 11, ReminderConfigID: 2, ScheduledAt: scheduledAt},
		},
		nextID:     3,
		recipients: activeRecipients(),
	}
}

func TestProcessPendingReminders_NothingDue(t *testing.T) {
	store := &fakeStore{configs: defaultConfigs(), recipients: activeRecipients()}
	mailer := &fakeMailer{}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("manual", "")

	if !result.OK {
		t.Errorf("result not OK: %+v", result)
	}
	if result.Message != "no reminders due - nothing to send" {
		t.Errorf("message = %q", result.Message)
	}
	if len(mailer.calls) != 0 {
		t.Errorf("mailer called %d time(s) with nothing due", len(mailer.calls))
	}
}

func TestProcessPendingReminders_NoActiveRecipients(t *testing.T) {
	yesterday := utils.AddDays(utils.StartOfDay(time.Now()), -1)
	store := dueStore(yesterday)
	store.recipients = []models.ReminderRecipient{{ID: 1, Email: "gone@example.com", Active: false}}
	mailer := &fakeMailer{}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("cron", "")

	if result.OK {
		t.Errorf("result OK with no recipients: %+v", result)
	}
	if !strings.Contains(result.Message, "no active recipients") {
		t.Errorf("message = %q", result.Message)
	}
	if len(mailer.calls) != 0 {
		t.Errorf("mailer called with no recipients")
	}
	for _, item := range store.items {
		if item.SentAt != nil {
			t.Errorf("row %d marked sent; pending rows must be left for the next run", item.ID)
		}
	}
}

func TestProcessPendingReminders_OneDigestPerConfig(t *testing.T) {
	yesterday := utils.AddDays(utils.StartOfDay(time.Now()), -1)
	store := dueStore(yesterday)
	mailer := &fakeMailer{}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("manual", "Monthly check")

	if !result.OK {
		t.Fatalf("result = %+v", result)
	}
	if result.Message != "sent 3 reminder(s) across 2 group(s)" {
		t.Errorf("message = %q", result.Message)
	}
	if len(mailer.calls) != 2 {
		t.Fatalf("mailer called %d time(s), want one digest per config", len(mailer.calls))
	}

	byConfig := make(map[string]digestCall)
	for _, call := range mailer.calls {
		byConfig[call.configName] = call
	}
	weekly, ok := byConfig["1 week before expiry"]
	if !ok {
		t.Fatalf("no digest for the weekly config: %v", byConfig)
	}
	if len(weekly.items) != 2 || weekly.offsetDays != 7 {
		t.Errorf("weekly digest = %d item(s) offset %d, want 2 items offset 7", len(weekly.items), weekly.offsetDays)
	}
	if weekly.preface != "Monthly check" || weekly.triggeredBy != "manual" {
		t.Errorf("digest context = %q/%q", weekly.preface, weekly.triggeredBy)
	}
	if len(weekly.recipients) != 2 {
		t.Errorf("digest went to %d recipient(s), want 2", len(weekly.recipients))
	}

	for _, item := range store.items {
		if item.SentAt == nil {
			t.Errorf("row %d not marked sent", item.ID)
		}
		if item.Attempts != 1 {
			t.Errorf("row %d attempts = %d, want 1", item.ID, item.Attempts)
		}
	}
}

func TestProcessPendingReminders_GroupFailureIsIsolated(t *testing.T) {
	yesterday := utils.AddDays(utils.StartOfDay(time.Now()), -1)
	store := dueStore(yesterday)
	mailer := &fakeMailer{failFor: map[string]error{
		"1 week before expiry": errors.New("sendgrid 502"),
	}}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("cron", "")

	if result.OK {
		t.Errorf("result OK despite a failed group: %+v", result)
	}
	if !strings.Contains(result.Message, "failed groups: 1 week before expiry") {
		t.Errorf("message = %q", result.Message)
	}
	if !strings.Contains(result.Message, "sent 1 reminder(s)") {
		t.Errorf("message = %q, want the surviving group counted", result.Message)
	}

	// Failed group rows stay unsent with the error recorded
	for _, id := range []uint{1, 2} {
		item := store.items[id-1]
		if item.SentAt != nil {
			t.Errorf("failed row %d marked sent", id)
		}
		if item.LastError == nil || !strings.Contains(*item.LastError, "sendgrid 502") {
			t.Errorf("failed row %d last_error = %v", id, item.LastError)
		}
	}
	// The other group still went out
	if store.items[2].SentAt == nil {
		t.Errorf("healthy group row not marked sent")
	}
}

func TestProcessPendingReminders_FutureRowsNotEligible(t *testing.T) {
	tomorrow := utils.AddDays(utils.StartOfDay(time.Now()), 1)
	store := dueStore(tomorrow)
	mailer := &fakeMailer{}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("cron", "")

	if !result.OK || result.Message != "no reminders due - nothing to send" {
		t.Errorf("result = %+v, want nothing due", result)
	}
	if len(mailer.calls) != 0 {
		t.Errorf("mailer called for rows scheduled tomorrow")
	}
}

func TestProcessPendingReminders_TodayRowsAreEligible(t *testing.T) {
	today := utils.StartOfDay(time.Now())
	store := dueStore(today)
	mailer := &fakeMailer{}

	result := newTestDispatcher(store, mailer).ProcessPendingReminders("cron", "")

	if !result.OK {
		t.Fatalf("result = %+v", result)
	}
	if len(mailer.calls) == 0 {
		t.Fatalf("rows scheduled today were not dispatched")
	}
}

func TestReminderFlow_UTCExpiryEligibleToday(t *testing.T) {
	// A document submitted with a UTC midnight expiry falling on today's local
	// date must go out today, not tomorrow. Scheduler and dispatcher share the
	// configured zone, so their day boundaries agree.
	ist := time.FixedZone("IST", 5*3600+30*60)
	localToday := utils.StartOfDay(time.Now().In(ist))
	y, m, d := localToday.Date()
	expiry := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		docs:       []models.DocumentSummary{{ID: 11, DocumentNo: "INS-001", VehicleName: "Truck A", DocumentTypeName: "Insurance", ExpiryDate: expiry}},
		configs:    []models.ReminderConfig{{ID: 1, Name: "Expired", OffsetDays: 0, Enabled: true}},
		recipients: activeRecipients(),
	}
	scheduler := NewReminderScheduler(store, store, store)
	scheduler.loc = ist
	scheduler.RescheduleAllDocuments()

	mailer := &fakeMailer{}
	dispatcher := NewReminderDispatcher(store, store, mailer)
	dispatcher.loc = ist
	result := dispatcher.ProcessPendingReminders("cron", "")

	if !result.OK {
		t.Fatalf("result = %+v", result)
	}
	if len(mailer.calls) != 1 {
		t.Fatalf("mailer called %d time(s); today's UTC-stamped expiry must dispatch today", len(mailer.calls))
	}
}
