package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"fleetdocs/internal/models"
	"fleetdocs/internal/utils"
)

const (
	defaultReminderTime = "08:00"
	defaultTimezone     = "Asia/Kolkata"
)

// DailyJob owns the single daily reminder trigger: it fires once per day at
// the configured local time and runs the two phases strictly in order —
// reschedule the queue, then dispatch what is due.
type DailyJob struct {
	scheduler  *ReminderScheduler
	dispatcher *ReminderDispatcher
	loc        *time.Location

	mu     sync.Mutex
	hour   int
	minute int
	timer  *time.Timer
}

func NewDailyJob(scheduler *ReminderScheduler, dispatcher *ReminderDispatcher) *DailyJob {
	loc := resolveLocation(os.Getenv("TZ"))
	hour, minute := parseReminderTime(os.Getenv("REMINDER_TIME"))
	return &DailyJob{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		loc:        loc,
		hour:       hour,
		minute:     minute,
	}
}

// Start arms the first daily trigger
func (j *DailyJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.scheduleNextLocked()
}

// Reschedule replaces the active trigger with a new fire time. The previous
// timer is stopped first; stopping an already-fired or never-armed timer is a
// no-op.
func (j *DailyJob) Reschedule(clock string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.hour, j.minute = parseReminderTime(clock)
	j.scheduleNextLocked()
}

// Stop cancels the pending trigger, if any
func (j *DailyJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}
}

func (j *DailyJob) scheduleNextLocked() {
	if j.timer != nil {
		j.timer.Stop()
	}
	next := j.nextRunTime(time.Now().In(j.loc))
	j.timer = time.AfterFunc(time.Until(next), j.runOnce)
	log.Printf("Next reminder run scheduled for %s", next.Format(time.RFC1123))
}

func (j *DailyJob) nextRunTime(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), j.hour, j.minute, 0, 0, j.loc)
	if !next.After(now) {
		next = utils.AddDays(next, 1)
	}
	return next
}

// runOnce executes the daily job and re-arms the next trigger whatever the
// outcome. A panic anywhere in the job is logged and swallowed; tomorrow's run
// is the recovery path.
func (j *DailyJob) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error: daily reminder job panicked: %v", r)
		}
		j.mu.Lock()
		j.scheduleNextLocked()
		j.mu.Unlock()
	}()
	j.Run("cron", "")
}

// Run executes the two daily phases in order. Dispatch must never see a queue
// that hasn't been refreshed for documents created or renewed since yesterday.
func (j *DailyJob) Run(triggeredBy, preface string) models.DispatchResult {
	j.scheduler.RescheduleAllDocuments()

	result := j.dispatcher.ProcessPendingReminders(triggeredBy, preface)
	if result.OK {
		log.Printf("Daily reminder job finished: %s", result.Message)
	} else {
		log.Printf("Daily reminder job finished with failures: %s", result.Message)
	}
	return result
}

// Scheduler exposes the reschedule phase for the manual admin endpoint
func (j *DailyJob) Scheduler() *ReminderScheduler {
	return j.scheduler
}

// resolveLocation loads the configured timezone, falling back to the default
// so a bad TZ never takes the process down.
func resolveLocation(name string) *time.Location {
	if name == "" {
		name = defaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: invalid TZ %q, falling back to %s: %v", name, defaultTimezone, err)
		loc, err = time.LoadLocation(defaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// parseReminderTime parses an "HH:MM" 24-hour string, falling back to the
// default time with a warning on anything malformed.
func parseReminderTime(value string) (int, int) {
	if value == "" {
		value = defaultReminderTime
	}
	hour, minute, err := parseClock(value)
	if err != nil {
		log.Printf("Warning: invalid REMINDER_TIME %q, using default %s: %v", value, defaultReminderTime, err)
		hour, minute, _ = parseClock(defaultReminderTime)
	}
	return hour, minute
}

func parseClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", value)
	}
	return hour, minute, nil
}
