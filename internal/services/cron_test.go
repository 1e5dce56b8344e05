package services

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"morning", "08:00", 8, 0, false},
		{"evening", "18:45", 18, 45, false},
		{"midnight", "00:00", 0, 0, false},
		{"last minute", "23:59", 23, 59, false},
		{"missing colon", "0800", 0, 0, true},
		{"too many parts", "08:00:00", 0, 0, true},
		{"hour out of range", "24:00", 0, 0, true},
		{"minute out of range", "08:60", 0, 0, true},
		{"negative hour", "-1:00", 0, 0, true},
		{"non-numeric", "eight:00", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := parseClock(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseClock(%q) = (%d, %d), want error", tt.value, hour, minute)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClock(%q) error: %v", tt.value, err)
			}
			if hour != tt.hour || minute != tt.minute {
				t.Errorf("parseClock(%q) = (%d, %d), want (%d, %d)", tt.value, hour, minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseReminderTime_FallsBackToDefault(t *testing.T) {
	if hour, minute := parseReminderTime(""); hour != 8 || minute != 0 {
		t.Errorf("empty value = (%d, %d), want default 08:00", hour, minute)
	}
	if hour, minute := parseReminderTime("not-a-time"); hour != 8 || minute != 0 {
		t.Errorf("malformed value = (%d, %d), want default 08:00", hour, minute)
	}
	if hour, minute := parseReminderTime("06:30"); hour != 6 || minute != 30 {
		t.Errorf("valid value = (%d, %d), want 06:30", hour, minute)
	}
}

func TestNextRunTime(t *testing.T) {
	job := &DailyJob{hour: 8, minute: 0, loc: time.UTC}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before today's trigger",
			time.Date(2025, time.March, 10, 6, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			"exactly at the trigger",
			time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			"after today's trigger",
			time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC),
			time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			"month boundary",
			time.Date(2025, time.March, 31, 22, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := job.nextRunTime(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextRunTime(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestResolveLocation_FallsBack(t *testing.T) {
	loc := resolveLocation("Not/AZone")
	if loc == nil {
		t.Fatalf("resolveLocation returned nil")
	}
	if loc.String() != defaultTimezone && loc != time.UTC {
		t.Errorf("resolveLocation fell back to %v", loc)
	}
}
