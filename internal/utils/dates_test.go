package utils

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(date(2025, time.March, 10, 15, 42))
	want := date(2025, time.March, 10, 0, 0)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(date(2025, time.March, 10, 1, 5))
	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("EndOfDay = %v, want 23:59:59 on the same day", got)
	}
	if got.Day() != 10 {
		t.Errorf("EndOfDay moved to day %d, want 10", got.Day())
	}
	if !got.Before(date(2025, time.March, 11, 0, 0)) {
		t.Errorf("EndOfDay = %v, should be before next midnight", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		base time.Time
		n    int
		want time.Time
	}{
		{"forward", date(2025, time.March, 3, 9, 30), 7, date(2025, time.March, 10, 9, 30)},
		{"backward", date(2025, time.March, 10, 9, 30), -30, date(2025, time.February, 8, 9, 30)},
		{"month boundary", date(2025, time.January, 31, 0, 0), 1, date(2025, time.February, 1, 0, 0)},
		{"year boundary", date(2024, time.December, 31, 12, 0), 1, date(2025, time.January, 1, 12, 0)},
		{"zero", date(2025, time.June, 15, 8, 0), 0, date(2025, time.June, 15, 8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddDays(tt.base, tt.n)
			if !got.Equal(tt.want) {
				t.Errorf("AddDays(%v, %d) = %v, want %v", tt.base, tt.n, got, tt.want)
			}
		})
	}
}

func TestCompareDateOnly(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same day different times", date(2025, time.March, 10, 1, 0), date(2025, time.March, 10, 23, 0), 0},
		{"earlier day", date(2025, time.March, 9, 23, 59), date(2025, time.March, 10, 0, 0), -1},
		{"later day", date(2025, time.April, 1, 0, 0), date(2025, time.March, 31, 23, 0), 1},
		{"earlier year", date(2024, time.December, 31, 0, 0), date(2025, time.January, 1, 0, 0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareDateOnly(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareDateOnly(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsDateInRange(t *testing.T) {
	start := date(2025, time.March, 1, 14, 0)
	end := date(2025, time.March, 31, 9, 0)

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{"inside", date(2025, time.March, 15, 0, 0), true},
		{"start day before start time", date(2025, time.March, 1, 0, 30), true},
		{"end day after end time", date(2025, time.March, 31, 23, 30), true},
		{"day before", date(2025, time.February, 28, 23, 59), false},
		{"day after", date(2025, time.April, 1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDateInRange(tt.d, start, end); got != tt.want {
				t.Errorf("IsDateInRange(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2025, time.March, 10, 1, 0), date(2025, time.March, 10, 23, 0), 0},
		{"next day", date(2025, time.March, 10, 23, 0), date(2025, time.March, 11, 1, 0), 1},
		{"a week", date(2025, time.March, 3, 0, 0), date(2025, time.March, 10, 0, 0), 7},
		{"already past", date(2025, time.March, 10, 0, 0), date(2025, time.March, 7, 0, 0), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCalculateDaysRemaining(t *testing.T) {
	now := time.Now()

	if got := CalculateDaysRemaining(AddDays(now, 7)); got != 7 {
		t.Errorf("CalculateDaysRemaining(+7d) = %d, want 7", got)
	}
	if got := CalculateDaysRemaining(now); got != 0 {
		t.Errorf("CalculateDaysRemaining(today) = %d, want 0", got)
	}
	if got := CalculateDaysRemaining(AddDays(now, -2)); got != -2 {
		t.Errorf("CalculateDaysRemaining(-2d) = %d, want -2", got)
	}
}
