package utils

import (
	"math"
	"time"
)

// Calendar-day helpers for expiry scheduling. All comparisons are done on date
// components only, so a document expiring "today" compares equal regardless of
// the time-of-day stored on either side.

// StartOfDay returns t normalized to 00:00:00.000 in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t normalized to the last nanosecond of the day in t's location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// AddDays adds n calendar days to base, operating on date components so the
// clock time is preserved across DST transitions. n may be negative.
func AddDays(base time.Time, n int) time.Time {
	y, m, d := base.Date()
	h, min, s := base.Clock()
	return time.Date(y, m, d+n, h, min, s, base.Nanosecond(), base.Location())
}

// CompareDateOnly compares the calendar days of a and b, ignoring time-of-day.
// Returns -1 if a is an earlier day than b, 0 if the same day, 1 if later.
func CompareDateOnly(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	default:
		return sign(ad - bd)
	}
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	if n > 0 {
		return 1
	}
	return 0
}

// IsDateInRange reports whether date falls within [start, end], inclusive on
// both ends at calendar-day granularity.
func IsDateInRange(date, start, end time.Time) bool {
	return !date.Before(StartOfDay(start)) && !date.After(EndOfDay(end))
}

// DaysBetween returns the number of calendar days from from to to, rounding up
// partial days. Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	diff := StartOfDay(to).Sub(StartOfDay(from))
	return int(math.Ceil(diff.Hours() / 24))
}

// CalculateDaysRemaining returns the number of days until expiry, counting from
// today. Negative means the document has already expired.
func CalculateDaysRemaining(expiry time.Time) int {
	return DaysBetween(time.Now(), expiry)
}
