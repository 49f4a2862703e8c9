package aggregation

import (
	"time"
)

// TruncateToDay returns midnight of t's UTC calendar day.
// Time-of-day and the original location are discarded so that records from
// producers in different zones land in the same bucket.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayKeyOf(a) == DayKeyOf(b)
}
