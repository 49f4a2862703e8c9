// Package format turns usage numbers and bundle identifiers into display strings.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Duration renders seconds as "{h}h {m}m" using floor division.
// Seconds below a full minute are dropped. Input must be non-negative.
func Duration(seconds float64) string {
	hours := math.Floor(seconds / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	return fmt.Sprintf("%dh %dm", int64(hours), int64(minutes))
}

// AppName turns a reverse-domain bundle id into a readable name.
//
// Every "com" and "org" segment is removed, then the first remaining
// segment (usually the vendor) is dropped and the rest is joined with
// spaces. The result is best-effort: "com.apple.Safari" becomes "Safari",
// but "Safari" alone becomes "".
func AppName(rawID string) string {
	segments := lo.Filter(strings.Split(rawID, "."), func(s string, _ int) bool {
		return s != "com" && s != "org"
	})
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[1:], " ")
}

// Percentage renders floor(100*value/total) followed by "%".
// A zero total yields "0%".
func Percentage(value, total float64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(math.Floor(100*value/total)))
}

// HourLabel renders an hour of the day (0-23) on a 12-hour clock, e.g. "12 AM", "1 PM".
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// ClockTime renders the UTC wall-clock time of t as "15:04:05".
func ClockTime(t time.Time) string {
	return t.UTC().Format(time.TimeOnly)
}

// DayFraction is the share of the UTC day elapsed at t, at minute precision.
// Midnight is 0 and 23:59 is 1439/1440.
func DayFraction(t time.Time) float64 {
	u := t.UTC()
	return float64(u.Hour()*60+u.Minute()) / 1440
}
