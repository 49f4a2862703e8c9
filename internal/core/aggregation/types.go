package aggregation

import (
	"time"
)

// MinAppUsage is the per-app total (seconds) below which an app is dropped
// from ranked summaries.
const MinAppUsage = 60.0

// AppUsageSummary is the total usage of one app.
type AppUsageSummary struct {
	App   string  `json:"app"`
	Usage float64 `json:"usage"`
}

// DayKeyLayout is the layout of a DayKey.
const DayKeyLayout = "2006-01-02"

// DayKey identifies a UTC calendar day, formatted as YYYY-MM-DD.
type DayKey string

// DailyUsage maps a UTC calendar day to the aggregate for that day.
type DailyUsage map[DayKey]float64

// DayKeyOf returns the UTC calendar day containing t.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.UTC().Format(DayKeyLayout))
}

// ParseDayKey parses a YYYY-MM-DD string.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(DayKeyLayout, s)
	if err != nil {
		return "", err
	}
	return DayKeyOf(t), nil
}

// Time returns UTC midnight of the day. Invalid keys yield the zero time.
func (k DayKey) Time() time.Time {
	t, err := time.Parse(DayKeyLayout, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k DayKey) String() string {
	return string(k)
}
