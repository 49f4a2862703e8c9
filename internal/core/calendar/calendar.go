// Package calendar maps calendar dates onto the yearly heatmap grid.
//
// All calendar arithmetic uses UTC components: the day sequence, weekdays,
// months and week numbers. Dates in other locations are converted to UTC
// before their components are read, so a record's heatmap cell always
// matches the day bucket the aggregation package put it in.
package calendar

import (
	"iter"
	"time"
)

const (
	daysPerWeek = 7

	// MonthLabelRow is the grid row month labels are drawn on, one row
	// below the Saturday row with a spare row of padding.
	MonthLabelRow = 8

	// monthLabelNudge shifts a label half a week past the first column of
	// its month so it sits centered between columns.
	monthLabelNudge = 1.5
)

// Days yields UTC midnight of every day in year, ascending. Each call
// starts a fresh sequence.
func Days(year int) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		for day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); day.Before(end); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

// AllDaysInYear returns every UTC date of year from Jan 1 to Dec 31.
func AllDaysInYear(year int) []time.Time {
	days := make([]time.Time, 0, 366)
	for day := range Days(year) {
		days = append(days, day)
	}
	return days
}

// WeekNumberOfYear returns the 0-based week index of t within its year,
// with weeks starting on Sunday: ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7) - 1.
func WeekNumberOfYear(t time.Time) int {
	t = t.UTC()
	pastDays := t.YearDay() - 1
	jan1Weekday := int(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Weekday())
	return ceilDiv(pastDays+jan1Weekday+1, daysPerWeek) - 1
}

// Position returns the center of the cell for a weekday row (0 = Sunday),
// a month (0 = January) and a week column. The result is not clamped;
// week numbers outside 0..53 land outside the canvas.
func Position(dayOfWeek, month int, weekNumber float64, layout LayoutConfig) GridPosition {
	step := layout.Step()
	return GridPosition{
		X: layout.Radius + layout.XOffset + weekNumber*step + float64(month)*layout.MonthSpacing,
		Y: layout.Radius + layout.YOffset + float64(dayOfWeek)*step,
	}
}

// CellPosition returns the center of date's heatmap cell.
func CellPosition(date time.Time, layout LayoutConfig) GridPosition {
	date = date.UTC()
	return Position(int(date.Weekday()), int(date.Month())-1, float64(WeekNumberOfYear(date)), layout)
}

// MonthLabelPosition returns the anchor of the label for month (0-11) of year.
func MonthLabelPosition(month, year int, layout LayoutConfig) GridPosition {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return Position(MonthLabelRow, month, float64(WeekNumberOfYear(first))+monthLabelNudge, layout)
}

// Bounds returns the canvas size needed to draw every cell and month label
// of year without clipping.
func Bounds(year int, layout LayoutConfig) (width, height float64) {
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	lastWeek := float64(WeekNumberOfYear(last))
	right := Position(0, 11, lastWeek, layout)
	bottom := Position(MonthLabelRow, 0, 0, layout)
	return right.X + layout.Radius + layout.XOffset, bottom.Y + layout.Radius + layout.YOffset
}

// MonthName returns the English name of month (0-11).
func MonthName(month int) string {
	return time.Month(month + 1).String()
}

// MonthAbbrev returns the three-letter English abbreviation of month (0-11).
func MonthAbbrev(month int) string {
	return MonthName(month)[:3]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
