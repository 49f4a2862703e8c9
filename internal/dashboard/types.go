package dashboard

import (
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/calendar"
)

// Views returned by the Service may be shared between callers through the
// view cache. Treat them as read-only.

// AppSlice is one ranked app of the usage overview.
type AppSlice struct {
	App        string  `json:"app"`
	Name       string  `json:"name"`
	Usage      float64 `json:"usage"`
	Duration   string  `json:"duration"`
	Percentage string  `json:"percentage"`
	Color      string  `json:"color"`
}

// OverviewView ranks apps by total usage.
type OverviewView struct {
	DatasetID     string     `json:"dataset_id"`
	Records       int        `json:"records"`
	TotalUsage    float64    `json:"total_usage"`
	TotalDuration string     `json:"total_duration"`
	Apps          []AppSlice `json:"apps"`
}

// DayValue is one aggregated calendar day.
type DayValue struct {
	Date     aggregation.DayKey `json:"date"`
	Value    float64            `json:"value"`
	Duration string             `json:"duration,omitempty"`
}

// DaysView lists per-day aggregates in date order.
type DaysView struct {
	Operator string     `json:"operator"`
	Days     []DayValue `json:"days"`
}

// HeatmapCell is one day circle of the yearly heatmap.
type HeatmapCell struct {
	Date     aggregation.DayKey `json:"date"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Value    float64            `json:"value"`
	Duration string             `json:"duration,omitempty"`
	Color    string             `json:"color"`
}

// MonthLabel is a month abbreviation placed under the heatmap grid.
type MonthLabel struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// HeatmapView holds every cell of one calendar year.
type HeatmapView struct {
	Year   int                   `json:"year"`
	Width  float64               `json:"width"`
	Height float64               `json:"height"`
	Max    float64               `json:"max"`
	Layout calendar.LayoutConfig `json:"layout"`
	Cells  []HeatmapCell         `json:"cells"`
	Months []MonthLabel          `json:"months"`
}

// TimelineBar is one usage interval on the day timeline.
type TimelineBar struct {
	App       string    `json:"app"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Duration  string    `json:"duration"`
	X         float64   `json:"x"`
	Width     float64   `json:"width"`
}

// HourMarker labels one hour of the timeline axis.
type HourMarker struct {
	Hour  int     `json:"hour"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
}

// TimelineView lays out the intervals that start and end on one day.
type TimelineView struct {
	Date  aggregation.DayKey `json:"date"`
	Width float64            `json:"width"`
	Total string             `json:"total"`
	Bars  []TimelineBar      `json:"bars"`
	Hours []HourMarker       `json:"hours"`
}

// SelectionState is the wire form of the selected date.
type SelectionState struct {
	Date aggregation.DayKey `json:"date"`
}
