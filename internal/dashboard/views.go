package dashboard

import (
	"sort"
	"strconv"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/calendar"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/colorscale"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/format"
	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
)

// View names, also used as metric labels.
const (
	ViewOverview = "overview"
	ViewDays     = "days"
	ViewHeatmap  = "heatmap"
	ViewTimeline = "timeline"
)

// Overview ranks apps by total usage. Percentages are relative to the
// ranked total, so apps filtered out below the threshold do not count.
func (s *Service) Overview() (*OverviewView, error) {
	return cachedView(s, ViewOverview, "", func(ds *ingestion.Dataset) (*OverviewView, error) {
		ranked := aggregation.ByApp(ds.Records, s.opts.MinAppUsage)
		total := aggregation.SumSummaries(ranked)

		apps := make([]AppSlice, len(ranked))
		for i, summary := range ranked {
			apps[i] = AppSlice{
				App:        summary.App,
				Name:       format.AppName(summary.App),
				Usage:      summary.Usage,
				Duration:   format.Duration(summary.Usage),
				Percentage: format.Percentage(summary.Usage, total),
				Color:      s.opts.Theme.Apps.At(i),
			}
		}

		return &OverviewView{
			DatasetID:     ds.ID.String(),
			Records:       ds.Len(),
			TotalUsage:    total,
			TotalDuration: format.Duration(total),
			Apps:          apps,
		}, nil
	})
}

// Days aggregates usage per UTC start day with operator (count, sum, min
// or max). An empty operator means sum.
func (s *Service) Days(operator string) (*DaysView, error) {
	if operator == "" {
		operator = aggregation.OpSum
	}
	if !aggregation.ValidOperator(operator) {
		return nil, invalidQueryf("unsupported operator %q (must be count, sum, min or max)", operator)
	}

	return cachedView(s, ViewDays, operator, func(ds *ingestion.Dataset) (*DaysView, error) {
		daily, err := aggregation.ByDayWith(ds.Records, operator)
		if err != nil {
			return nil, err
		}

		days := make([]DayValue, 0, len(daily))
		for key, value := range daily {
			dv := DayValue{Date: key, Value: value}
			if operator != aggregation.OpCount {
				dv.Duration = format.Duration(value)
			}
			days = append(days, dv)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

		return &DaysView{Operator: operator, Days: days}, nil
	})
}

// Heatmap lays out one circle per day of year. Days without usage get the
// theme's empty color.
func (s *Service) Heatmap(year int) (*HeatmapView, error) {
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}

	return cachedView(s, ViewHeatmap, strconv.Itoa(year), func(ds *ingestion.Dataset) (*HeatmapView, error) {
		layout := s.opts.Layout
		theme := s.opts.Theme
		daily := aggregation.ByDay(ds.Records)

		cells := make([]HeatmapCell, 0, 366)
		for day := range calendar.Days(year) {
			key := aggregation.DayKeyOf(day)
			value := daily[key]
			pos := calendar.CellPosition(day, layout)

			cell := HeatmapCell{Date: key, X: pos.X, Y: pos.Y, Value: value, Color: theme.Empty}
			if value > 0 {
				cell.Color = colorscale.ColorForValue(value, 0, theme.HeatmapMax, theme.Heatmap)
				cell.Duration = format.Duration(value)
			}
			cells = append(cells, cell)
		}

		months := make([]MonthLabel, 12)
		for m := range 12 {
			pos := calendar.MonthLabelPosition(m, year, layout)
			months[m] = MonthLabel{
				Label: calendar.MonthAbbrev(m),
				X:     pos.X - layout.Radius,
				Y:     pos.Y + 0.5*layout.Radius,
			}
		}

		width, height := calendar.Bounds(year, layout)
		return &HeatmapView{
			Year:   year,
			Width:  width,
			Height: height,
			Max:    theme.HeatmapMax,
			Layout: layout,
			Cells:  cells,
			Months: months,
		}, nil
	})
}

// Timeline lays out the records that start and end on day, longest first so
// that short intervals are drawn on top. A zero day means the selected date.
func (s *Service) Timeline(day time.Time) (*TimelineView, error) {
	day = s.resolveDay(day)
	key := aggregation.DayKeyOf(day)

	return cachedView(s, ViewTimeline, key.String(), func(ds *ingestion.Dataset) (*TimelineView, error) {
		width := s.opts.TimelineWidth
		colors := colorscale.AppColorMap(ds.Records, s.opts.Theme.Apps)
		records := aggregation.FilterByExactDay(ds.Records, day)

		type placed struct {
			bar        TimelineBar
			start, end float64
		}
		items := make([]placed, len(records))
		for i, r := range records {
			start, end := format.DayFraction(r.StartTime), format.DayFraction(r.EndTime)
			items[i] = placed{
				start: start,
				end:   end,
				bar: TimelineBar{
					App:       r.App,
					Name:      format.AppName(r.App),
					Color:     colors[r.App],
					StartTime: r.StartTime,
					EndTime:   r.EndTime,
					Start:     format.ClockTime(r.StartTime),
					End:       format.ClockTime(r.EndTime),
					Duration:  format.Duration(r.Usage),
					X:         start * width,
					Width:     (end - start) * width,
				},
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].start-items[i].end < items[j].start-items[j].end
		})

		bars := make([]TimelineBar, len(items))
		for i, it := range items {
			bars[i] = it.bar
		}

		hours := make([]HourMarker, 24)
		for h := range 24 {
			hours[h] = HourMarker{Hour: h, Label: format.HourLabel(h), X: float64(h) / 24 * width}
		}

		return &TimelineView{
			Date:  key,
			Width: width,
			Total: format.Duration(aggregation.Total(records)),
			Bars:  bars,
			Hours: hours,
		}, nil
	})
}

// ParseDay parses a YYYY-MM-DD query value.
func ParseDay(s string) (time.Time, error) {
	key, err := aggregation.ParseDayKey(s)
	if err != nil {
		return time.Time{}, invalidQueryf("invalid date %q (want %s)", s, aggregation.DayKeyLayout)
	}
	return key.Time(), nil
}

// ParseYear parses a year query value. An empty string yields 0.
func ParseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidQueryf("invalid year %q", s)
	}
	return year, nil
}
