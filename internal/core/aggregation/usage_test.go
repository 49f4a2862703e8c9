package aggregation

import (
	"testing"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(app string, start time.Time, seconds float64) v1.ActivityRecord {
	return v1.ActivityRecord{
		App:       app,
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds * float64(time.Second))),
		Usage:     seconds,
	}
}

func TestByApp(t *testing.T) {
	day := time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []v1.ActivityRecord
		want    []AppUsageSummary
	}{
		{
			name:    "empty input yields empty result",
			records: nil,
			want:    []AppUsageSummary{},
		},
		{
			name: "sums per app and ranks descending",
			records: []v1.ActivityRecord{
				rec("com.apple.Safari", day, 600),
				rec("com.microsoft.VSCode", day, 1200),
				rec("com.apple.Safari", day.Add(time.Hour), 900),
			},
			want: []AppUsageSummary{
				{App: "com.apple.Safari", Usage: 1500},
				{App: "com.microsoft.VSCode", Usage: 1200},
			},
		},
		{
			name: "drops apps under one minute",
			records: []v1.ActivityRecord{
				rec("com.apple.Finder", day, 59.5),
				rec("com.apple.Terminal", day, 60),
				rec("com.apple.Notes", day, 30),
				rec("com.apple.Notes", day.Add(time.Minute), 30),
			},
			want: []AppUsageSummary{
				{App: "com.apple.Terminal", Usage: 60},
				{App: "com.apple.Notes", Usage: 60},
			},
		},
		{
			name: "ties keep first-seen order",
			records: []v1.ActivityRecord{
				rec("b", day, 120),
				rec("a", day, 120),
				rec("c", day, 300),
			},
			want: []AppUsageSummary{
				{App: "c", Usage: 300},
				{App: "b", Usage: 120},
				{App: "a", Usage: 120},
			},
		},
		{
			name: "fractional seconds sum exactly",
			records: []v1.ActivityRecord{
				rec("x", day, 0.1),
				rec("x", day, 0.2),
				rec("x", day, 59.7),
			},
			want: []AppUsageSummary{{App: "x", Usage: 60}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ByApp(tc.records, MinAppUsage)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestByApp_Properties(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []v1.ActivityRecord{
		rec("a", day, 10), rec("b", day, 4000), rec("c", day, 61),
		rec("a", day, 45), rec("d", day, 0), rec("b", day, 1),
		rec("e", day, 3600), rec("c", day, 2),
	}

	got := ByApp(records, MinAppUsage)
	require.LessOrEqual(t, SumSummaries(got), Total(records))
	for i, s := range got {
		assert.GreaterOrEqual(t, s.Usage, MinAppUsage)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Usage, s.Usage)
		}
	}
}

func TestByDay(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	lateNight := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	// 01:00 local in UTC+2 is still the previous UTC day.
	eastern := time.Date(2025, 3, 2, 1, 0, 0, 0, time.FixedZone("EET", 2*3600))

	records := []v1.ActivityRecord{
		rec("a", d1, 100),
		rec("b", d2, 50),
		rec("a", lateNight, 3600), // crosses midnight
		rec("c", eastern, 25),
	}

	got := ByDay(records)
	require.Equal(t, DailyUsage{
		"2025-03-01": 3725,
		"2025-03-02": 50,
	}, got)

	var sum float64
	for _, v := range got {
		sum += v
	}
	require.Equal(t, Total(records), sum)
}

func TestByDayWith(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	records := []v1.ActivityRecord{
		rec("a", d1, 100),
		rec("b", d1.Add(time.Hour), 400),
		rec("a", d1.Add(24*time.Hour), 7),
	}

	counts, err := ByDayWith(records, OpCount)
	require.NoError(t, err)
	require.Equal(t, DailyUsage{"2025-03-01": 2, "2025-03-02": 1}, counts)

	longest, err := ByDayWith(records, OpMax)
	require.NoError(t, err)
	require.Equal(t, DailyUsage{"2025-03-01": 400, "2025-03-02": 7}, longest)

	_, err = ByDayWith(records, "median")
	require.ErrorContains(t, err, "unsupported operator")

	empty, err := ByDayWith(nil, OpSum)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestFilterByExactDay(t *testing.T) {
	target := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	beforeMidnight := time.Date(2025, 6, 10, 23, 50, 0, 0, time.UTC)
	previous := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

	records := []v1.ActivityRecord{
		rec("inside", morning, 600),
		rec("spans-midnight", beforeMidnight, 1200),
		rec("other-day", previous, 60),
		rec("inside-too", morning.Add(2*time.Hour), 60),
	}

	got := FilterByExactDay(records, target)
	require.Len(t, got, 2)
	require.Equal(t, "inside", got[0].App)
	require.Equal(t, "inside-too", got[1].App)

	require.Empty(t, FilterByExactDay(records, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
