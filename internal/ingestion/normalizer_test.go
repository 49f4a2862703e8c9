package ingestion

import (
	"math"
	"testing"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/stretchr/testify/require"
)

func rawRecord(app, start, end string, usage interface{}) v1.RawRecord {
	return v1.RawRecord{
		v1.FieldApp:       app,
		v1.FieldStartTime: start,
		v1.FieldEndTime:   end,
		v1.FieldUsage:     usage,
	}
}

func TestNormalizer_Normalize_Valid(t *testing.T) {
	n := NewNormalizer(time.UTC)

	raw := []v1.RawRecord{
		{
			v1.FieldApp:         "com.apple.Safari",
			v1.FieldStartTime:   "2025-03-04T09:00:00",
			v1.FieldEndTime:     "2025-03-04T09:10:00.250000",
			v1.FieldUsage:       600.25,
			v1.FieldDeviceID:    "Unknown",
			v1.FieldDeviceModel: "MacBookPro18,3",
			v1.FieldTimezone:    3600.0,
			v1.FieldCreatedAt:   "2025-03-04T09:10:01",
		},
	}

	records, report := n.Normalize(raw)
	require.Len(t, records, 1)
	require.Equal(t, 1, report.Accepted)
	require.Empty(t, report.Rejected)

	rec := records[0]
	require.Equal(t, "com.apple.Safari", rec.App)
	require.Equal(t, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), rec.StartTime)
	require.Equal(t, time.Date(2025, 3, 4, 9, 10, 0, 250_000_000, time.UTC), rec.EndTime)
	require.Equal(t, 600.25, rec.Usage)
	require.Equal(t, "Unknown", rec.DeviceID)
	require.Equal(t, "MacBookPro18,3", rec.DeviceModel)
	require.Equal(t, 3600, rec.TimezoneOffset)
	require.Equal(t, time.Date(2025, 3, 4, 9, 10, 1, 0, time.UTC), rec.CreatedAt)
}

func TestNormalizer_Normalize_QuarantinesMalformed(t *testing.T) {
	n := NewNormalizer(nil)

	raw := []v1.RawRecord{
		rawRecord("com.apple.Safari", "2025-03-04T09:00:00", "2025-03-04T09:10:00", 600.0),
		rawRecord("com.apple.Notes", "not a date", "2025-03-04T09:10:00", 600.0),
		rawRecord("com.apple.Mail", "2025-03-04T09:00:00", "2025-03-04T09:10:00", "ten"),
		rawRecord("", "2025-03-04T09:00:00", "2025-03-04T09:10:00", 600.0),
		rawRecord("com.apple.Music", "2025-03-04T09:10:00", "2025-03-04T09:00:00", 600.0),
		rawRecord("com.apple.TV", "2025-03-04T09:00:00", "2025-03-04T09:10:00", -5.0),
		{v1.FieldApp: "com.apple.Maps", v1.FieldStartTime: "2025-03-04T09:00:00", v1.FieldUsage: 1.0},
		{v1.FieldApp: 42.0, v1.FieldStartTime: "2025-03-04T09:00:00", v1.FieldEndTime: "2025-03-04T09:00:00", v1.FieldUsage: 1.0},
		nil,
		rawRecord("com.apple.Photos", "2025-03-04T09:00:00", "2025-03-04T09:10:00", "600"),
	}

	records, report := n.Normalize(raw)
	require.Len(t, records, 2)
	require.Equal(t, "com.apple.Safari", records[0].App)
	require.Equal(t, "com.apple.Photos", records[1].App)
	require.Equal(t, 600.0, records[1].Usage)

	require.Equal(t, 2, report.Accepted)
	require.Equal(t, 8, report.RejectedCount())

	reasons := map[int]string{}
	for _, r := range report.Rejected {
		reasons[r.Index] = r.Reason
	}
	require.Contains(t, reasons[1], "start_time: unrecognized timestamp")
	require.Contains(t, reasons[2], "usage must be a number")
	require.Contains(t, reasons[3], "app is required")
	require.Contains(t, reasons[4], "is before start_time")
	require.Contains(t, reasons[5], "usage must be >= 0")
	require.Contains(t, reasons[6], "end_time is required")
	require.Contains(t, reasons[7], "app must be a string")
	require.Contains(t, reasons[8], "record is null")
	require.Equal(t, "com.apple.Notes", report.Rejected[0].App)
}

func TestNormalizer_NoNaNPropagates(t *testing.T) {
	n := NewNormalizer(time.UTC)
	raw := []v1.RawRecord{
		rawRecord("a", "2025-03-04T09:00:00", "2025-03-04T09:10:00", math.NaN()),
		rawRecord("b", "2025-03-04T09:00:00", "2025-03-04T09:10:00", math.Inf(1)),
	}

	records, report := n.Normalize(raw)
	require.Empty(t, records)
	require.Equal(t, 2, report.RejectedCount())
}

func TestNormalizer_ParseTime(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	n := NewNormalizer(berlin)

	tests := []struct {
		name  string
		input interface{}
		want  time.Time
	}{
		{name: "rfc3339 utc", input: "2025-03-04T09:00:00Z", want: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)},
		{name: "rfc3339 offset honored", input: "2025-03-04T09:00:00+02:00", want: time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC)},
		{name: "naive uses location", input: "2025-03-04T09:00:00", want: time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)},
		{name: "naive with space", input: "2025-03-04 09:00:00", want: time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)},
		{name: "naive fractional", input: "2025-03-04T09:00:00.5", want: time.Date(2025, 3, 4, 8, 0, 0, 500_000_000, time.UTC)},
		{name: "unix seconds", input: 1741078800.0, want: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)},
		{name: "time value", input: time.Date(2025, 3, 4, 10, 0, 0, 0, berlin), want: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.ParseTime(tc.input)
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
			require.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizer_ParseTime_Errors(t *testing.T) {
	n := NewNormalizer(time.UTC)

	for _, input := range []interface{}{"", "yesterday", true, []interface{}{}, time.Time{}} {
		_, err := n.ParseTime(input)
		require.Error(t, err, "input %v", input)
	}
}
