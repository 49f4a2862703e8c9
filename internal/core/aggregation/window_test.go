package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncateToDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc afternoon",
			in:   time.Date(2025, 2, 11, 10, 35, 42, 123456789, time.UTC),
			want: time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local early morning belongs to previous utc day",
			in:   time.Date(2025, 2, 11, 3, 0, 0, 0, tokyo),
			want: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already midnight",
			in:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, TruncateToDay(tc.in))
		})
	}
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2025, 7, 4, 23, 59, 59, 0, time.UTC)
	key := DayKeyOf(ts)
	require.Equal(t, DayKey("2025-07-04"), key)
	require.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), key.Time())
	require.True(t, SameDay(ts, ts.Add(-23*time.Hour)))
	require.False(t, SameDay(ts, ts.Add(time.Second)))

	parsed, err := ParseDayKey("2025-07-04")
	require.NoError(t, err)
	require.Equal(t, key, parsed)

	_, err = ParseDayKey("07/04/2025")
	require.Error(t, err)
	require.True(t, DayKey("nope").Time().IsZero())
}
