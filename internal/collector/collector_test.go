package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage/file"
	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func usageColumns() []string {
	return []string{"app", "usage", "start_time", "end_time", "created_at", "tz", "device_id", "device_model"}
}

func TestReader_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := float64(time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC).Unix())

	mock.ExpectQuery(regexp.QuoteMeta(queryAppUsage)).
		WillReturnRows(sqlmock.NewRows(usageColumns()).
			AddRow("com.apple.Safari", 600.5, start, start+600.5, start+601, int64(3600), "dev-1", "MacBookPro18,3").
			AddRow("com.apple.Notes", 60.0, start, start+60, nil, nil, nil, nil).
			AddRow(nil, 10.0, start, start+10, start, int64(0), nil, nil).
			AddRow("com.apple.Mail", 10.0, nil, start+10, start, int64(0), nil, nil))

	records, err := NewReader(db).Query(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	safari := records[0]
	require.Equal(t, "com.apple.Safari", safari.App)
	require.Equal(t, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), safari.StartTime)
	require.Equal(t, time.Date(2025, 3, 4, 9, 10, 0, 500_000_000, time.UTC), safari.EndTime)
	require.Equal(t, 600.5, safari.Usage)
	require.Equal(t, 3600, safari.TimezoneOffset)
	require.Equal(t, "dev-1", safari.DeviceID)
	require.Equal(t, time.Date(2025, 3, 4, 9, 10, 1, 0, time.UTC), safari.CreatedAt)

	notes := records[1]
	require.Equal(t, UnknownDevice, notes.DeviceID)
	require.Equal(t, UnknownDevice, notes.DeviceModel)
	require.True(t, notes.CreatedAt.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReader_Query_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryAppUsage)).WillReturnError(errors.New("database is locked"))

	_, err = NewReader(db).Query(context.Background())
	require.ErrorContains(t, err, "failed to query app usage: database is locked")
}

func TestQueryUsesMacEpochOffset(t *testing.T) {
	require.Equal(t, int64(MacEpochOffset), time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	require.Contains(t, queryAppUsage, "+ 978307200")
}

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "knowledgeC.db"))
	require.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestGroupByMonth(t *testing.T) {
	jan := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 1, 0, 0, 0, time.UTC)

	records := []v1.ActivityRecord{
		{App: "a", StartTime: jan, EndTime: jan, CreatedAt: feb},
		{App: "b", StartTime: jan, EndTime: jan},
		{App: "c", StartTime: feb, EndTime: feb, CreatedAt: feb},
	}

	groups := GroupByMonth(records)
	require.Len(t, groups, 2)
	require.Equal(t, []string{"a", "c"}, appsOf(groups["2025-02"]))
	require.Equal(t, []string{"b"}, appsOf(groups["2025-01"]))
}

func TestExport_RoundTripsThroughFileSource(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	jan := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

	records := []v1.ActivityRecord{
		{App: "com.apple.Safari", StartTime: feb, EndTime: feb.Add(time.Minute), Usage: 60, CreatedAt: feb, DeviceID: UnknownDevice},
		{App: "com.apple.Notes", StartTime: jan, EndTime: jan.Add(2 * time.Minute), Usage: 120, CreatedAt: jan, DeviceID: UnknownDevice},
	}

	written, err := Export(dir, records)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, MonthlyDir, "screen_time_2025-01.json"),
		filepath.Join(dir, MonthlyDir, "screen_time_2025-02.json"),
		filepath.Join(dir, AllRecordsFile),
	}, written)

	for _, path := range written {
		_, err := os.Stat(path)
		require.NoError(t, err)
	}

	raw, err := file.NewSource(filepath.Join(dir, AllRecordsFile)).LoadRecords(context.Background())
	require.NoError(t, err)

	loaded, report := ingestion.NewNormalizer(time.UTC).Normalize(raw)
	require.Empty(t, report.Rejected)
	require.Equal(t, records, loaded)
}

func TestExport_DirectorySourceReadsEachRecordOnce(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	records := []v1.ActivityRecord{
		{App: "com.apple.Safari", StartTime: start, EndTime: start.Add(time.Hour), Usage: 3600, CreatedAt: start, DeviceID: UnknownDevice},
	}

	_, err := Export(dir, records)
	require.NoError(t, err)

	ds, err := ingestion.NewLoader(file.NewSource(dir), ingestion.NewNormalizer(time.UTC)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	require.Equal(t, 3600.0, aggregation.Total(ds.Records))

	// The monthly directory on its own is also a complete source.
	raw, err := file.NewSource(filepath.Join(dir, MonthlyDir)).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 1)
}

func TestExport_Empty(t *testing.T) {
	dir := t.TempDir()

	written, err := Export(dir, nil)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, AllRecordsFile)}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func appsOf(records []v1.ActivityRecord) []string {
	apps := make([]string, 0, len(records))
	for _, r := range records {
		apps = append(apps, r.App)
	}
	return apps
}
