// Package collector extracts app usage intervals from the macOS
// knowledgeC.db database and exports them as JSON record files.
package collector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	_ "github.com/mattn/go-sqlite3" // Register sqlite3 driver
)

// MacEpochOffset is the number of seconds between the Unix epoch and the
// Core Data reference date (2001-01-01T00:00:00Z).
const MacEpochOffset = 978307200

// UnknownDevice fills device fields that knowledgeC leaves empty.
const UnknownDevice = "Unknown"

var (
	// ErrDatabaseNotFound is returned when knowledgeC.db does not exist.
	ErrDatabaseNotFound = errors.New("knowledgeC.db not found")
	// ErrDatabaseNotReadable is returned when the process lacks access to knowledgeC.db.
	ErrDatabaseNotReadable = errors.New("knowledgeC.db is not readable; grant full disk access to the application running the collector")
)

// queryAppUsage selects every /app/usage interval, newest first.
// Core Data timestamps are shifted to Unix seconds.
const queryAppUsage = `
	SELECT
		ZOBJECT.ZVALUESTRING AS app,
		(ZOBJECT.ZENDDATE - ZOBJECT.ZSTARTDATE) AS usage,
		(ZOBJECT.ZSTARTDATE + 978307200) AS start_time,
		(ZOBJECT.ZENDDATE + 978307200) AS end_time,
		(ZOBJECT.ZCREATIONDATE + 978307200) AS created_at,
		ZOBJECT.ZSECONDSFROMGMT AS tz,
		ZSOURCE.ZDEVICEID AS device_id,
		ZMODEL AS device_model
	FROM ZOBJECT
	LEFT JOIN ZSTRUCTUREDMETADATA
		ON ZOBJECT.ZSTRUCTUREDMETADATA = ZSTRUCTUREDMETADATA.Z_PK
	LEFT JOIN ZSOURCE
		ON ZOBJECT.ZSOURCE = ZSOURCE.Z_PK
	LEFT JOIN ZSYNCPEER
		ON ZSOURCE.ZDEVICEID = ZSYNCPEER.ZDEVICEID
	WHERE ZSTREAMNAME = '/app/usage'
	ORDER BY ZSTARTDATE DESC
`

// DefaultDatabasePath returns ~/Library/Application Support/Knowledge/knowledgeC.db.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "Knowledge", "knowledgeC.db"), nil
}

// Reader queries an open knowledgeC database.
type Reader struct {
	db *sql.DB
}

// NewReader wraps an already open database.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Open checks that the database at path exists and is readable, then opens
// it read-only.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseNotReadable, path, err)
	}
	f.Close()

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro&_query_only=true"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return NewReader(db), nil
}

// Close closes the underlying database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Query returns every app usage interval, newest first.
func (r *Reader) Query(ctx context.Context) ([]v1.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx, queryAppUsage)
	if err != nil {
		return nil, fmt.Errorf("failed to query app usage: %w", err)
	}
	defer rows.Close()

	records := make([]v1.ActivityRecord, 0)
	skipped := 0
	for rows.Next() {
		rec, ok, err := scanUsageRow(rows)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating app usage rows: %w", err)
	}

	slog.Info("[Collector] Queried knowledgeC", "records", len(records), "skipped", skipped)
	return records, nil
}

// scanUsageRow converts one result row. ok is false for rows without an
// app or start/end date, which knowledgeC occasionally contains.
func scanUsageRow(rows *sql.Rows) (v1.ActivityRecord, bool, error) {
	var (
		app                        sql.NullString
		usage, start, end, created sql.NullFloat64
		tz                         sql.NullInt64
		deviceID, deviceModel      sql.NullString
	)
	if err := rows.Scan(&app, &usage, &start, &end, &created, &tz, &deviceID, &deviceModel); err != nil {
		return v1.ActivityRecord{}, false, fmt.Errorf("failed to scan app usage row: %w", err)
	}
	if !app.Valid || app.String == "" || !start.Valid || !end.Valid {
		return v1.ActivityRecord{}, false, nil
	}

	rec := v1.ActivityRecord{
		App:            app.String,
		StartTime:      unixSeconds(start.Float64),
		EndTime:        unixSeconds(end.Float64),
		Usage:          math.Max(usage.Float64, 0),
		DeviceID:       orUnknown(deviceID),
		DeviceModel:    orUnknown(deviceModel),
		TimezoneOffset: int(tz.Int64),
	}
	if created.Valid {
		rec.CreatedAt = unixSeconds(created.Float64)
	}
	return rec, true, nil
}

func unixSeconds(f float64) time.Time {
	whole, frac := math.Modf(f)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func orUnknown(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return UnknownDevice
	}
	return s.String
}
