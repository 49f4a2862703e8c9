package postgres

import (
	"database/sql"
	"fmt"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans one activity_records row into a raw record.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (v1.RawRecord, error) {
	var (
		app         string
		start, end  time.Time
		usage       float64
		deviceID    string
		deviceModel sql.NullString
		tzOffset    sql.NullInt64
		createdAt   sql.NullTime
	)

	if err := row.Scan(&app, &start, &end, &usage, &deviceID, &deviceModel, &tzOffset, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan record row: %w", err)
	}

	rec := v1.RawRecord{
		v1.FieldApp:       app,
		v1.FieldStartTime: start,
		v1.FieldEndTime:   end,
		v1.FieldUsage:     usage,
		v1.FieldDeviceID:  deviceID,
	}
	if deviceModel.Valid {
		rec[v1.FieldDeviceModel] = deviceModel.String
	}
	if tzOffset.Valid {
		rec[v1.FieldTimezone] = tzOffset.Int64
	}
	if createdAt.Valid {
		rec[v1.FieldCreatedAt] = createdAt.Time
	}
	return rec, nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(r *v1.ActivityRecord) sql.NullTime {
	return sql.NullTime{Time: r.CreatedAt, Valid: !r.CreatedAt.IsZero()}
}
