package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
)

// Adapter implements storage.RecordSource and storage.RecordSink for PostgreSQL.
type Adapter struct {
	db          *sql.DB
	stmtLoadAll *sql.Stmt
}

// NewAdapter validates the schema and prepares statements on an open pool.
// Run migrations before calling it.
func NewAdapter(db *sql.DB) (*Adapter, error) {
	if err := validateSchema(db); err != nil {
		return nil, fmt.Errorf("schema validation failed - did you run migrations?: %w", err)
	}

	stmtLoadAll, err := db.Prepare(queryLoadRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare loadRecords statement: %w", err)
	}

	slog.Info("[Postgres] Adapter initialized with prepared statements")

	return &Adapter{
		db:          db,
		stmtLoadAll: stmtLoadAll,
	}, nil
}

// validateSchema checks that the activity_records table exists.
func validateSchema(db *sql.DB) error {
	var exists bool
	if err := db.QueryRow(queryTableExists).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("activity_records table does not exist")
	}
	return nil
}

// SaveRecords inserts records in a single transaction and returns how many
// were new. Duplicates of stored records are skipped.
func (a *Adapter) SaveRecords(ctx context.Context, records []v1.ActivityRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, queryInsertRecord)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insertRecord statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range records {
		r := &records[i]
		res, err := stmt.ExecContext(ctx,
			r.App,
			r.StartTime,
			r.EndTime,
			r.Usage,
			r.DeviceID,
			nullString(r.DeviceModel),
			r.TimezoneOffset,
			nullTime(r),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %d (%s): %w", i, r.App, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}

	slog.Debug("[Postgres] Saved records",
		"received", len(records),
		"inserted", inserted,
		"duplicates", len(records)-inserted)
	return inserted, nil
}

// LoadRecords returns all stored records ordered by start time.
// Timestamps are handed to the normalizer as time.Time values.
func (a *Adapter) LoadRecords(ctx context.Context) ([]v1.RawRecord, error) {
	rows, err := a.stmtLoadAll.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]v1.RawRecord, 0)
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// DB returns the underlying database connection for health checks and migrations.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Close releases prepared statements and closes the pool.
func (a *Adapter) Close() error {
	if a.stmtLoadAll != nil {
		a.stmtLoadAll.Close()
	}
	return a.db.Close()
}
