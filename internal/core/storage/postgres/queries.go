package postgres

// SQL queries for activity record storage.

const (
	// queryInsertRecord stores one record. Re-importing the same interval
	// from the same device is a no-op; RowsAffected is 0 for duplicates.
	queryInsertRecord = `
		INSERT INTO activity_records (
			app, start_time, end_time, usage,
			device_id, device_model, timezone_offset, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (app, start_time, end_time, device_id) DO NOTHING
	`

	// queryLoadRecords returns every record in a stable order so that
	// unchanged tables fingerprint identically across reloads.
	queryLoadRecords = `
		SELECT
			app, start_time, end_time, usage,
			device_id, device_model, timezone_offset, created_at
		FROM activity_records
		ORDER BY start_time ASC, id ASC
	`

	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'activity_records'
		)
	`
)
