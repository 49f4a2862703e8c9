package storage

import (
	"context"
	"errors"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
)

// ErrSourceEmpty is returned when a source exists but yields no records at all.
var ErrSourceEmpty = errors.New("record source is empty")

// RecordSource supplies raw activity records. Implementations return the
// records in a deterministic order so that repeated loads of unchanged data
// fingerprint identically.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]v1.RawRecord, error)
}

// RecordSink persists normalized records. SaveRecords returns how many
// records were newly stored; records already present are skipped.
type RecordSink interface {
	SaveRecords(ctx context.Context, records []v1.ActivityRecord) (int, error)
}
