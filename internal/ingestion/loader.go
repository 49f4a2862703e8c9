package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage"
	"github.com/google/uuid"
)

// Dataset is one immutable snapshot of loaded records.
type Dataset struct {
	ID          uuid.UUID           `json:"id"`
	Records     []v1.ActivityRecord `json:"-"`
	Report      Report              `json:"report"`
	Fingerprint string              `json:"fingerprint"`
	LoadedAt    time.Time           `json:"loaded_at"`
}

// NewDataset wraps already-normalized records, computing their fingerprint.
func NewDataset(records []v1.ActivityRecord, report Report) *Dataset {
	return &Dataset{
		ID:          uuid.New(),
		Records:     records,
		Report:      report,
		Fingerprint: Fingerprint(records),
		LoadedAt:    time.Now().UTC(),
	}
}

// Len returns the number of valid records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Loader fetches raw records from a source and normalizes them into a Dataset.
type Loader struct {
	source     storage.RecordSource
	normalizer *Normalizer
}

// NewLoader creates a Loader. A nil normalizer reads naive timestamps as UTC.
func NewLoader(source storage.RecordSource, normalizer *Normalizer) *Loader {
	if source == nil {
		panic("ingestion: source must not be nil")
	}
	if normalizer == nil {
		normalizer = NewNormalizer(time.UTC)
	}
	return &Loader{source: source, normalizer: normalizer}
}

// Normalizer returns the loader's normalizer.
func (l *Loader) Normalizer() *Normalizer {
	return l.normalizer
}

// Load reads and normalizes every record of the source.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	raw, err := l.source.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	records, report := l.normalizer.Normalize(raw)
	ds := NewDataset(records, report)

	slog.Info("Dataset loaded",
		"dataset_id", ds.ID,
		"records", report.Accepted,
		"rejected", report.RejectedCount(),
		"fingerprint", ds.Fingerprint[:12],
		"duration", time.Since(start))
	return ds, nil
}

// Fingerprint hashes the records' content in order. Two loads of the same
// data produce the same fingerprint regardless of when they ran.
func Fingerprint(records []v1.ActivityRecord) string {
	h := sha256.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	for i := range records {
		r := &records[i]
		writeString(r.App)
		writeInt(r.StartTime.UnixNano())
		writeInt(r.EndTime.UnixNano())
		writeInt(int64(math.Float64bits(r.Usage)))
		writeString(r.DeviceID)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
