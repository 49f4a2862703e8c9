package ingestion

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
)

// naiveLayouts are timestamp layouts without a zone. They are interpreted in
// the normalizer's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Rejection describes one raw record that failed normalization.
type Rejection struct {
	Index  int    `json:"index"`
	App    string `json:"app,omitempty"`
	Reason string `json:"reason"`
}

// Report summarizes a normalization pass.
type Report struct {
	Accepted int         `json:"accepted"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// RejectedCount returns the number of quarantined records.
func (r Report) RejectedCount() int {
	return len(r.Rejected)
}

// Normalizer converts raw records into validated ActivityRecords.
type Normalizer struct {
	// Location applies to timestamps that carry no zone. Nil means UTC.
	Location *time.Location
}

// NewNormalizer returns a Normalizer for naive timestamps in loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{Location: loc}
}

// Normalize parses every raw record. Records that fail parsing or
// validation are quarantined in the report instead of aborting the pass;
// the returned slice holds only valid records, in input order.
func (n *Normalizer) Normalize(raw []v1.RawRecord) ([]v1.ActivityRecord, Report) {
	records := make([]v1.ActivityRecord, 0, len(raw))
	var report Report

	for i, r := range raw {
		rec, err := n.normalizeOne(r)
		if err != nil {
			app, _ := r[v1.FieldApp].(string)
			report.Rejected = append(report.Rejected, Rejection{Index: i, App: app, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	report.Accepted = len(records)

	if len(report.Rejected) > 0 {
		slog.Warn("Rejected malformed activity records",
			"rejected", len(report.Rejected),
			"accepted", report.Accepted,
			"first_reason", report.Rejected[0].Reason)
	}
	return records, report
}

func (n *Normalizer) normalizeOne(r v1.RawRecord) (v1.ActivityRecord, error) {
	if r == nil {
		return v1.ActivityRecord{}, fmt.Errorf("record is null")
	}

	var rec v1.ActivityRecord
	var err error

	app, ok := r[v1.FieldApp].(string)
	if !ok && r[v1.FieldApp] != nil {
		return rec, fmt.Errorf("app must be a string")
	}
	rec.App = strings.TrimSpace(app)

	if rec.StartTime, err = n.parseRequiredTime(r, v1.FieldStartTime); err != nil {
		return rec, err
	}
	if rec.EndTime, err = n.parseRequiredTime(r, v1.FieldEndTime); err != nil {
		return rec, err
	}

	usage, ok := aggregation.ParseDecimal(r[v1.FieldUsage])
	if !ok {
		return rec, fmt.Errorf("usage must be a number, got %v", r[v1.FieldUsage])
	}
	rec.Usage = usage.InexactFloat64()

	rec.DeviceID, _ = r[v1.FieldDeviceID].(string)
	rec.DeviceModel, _ = r[v1.FieldDeviceModel].(string)

	if tz, ok := aggregation.ParseDecimal(r[v1.FieldTimezone]); ok {
		rec.TimezoneOffset = int(tz.IntPart())
	}

	if v, present := r[v1.FieldCreatedAt]; present && v != nil {
		createdAt, err := n.ParseTime(v)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", v1.FieldCreatedAt, err)
		}
		rec.CreatedAt = createdAt
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (n *Normalizer) parseRequiredTime(r v1.RawRecord, field string) (time.Time, error) {
	v, present := r[field]
	if !present || v == nil {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := n.ParseTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

// ParseTime accepts RFC 3339 strings (offset honored), zone-less ISO 8601
// strings (read in the normalizer's location), time.Time values and numeric
// Unix seconds. The result is always in UTC.
func (n *Normalizer) ParseTime(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, fmt.Errorf("zero timestamp")
		}
		return val.UTC(), nil
	case string:
		return n.parseTimeString(strings.TrimSpace(val))
	default:
		secs, ok := aggregation.ParseDecimal(v)
		if !ok {
			return time.Time{}, fmt.Errorf("unsupported timestamp %v (%T)", v, v)
		}
		f := secs.InexactFloat64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("timestamp is not finite")
		}
		whole, frac := math.Modf(f)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	}
}

func (n *Normalizer) parseTimeString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
