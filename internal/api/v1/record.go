package v1

import (
	"fmt"
	"math"
	"time"
)

// RawRecord is one entry of an input file before validation.
// Field values keep whatever JSON type the producer wrote; only the
// ingestion normalizer reads them.
type RawRecord map[string]interface{}

// Raw record field names.
const (
	FieldApp         = "app"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldUsage       = "usage"
	FieldDeviceID    = "device_id"
	FieldDeviceModel = "device_model"
	FieldTimezone    = "timezone"
	FieldCreatedAt   = "created_at"
)

// ActivityRecord is one logged interval of app usage.
// Records are immutable once loaded.
type ActivityRecord struct {
	// App is the reverse-domain bundle identifier, e.g. "com.apple.Safari".
	App string `json:"app"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Usage is the recorded duration in seconds. It is usually, but not
	// necessarily, equal to EndTime - StartTime.
	Usage float64 `json:"usage"`

	DeviceID    string `json:"device_id,omitempty"`
	DeviceModel string `json:"device_model,omitempty"`

	// TimezoneOffset is the producer's offset from GMT in seconds.
	TimezoneOffset int `json:"timezone,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Validate checks the record invariants.
func (r *ActivityRecord) Validate() error {
	if r.App == "" {
		return fmt.Errorf("app is required")
	}
	if r.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if r.EndTime.IsZero() {
		return fmt.Errorf("end_time is required")
	}
	if r.EndTime.Before(r.StartTime) {
		return fmt.Errorf("end_time %s is before start_time %s",
			r.EndTime.Format(time.RFC3339), r.StartTime.Format(time.RFC3339))
	}
	if math.IsNaN(r.Usage) || math.IsInf(r.Usage, 0) {
		return fmt.Errorf("usage must be a finite number")
	}
	if r.Usage < 0 {
		return fmt.Errorf("usage must be >= 0, got %v", r.Usage)
	}
	return nil
}
