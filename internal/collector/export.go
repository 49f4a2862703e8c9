package collector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/samber/lo"
)

const (
	// MonthKeyLayout formats the month of a record's creation date.
	MonthKeyLayout = "2006-01"
	// AllRecordsFile holds every exported record.
	AllRecordsFile = "all_screen_time_data.json"
	// MonthlyDir is the subdirectory of the export directory holding the
	// per-month files. The directory source does not descend into it, so
	// pointing source.path at the export directory reads each record once.
	MonthlyDir = "monthly"
)

// MonthFileName returns the export file name for a YYYY-MM month key.
func MonthFileName(month string) string {
	return fmt.Sprintf("screen_time_%s.json", month)
}

// GroupByMonth buckets records by the UTC month they were created in.
// Records without a creation date fall back to their start time.
// Each bucket keeps the input order.
func GroupByMonth(records []v1.ActivityRecord) map[string][]v1.ActivityRecord {
	return lo.GroupBy(records, func(r v1.ActivityRecord) string {
		ts := r.CreatedAt
		if ts.IsZero() {
			ts = r.StartTime
		}
		return ts.UTC().Format(MonthKeyLayout)
	})
}

// Export writes all_screen_time_data.json into dir and one
// screen_time_YYYY-MM.json file per month into dir/monthly, creating both
// as needed. It returns the written paths, monthly files first in month order.
func Export(dir string, records []v1.ActivityRecord) ([]string, error) {
	monthlyDir := filepath.Join(dir, MonthlyDir)
	if err := os.MkdirAll(monthlyDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	groups := GroupByMonth(records)
	months := lo.Keys(groups)
	sort.Strings(months)

	written := make([]string, 0, len(months)+1)
	for _, month := range months {
		path := filepath.Join(monthlyDir, MonthFileName(month))
		if err := writeJSON(path, groups[month]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	allPath := filepath.Join(dir, AllRecordsFile)
	if records == nil {
		records = []v1.ActivityRecord{}
	}
	if err := writeJSON(allPath, records); err != nil {
		return written, err
	}
	written = append(written, allPath)

	slog.Info("[Collector] Exported records", "dir", dir, "months", len(months), "records", len(records))
	return written, nil
}

func writeJSON(path string, records []v1.ActivityRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
