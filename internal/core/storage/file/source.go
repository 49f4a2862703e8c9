// Package file reads raw activity records from exported JSON files.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds the number of files decoded at once.
const maxConcurrentReads = 8

// Source loads records from a single JSON array file or from every *.json
// file directly inside a directory, such as the monthly/ folder of an export.
type Source struct {
	path string
}

// NewSource returns a Source for path, which may be a file or a directory.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the configured file or directory.
func (s *Source) Path() string {
	return s.path
}

// LoadRecords implements storage.RecordSource.
// Directory contents are concatenated in file-name order.
func (s *Source) LoadRecords(ctx context.Context) ([]v1.RawRecord, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat record source: %w", err)
	}
	if !info.IsDir() {
		return readFile(s.path)
	}

	files, err := ListJSONFiles(s.path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no *.json files: %w", s.path, storage.ErrSourceEmpty)
	}

	parts := make([][]v1.RawRecord, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := readFile(name)
			if err != nil {
				return err
			}
			parts[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	records := make([]v1.RawRecord, 0, total)
	for _, p := range parts {
		records = append(records, p...)
	}

	slog.Debug("[FileSource] Loaded directory", "path", s.path, "files", len(files), "records", len(records))
	return records, nil
}

// ListJSONFiles returns the *.json files directly inside dir, sorted by name.
func ListJSONFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readFile(path string) ([]v1.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []v1.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: expected a JSON array of records: %w", path, err)
	}
	return records, nil
}
