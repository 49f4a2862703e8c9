package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSource_LoadRecords_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.json", `[
		{"app": "com.apple.Safari", "start_time": "2025-03-04T09:00:00", "end_time": "2025-03-04T09:10:00", "usage": 600},
		{"app": "com.apple.Notes", "start_time": "2025-03-04T10:00:00", "end_time": "2025-03-04T10:01:00", "usage": 60}
	]`)

	records, err := NewSource(path).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "com.apple.Safari", records[0]["app"])
	require.Equal(t, 600.0, records[0]["usage"])
}

func TestSource_LoadRecords_EmptyArray(t *testing.T) {
	path := writeFile(t, t.TempDir(), "all.json", `[]`)

	records, err := NewSource(path).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSource_LoadRecords_DirectoryInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "screen_time_2025-02.json", `[{"app": "b"}]`)
	writeFile(t, dir, "screen_time_2025-01.json", `[{"app": "a1"}, {"app": "a2"}]`)
	writeFile(t, dir, "notes.txt", `not json`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	records, err := NewSource(dir).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "a1", records[0]["app"])
	require.Equal(t, "a2", records[1]["app"])
	require.Equal(t, "b", records[2]["app"])
}

func TestSource_LoadRecords_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewSource(filepath.Join(dir, "missing.json")).LoadRecords(context.Background())
	require.ErrorContains(t, err, "failed to stat record source")

	_, err = NewSource(dir).LoadRecords(context.Background())
	require.ErrorIs(t, err, storage.ErrSourceEmpty)

	bad := writeFile(t, dir, "bad.json", `{"app": "not an array"}`)
	_, err = NewSource(bad).LoadRecords(context.Background())
	require.ErrorContains(t, err, "expected a JSON array")

	// One broken file fails the whole directory load.
	writeFile(t, dir, "good.json", `[]`)
	_, err = NewSource(dir).LoadRecords(context.Background())
	require.ErrorContains(t, err, "bad.json")
}
