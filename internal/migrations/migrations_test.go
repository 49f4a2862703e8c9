package migrations

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_PairedUpAndDown(t *testing.T) {
	names, err := fs.Glob(MigrationFiles, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("migration %s is neither up nor down", name)
		}
	}
	require.Equal(t, ups, downs)
}

func TestMigrationFiles_CreatesDedupeKey(t *testing.T) {
	up, err := fs.ReadFile(MigrationFiles, "000001_create_activity_records.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "UNIQUE (app, start_time, end_time, device_id)")
}

type fakeMigrator struct {
	version uint
	dirty   bool
	nilVer  bool
	upTo    uint
	upErr   error
	forced  []int
	upCalls int
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	if f.nilVer {
		return 0, false, migrate.ErrNilVersion
	}
	return f.version, f.dirty, nil
}

func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	f.dirty = false
	return nil
}

func (f *fakeMigrator) Up() error {
	f.upCalls++
	if f.upErr != nil {
		return f.upErr
	}
	if f.version == f.upTo && !f.nilVer {
		return migrate.ErrNoChange
	}
	f.version, f.nilVer = f.upTo, false
	return nil
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	require.NoError(t, err)
	require.Equal(t, uint(1), v)
}

func TestApply(t *testing.T) {
	t.Run("fresh database", func(t *testing.T) {
		m := &fakeMigrator{nilVer: true, upTo: 1}
		res, err := apply(m, 1, true)
		require.NoError(t, err)
		require.Equal(t, Result{From: 0, To: 1, Target: 1, Applied: true}, res)
		require.False(t, res.Pending())
	})

	t.Run("already current", func(t *testing.T) {
		m := &fakeMigrator{version: 1, upTo: 1}
		res, err := apply(m, 1, true)
		require.NoError(t, err)
		require.False(t, res.Applied)
		require.Equal(t, 1, m.upCalls)
	})

	t.Run("dirty version is forced clean", func(t *testing.T) {
		m := &fakeMigrator{version: 1, dirty: true, upTo: 1}
		res, err := apply(m, 1, true)
		require.NoError(t, err)
		require.True(t, res.Recovered)
		require.Equal(t, []int{1}, m.forced)
	})

	t.Run("auto migrate off", func(t *testing.T) {
		m := &fakeMigrator{nilVer: true, upTo: 1}
		res, err := apply(m, 1, false)
		require.NoError(t, err)
		require.Zero(t, m.upCalls)
		require.True(t, res.Pending())
	})

	t.Run("up failure", func(t *testing.T) {
		m := &fakeMigrator{nilVer: true, upErr: errors.New("syntax error")}
		_, err := apply(m, 1, true)
		require.ErrorContains(t, err, "failed to apply migrations")
	})
}
