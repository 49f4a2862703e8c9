package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var MigrationFiles embed.FS

// Result describes what RunMigrations did to the activity_records schema.
type Result struct {
	From      uint
	To        uint
	Target    uint
	Recovered bool // a dirty version was forced clean
	Applied   bool // at least one up migration ran
}

// Pending reports whether the schema is behind the embedded migrations.
func (r Result) Pending() bool {
	return r.To < r.Target
}

// migrator is the part of *migrate.Migrate the runner drives.
type migrator interface {
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Up() error
}

// RunMigrations brings the activity_records schema up to the latest embedded
// version. With autoMigrate off it only recovers a dirty state and reports
// how far behind the schema is.
func RunMigrations(db *sql.DB, autoMigrate bool) (Result, error) {
	target, err := LatestVersion()
	if err != nil {
		return Result{}, err
	}

	src, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return apply(m, target, autoMigrate)
}

func apply(m migrator, target uint, autoMigrate bool) (Result, error) {
	res := Result{Target: target}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		version, dirty = 0, false
	case err != nil:
		return res, fmt.Errorf("failed to read schema version: %w", err)
	}
	res.From, res.To = version, version

	if dirty {
		// Every migration here is idempotent DDL, so the recorded version
		// can be marked clean and re-applied.
		slog.Warn("[Migrations] Dirty schema version, forcing clean", "version", version)
		if err := m.Force(int(version)); err != nil {
			return res, fmt.Errorf("failed to clear dirty version %d: %w", version, err)
		}
		res.Recovered = true
	}

	if !autoMigrate {
		if res.Pending() {
			slog.Warn("[Migrations] Schema is behind and auto_migrate is off",
				"version", version, "target", target)
		}
		return res, nil
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return res, fmt.Errorf("failed to apply migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return res, fmt.Errorf("failed to read schema version after migrating: %w", err)
	}
	res.To = newVersion
	res.Applied = newVersion != version

	slog.Info("[Migrations] Schema ready", "from", res.From, "to", res.To, "target", target)
	return res, nil
}

// LatestVersion returns the highest version among the embedded up migrations.
func LatestVersion() (uint, error) {
	names, err := fs.Glob(MigrationFiles, "*.up.sql")
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}

	var latest uint64
	for _, name := range names {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return 0, fmt.Errorf("migration %s has no version prefix", name)
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("migration %s: %w", name, err)
		}
		latest = max(latest, v)
	}
	return uint(latest), nil
}
