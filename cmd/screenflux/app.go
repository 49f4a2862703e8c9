package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/config"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage/file"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage/postgres"
	"github.com/Aebel-Shajan/activity-tracker/internal/dashboard"
	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/Aebel-Shajan/activity-tracker/internal/migrations"
	"github.com/Aebel-Shajan/activity-tracker/internal/render"
)

// openPostgres connects, migrates and returns the records adapter.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*postgres.Adapter, error) {
	db, err := postgres.Connect(ctx, postgres.Options{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnectAttempts: uint(cfg.ConnectAttempts),
	})
	if err != nil {
		return nil, err
	}

	status, err := migrations.RunMigrations(db, cfg.AutoMigrate)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	if status.Pending() {
		slog.Warn("Database schema is behind, queries may fail", "version", status.To, "target", status.Target)
	}

	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return adapter, nil
}

// openSource returns the configured record source. The returned adapter is
// non-nil for the postgres source and must be closed by the caller.
func openSource(ctx context.Context, cfg *config.Config) (storage.RecordSource, *postgres.Adapter, error) {
	switch cfg.Source.Type {
	case config.SourcePostgres:
		adapter, err := openPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter, nil
	default:
		src := file.NewSource(cfg.Source.Path)
		slog.Info("Using file source", "path", src.Path())
		return src, nil, nil
	}
}

func newNormalizer(cfg *config.Config) (*ingestion.Normalizer, error) {
	loc, err := cfg.Source.Location()
	if err != nil {
		return nil, err
	}
	return ingestion.NewNormalizer(loc), nil
}

// newDashboard builds the dashboard service from config. The initial
// selection is today (UTC).
func newDashboard(cfg *config.Config) (*dashboard.Service, error) {
	theme, err := cfg.Dashboard.Theme()
	if err != nil {
		return nil, err
	}

	opts := dashboard.Options{
		Layout:        cfg.Dashboard.Layout,
		Theme:         theme,
		Year:          cfg.Dashboard.Year,
		MinAppUsage:   cfg.Dashboard.MinAppUsageSeconds,
		TimelineWidth: cfg.Dashboard.TimelineWidth,
		CacheSize:     cfg.Dashboard.CacheSize,
	}
	return dashboard.NewService(opts, dashboard.NewSelection(time.Now()), render.NewSVG()), nil
}

// loadDashboard loads the dataset once and returns a ready dashboard.
func loadDashboard(ctx context.Context, cfg *config.Config) (*dashboard.Service, error) {
	source, adapter, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeAdapter(adapter)

	normalizer, err := newNormalizer(cfg)
	if err != nil {
		return nil, err
	}
	ds, err := ingestion.NewLoader(source, normalizer).Load(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := newDashboard(cfg)
	if err != nil {
		return nil, err
	}
	svc.Replace(ds)
	return svc, nil
}

func closeAdapter(adapter *postgres.Adapter) {
	if adapter == nil {
		return
	}
	if err := adapter.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}
