package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/Aebel-Shajan/activity-tracker/internal/metrics"
	"github.com/Aebel-Shajan/activity-tracker/internal/reload"
	"github.com/Aebel-Shajan/activity-tracker/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	Long: `Load the activity records, then serve the dashboard JSON and SVG API,
/health and /metrics. With reload.interval set the source is re-read
periodically and the dataset is swapped when its contents change.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("Starting screenflux",
		"version", version,
		"config", configPath,
		"source", cfg.Source.Type,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Record source
	source, adapter, err := openSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open record source: %w", err)
	}
	defer closeAdapter(adapter)

	normalizer, err := newNormalizer(cfg)
	if err != nil {
		return err
	}
	loader := ingestion.NewLoader(source, normalizer)

	// 2. Dashboard and initial load
	dash, err := newDashboard(cfg)
	if err != nil {
		return err
	}

	scheduler := reload.NewScheduler(cfg.Reload.ReloadInterval(), loader, dash)
	if outcome := scheduler.ReloadOnce(ctx); outcome != metrics.ReloadReplaced && !scheduler.Enabled() {
		return fmt.Errorf("initial load failed and reload is disabled")
	}

	// 3. HTTP server
	var db *sql.DB
	if adapter != nil {
		db = adapter.DB()
	}
	srv := server.New(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, db, dash)
	dash.RegisterRoutes(srv.Engine)

	// Record import needs a writable store. Stored records are served
	// right away rather than on the next reload tick.
	if adapter != nil {
		importer := ingestion.NewService(loader.Normalizer(), adapter, cfg.Server.MaxBodySizeMB)
		importer.OnStored(func(ctx context.Context) {
			scheduler.ReloadOnce(ctx)
		})
		importer.RegisterRoutes(srv.Engine)
	}

	// 4. Background reload
	go func() {
		if err := scheduler.Start(ctx); err != nil {
			slog.Error("Reload scheduler stopped with error", "error", err)
		}
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
