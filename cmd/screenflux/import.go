package main

import (
	"fmt"
	"log/slog"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage/file"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import JSON records into PostgreSQL",
	Long: `Normalize the records in a JSON file or directory and store them in the
activity_records table. Records already present are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for import")
	}

	ctx := cmd.Context()
	raw, err := file.NewSource(args[0]).LoadRecords(ctx)
	if err != nil {
		return err
	}

	normalizer, err := newNormalizer(cfg)
	if err != nil {
		return err
	}
	records, report := normalizer.Normalize(raw)

	adapter, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeAdapter(adapter)

	stored, err := adapter.SaveRecords(ctx, records)
	if err != nil {
		return err
	}
	slog.Info("Import finished", "accepted", report.Accepted, "rejected", report.RejectedCount(), "stored", stored)

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "Stored %d new records", stored)
	fmt.Fprintf(out, " (%d duplicates skipped)\n", len(records)-stored)
	if n := report.RejectedCount(); n > 0 {
		color.New(color.FgYellow).Fprintf(out, "Rejected %d malformed records\n", n)
		for _, r := range report.Rejected {
			fmt.Fprintf(out, "  #%d %s: %s\n", r.Index, r.App, r.Reason)
		}
	}
	return nil
}
