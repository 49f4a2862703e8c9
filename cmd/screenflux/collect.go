package main

import (
	"fmt"
	"log/slog"

	"github.com/Aebel-Shajan/activity-tracker/internal/collector"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	collectDB  string
	collectOut string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Export macOS Screen Time data to JSON",
	Long: `Read app usage intervals from the macOS knowledgeC.db and write
all_screen_time_data.json plus one monthly/screen_time_YYYY-MM.json file per month.
Reading the database usually requires Full Disk Access for the terminal.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectDB, "db", "", "Path to knowledgeC.db (default ~/Library/Application Support/Knowledge/knowledgeC.db)")
	collectCmd.Flags().StringVarP(&collectOut, "out", "o", "./data", "Output directory")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	path := collectDB
	if path == "" {
		p, err := collector.DefaultDatabasePath()
		if err != nil {
			return err
		}
		path = p
	}

	reader, err := collector.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	records, err := reader.Query(cmd.Context())
	if err != nil {
		return err
	}
	slog.Info("Collected screen time records", "count", len(records), "db", path)

	files, err := collector.Export(collectOut, records)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	for _, f := range files {
		green.Fprintf(cmd.OutOrStdout(), "✓ ")
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
