package main

import (
	"fmt"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/dashboard"
	"github.com/Aebel-Shajan/activity-tracker/internal/render"
	"github.com/spf13/cobra"
)

var (
	summaryDate    string
	summaryTopApps int
	summaryNoColor bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an app ranking and one day's sessions",
	Long:  `Load the activity records and print the top apps by usage plus the sessions of one day.`,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Day to list sessions for (YYYY-MM-DD, default today)")
	summaryCmd.Flags().IntVar(&summaryTopApps, "top", 10, "Number of apps to show")
	summaryCmd.Flags().BoolVar(&summaryNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	day, err := parseDateFlag(summaryDate)
	if err != nil {
		return err
	}

	dash, err := loadDashboard(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	overview, err := dash.Overview()
	if err != nil {
		return err
	}
	timeline, err := dash.Timeline(day)
	if err != nil {
		return err
	}

	term := render.NewTerminal(summaryNoColor)
	term.TopApps = summaryTopApps
	return term.Summary(cmd.OutOrStdout(), overview, timeline)
}

// parseDateFlag parses an optional YYYY-MM-DD flag; empty means today (UTC).
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	day, err := dashboard.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date: %w", err)
	}
	return day, nil
}
