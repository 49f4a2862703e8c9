package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Aebel-Shajan/activity-tracker/internal/render"
	"github.com/spf13/cobra"
)

var (
	renderOut  string
	renderYear int
	renderDate string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render dashboard views as SVG",
}

var renderHeatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Render the yearly usage heatmap",
	RunE:  runRenderHeatmap,
}

var renderTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Render one day's session timeline",
	RunE:  runRenderTimeline,
}

func init() {
	renderCmd.PersistentFlags().StringVarP(&renderOut, "out", "o", "", "Output file (default stdout)")
	renderHeatmapCmd.Flags().IntVar(&renderYear, "year", 0, "Year to render (default dashboard.year, then the current year)")
	renderTimelineCmd.Flags().StringVar(&renderDate, "date", "", "Day to render (YYYY-MM-DD, default today)")

	renderCmd.AddCommand(renderHeatmapCmd, renderTimelineCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRenderHeatmap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dash, err := loadDashboard(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	view, err := dash.Heatmap(renderYear)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), renderOut, func(w io.Writer) error {
		return render.NewSVG().Heatmap(w, view)
	})
}

func runRenderTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	day, err := parseDateFlag(renderDate)
	if err != nil {
		return err
	}
	dash, err := loadDashboard(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	view, err := dash.Timeline(day)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), renderOut, func(w io.Writer) error {
		return render.NewSVG().Timeline(w, view)
	})
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Info("Wrote SVG", "path", path)
	return nil
}
