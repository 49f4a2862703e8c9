package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aebel-Shajan/activity-tracker/internal/dashboard"
	"github.com/fatih/color"
)

const (
	defaultBarWidth = 30
	defaultTopApps  = 10
)

// appColors follows the order of the default app palette (red, green,
// yellow, blue, magenta, cyan, white, then the bright variants).
var appColors = []color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
	color.FgWhite,
	color.FgHiRed,
	color.FgHiGreen,
	color.FgHiYellow,
	color.FgHiBlue,
	color.FgHiMagenta,
	color.FgHiCyan,
	color.FgHiWhite,
}

// Terminal prints usage summaries as colored text.
type Terminal struct {
	// BarWidth is the length of the longest app bar in characters.
	BarWidth int
	// TopApps limits the app ranking. Zero or less shows the default.
	TopApps int
	// NoColor disables ANSI escapes regardless of the terminal.
	NoColor bool
}

// NewTerminal returns a terminal renderer with default sizes.
func NewTerminal(noColor bool) *Terminal {
	return &Terminal{BarWidth: defaultBarWidth, TopApps: defaultTopApps, NoColor: noColor}
}

func (t *Terminal) colorFor(i int) *color.Color {
	c := color.New(appColors[i%len(appColors)])
	if t.NoColor {
		c.DisableColor()
	}
	return c
}

func (t *Terminal) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.NoColor {
		c.DisableColor()
	}
	return c
}

// Summary prints the app ranking and, when timeline is not nil, the
// sessions of the selected day.
func (t *Terminal) Summary(w io.Writer, overview *dashboard.OverviewView, timeline *dashboard.TimelineView) error {
	if overview == nil {
		return fmt.Errorf("render summary: nil overview")
	}

	var out strings.Builder
	bold := t.style(color.Bold)
	dim := t.style(color.FgHiBlack)

	out.WriteString(bold.Sprint("Screen time") + "\n")
	out.WriteString(strings.Repeat("─", 50) + "\n")
	out.WriteString(fmt.Sprintf("Total %s across %d records\n\n", bold.Sprint(overview.TotalDuration), overview.Records))

	t.writeApps(&out, overview, dim)

	if timeline != nil {
		out.WriteString("\n")
		t.writeTimeline(&out, timeline, overview, bold, dim)
	}

	if _, err := io.WriteString(w, out.String()); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}

func (t *Terminal) writeApps(out *strings.Builder, overview *dashboard.OverviewView, dim *color.Color) {
	if len(overview.Apps) == 0 {
		out.WriteString(dim.Sprint("No app usage above the threshold") + "\n")
		return
	}

	limit := t.TopApps
	if limit <= 0 {
		limit = defaultTopApps
	}
	barWidth := t.BarWidth
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}

	apps := overview.Apps
	hidden := 0
	if len(apps) > limit {
		hidden = len(apps) - limit
		apps = apps[:limit]
	}

	nameWidth := 0
	for _, a := range apps {
		nameWidth = max(nameWidth, len(displayName(a.Name, a.App)))
	}

	// Apps are ranked, so the first one has the longest bar.
	top := apps[0].Usage
	for i, a := range apps {
		n := 0
		if top > 0 {
			n = int(a.Usage / top * float64(barWidth))
		}
		n = max(n, 1)

		out.WriteString(fmt.Sprintf("%-*s %s%s %8s %4s\n",
			nameWidth, displayName(a.Name, a.App),
			t.colorFor(i).Sprint(strings.Repeat("█", n)),
			strings.Repeat(" ", barWidth-n),
			a.Duration, a.Percentage))
	}

	if hidden > 0 {
		out.WriteString(dim.Sprintf("… and %d more apps", hidden) + "\n")
	}
}

func (t *Terminal) writeTimeline(out *strings.Builder, view *dashboard.TimelineView, overview *dashboard.OverviewView, bold, dim *color.Color) {
	out.WriteString(fmt.Sprintf("%s %s (%s)\n", bold.Sprint("Sessions on"), view.Date, view.Total))
	if len(view.Bars) == 0 {
		out.WriteString(dim.Sprint("No sessions") + "\n")
		return
	}

	rank := make(map[string]int, len(overview.Apps))
	for i, a := range overview.Apps {
		rank[a.App] = i
	}

	for _, b := range view.Bars {
		name := displayName(b.Name, b.App)
		if i, ok := rank[b.App]; ok {
			name = t.colorFor(i).Sprint(name)
		} else {
			name = dim.Sprint(name)
		}
		out.WriteString(fmt.Sprintf("  %s-%s  %8s  %s\n", b.Start, b.End, b.Duration, name))
	}
}
