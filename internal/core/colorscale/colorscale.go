// Package colorscale maps usage values and apps onto discrete palettes.
package colorscale

import (
	"math"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/samber/lo"
)

// Palette is an ordered list of CSS colors, lowest intensity first.
type Palette []string

// DefaultHeatmapPalette runs from muted to bright green.
var DefaultHeatmapPalette = Palette{
	"#357A4F", // forest green
	"#53A36D", // mid pastel green
	"#7FD699", // bright mint
	"#D2F3D4", // pale mint highlight
}

// DefaultAppPalette is the gruvbox palette used for per-app colors.
var DefaultAppPalette = Palette{
	"#cc241d", // red
	"#98971a", // green
	"#d79921", // yellow
	"#458588", // blue
	"#b16286", // magenta
	"#689d6a", // cyan
	"#a89984", // white
	"#fb4934", // bright red
	"#b8bb26", // bright green
	"#fabd2f", // bright yellow
	"#83a598", // bright blue
	"#d3869b", // bright magenta
	"#8ec07c", // bright cyan
	"#ebdbb2", // bright white
}

// DefaultEmptyColor fills heatmap cells of days without activity.
const DefaultEmptyColor = "#3c3836"

// DefaultHeatmapMax is the usage (seconds) mapped to the brightest bucket.
const DefaultHeatmapMax = 10 * 3600.0

// ColorForValue clamps value into [min, max] and returns the palette entry
// at floor(ratio * (len(palette)-1)). Only a value equal to max reaches the
// last entry.
//
// An empty palette yields "". A degenerate range (max <= min) and NaN
// values yield palette[0]. Zero usage is not special-cased here; callers
// that want a distinct "no activity" color check value <= 0 first.
func ColorForValue(value, min, max float64, palette Palette) string {
	if len(palette) == 0 {
		return ""
	}
	if max <= min || math.IsNaN(value) {
		return palette[0]
	}

	clamped := math.Min(math.Max(value, min), max)
	ratio := (clamped - min) / (max - min)
	return palette[Bucket(ratio, len(palette))]
}

// Bucket returns floor(ratio * (n-1)) bounded to [0, n-1].
func Bucket(ratio float64, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(math.Floor(ratio * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// At returns palette[i % len(palette)], or "" for an empty palette.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return ""
	}
	return p[i%len(p)]
}

// AppColorMap assigns each distinct app in records a palette color, in order
// of first appearance, cycling through the palette.
func AppColorMap(records []v1.ActivityRecord, palette Palette) map[string]string {
	apps := lo.Uniq(lo.Map(records, func(r v1.ActivityRecord, _ int) string { return r.App }))

	colors := make(map[string]string, len(apps))
	for i, app := range apps {
		colors[app] = palette.At(i)
	}
	return colors
}
