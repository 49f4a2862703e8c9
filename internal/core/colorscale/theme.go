package colorscale

import (
	"crypto/sha256"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme bundles the palettes used by the dashboard.
type Theme struct {
	Heatmap    Palette `yaml:"heatmap"`
	Apps       Palette `yaml:"apps"`
	Empty      string  `yaml:"empty"`
	HeatmapMax float64 `yaml:"heatmap_max_seconds"`

	// Fingerprint is the SHA-256 of the theme file, empty for the default theme.
	Fingerprint string `yaml:"-"`
}

// DefaultTheme returns the built-in palettes.
func DefaultTheme() Theme {
	return Theme{
		Heatmap:    append(Palette(nil), DefaultHeatmapPalette...),
		Apps:       append(Palette(nil), DefaultAppPalette...),
		Empty:      DefaultEmptyColor,
		HeatmapMax: DefaultHeatmapMax,
	}
}

// LoadTheme reads a YAML theme file. Keys missing from the file keep their
// default values.
//
// Example:
//
//	heatmap: ["#0e4429", "#006d32", "#26a641", "#39d353"]
//	empty: "#161b22"
//	heatmap_max_seconds: 28800
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme file %s: %w", path, err)
	}

	theme := DefaultTheme()
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}

	theme.Fingerprint = fmt.Sprintf("%x", sha256.Sum256(data))
	return theme, nil
}

// Validate checks that every color is a hex color and the palettes are usable.
func (t Theme) Validate() error {
	if len(t.Heatmap) == 0 {
		return fmt.Errorf("heatmap palette must not be empty")
	}
	if len(t.Apps) == 0 {
		return fmt.Errorf("apps palette must not be empty")
	}
	if t.HeatmapMax <= 0 {
		return fmt.Errorf("heatmap_max_seconds must be > 0")
	}
	if !hexColor.MatchString(t.Empty) {
		return fmt.Errorf("empty color %q is not a hex color", t.Empty)
	}
	for _, p := range []Palette{t.Heatmap, t.Apps} {
		for _, c := range p {
			if !hexColor.MatchString(c) {
				return fmt.Errorf("palette color %q is not a hex color", c)
			}
		}
	}
	return nil
}
