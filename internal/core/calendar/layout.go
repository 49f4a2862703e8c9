package calendar

// LayoutConfig controls the heatmap grid geometry. All values are pixels.
// The core never mutates a LayoutConfig; callers own the defaults.
type LayoutConfig struct {
	Radius       float64 `koanf:"radius" json:"radius" yaml:"radius"`
	DaySpacing   float64 `koanf:"day_spacing" json:"day_spacing" yaml:"day_spacing"`
	MonthSpacing float64 `koanf:"month_spacing" json:"month_spacing" yaml:"month_spacing"`
	XOffset      float64 `koanf:"x_offset" json:"x_offset" yaml:"x_offset"`
	YOffset      float64 `koanf:"y_offset" json:"y_offset" yaml:"y_offset"`
}

// DefaultLayout returns the stock grid geometry.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		Radius:       7,
		DaySpacing:   2,
		MonthSpacing: 20,
		XOffset:      0,
		YOffset:      0,
	}
}

// Step is the center-to-center distance between adjacent cells.
func (l LayoutConfig) Step() float64 {
	return 2*l.Radius + l.DaySpacing
}

// GridPosition is a pixel coordinate on the heatmap canvas.
type GridPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
