package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/calendar"
	"github.com/Aebel-Shajan/activity-tracker/internal/core/colorscale"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SCREENFLUX_"

// Record source types.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config represents the top-level configuration for screenflux.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Source    SourceConfig    `koanf:"source"`
	Database  DatabaseConfig  `koanf:"database"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Reload    ReloadConfig    `koanf:"reload"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// SourceConfig selects where activity records are read from.
type SourceConfig struct {
	Type string `koanf:"type"` // file | postgres
	// Path is a JSON file or a directory of JSON files (file source only).
	Path string `koanf:"path"`
	// Timezone interprets timestamps that carry no offset.
	Timezone string `koanf:"timezone"`
}

type DatabaseConfig struct {
	DSN             string `koanf:"dsn"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
	ConnectAttempts int    `koanf:"connect_attempts"`
}

type DashboardConfig struct {
	// Year pins the heatmap year. Zero follows the selected date.
	Year               int                   `koanf:"year"`
	MinAppUsageSeconds float64               `koanf:"min_app_usage_seconds"`
	HeatmapMaxSeconds  float64               `koanf:"heatmap_max_seconds"` // overrides the theme when > 0
	TimelineWidth      float64               `koanf:"timeline_width"`
	ThemePath          string                `koanf:"theme_path"`
	CacheSize          int                   `koanf:"cache_size"`
	Layout             calendar.LayoutConfig `koanf:"layout"`
}

type ReloadConfig struct {
	// Interval between source reloads. "0" loads once at startup.
	Interval string `koanf:"interval"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// ReloadInterval returns the parsed reload interval. Validate guarantees it parses.
func (c ReloadConfig) ReloadInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Location returns the configured source timezone.
func (c SourceConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid source.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Theme loads the configured theme file, or the built-in theme when no
// path is set, and applies the heatmap max override.
func (c DashboardConfig) Theme() (colorscale.Theme, error) {
	theme := colorscale.DefaultTheme()
	if c.ThemePath != "" {
		loaded, err := colorscale.LoadTheme(c.ThemePath)
		if err != nil {
			return colorscale.Theme{}, err
		}
		theme = loaded
	}
	if c.HeatmapMaxSeconds > 0 {
		theme.HeatmapMax = c.HeatmapMaxSeconds
	}
	return theme, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Source.Type {
	case SourceFile:
		if strings.TrimSpace(c.Source.Path) == "" {
			return fmt.Errorf("source.path is required for the file source")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("unsupported source.type %q (must be file or postgres)", c.Source.Type)
	}
	if _, err := c.Source.Location(); err != nil {
		return err
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.ConnectAttempts <= 0 {
		return fmt.Errorf("database.connect_attempts must be > 0")
	}

	d := c.Dashboard
	if d.Year < 0 || d.Year > 9999 {
		return fmt.Errorf("invalid dashboard.year %d (must be 0-9999)", d.Year)
	}
	if d.MinAppUsageSeconds < 0 || math.IsNaN(d.MinAppUsageSeconds) {
		return fmt.Errorf("dashboard.min_app_usage_seconds must be >= 0")
	}
	if d.HeatmapMaxSeconds < 0 || math.IsNaN(d.HeatmapMaxSeconds) {
		return fmt.Errorf("dashboard.heatmap_max_seconds must be >= 0")
	}
	if d.TimelineWidth <= 0 {
		return fmt.Errorf("dashboard.timeline_width must be > 0")
	}
	if d.CacheSize <= 0 {
		return fmt.Errorf("dashboard.cache_size must be > 0")
	}
	if d.Layout.Radius <= 0 {
		return fmt.Errorf("dashboard.layout.radius must be > 0")
	}
	if d.Layout.DaySpacing < 0 || d.Layout.MonthSpacing < 0 {
		return fmt.Errorf("dashboard.layout spacings must be >= 0")
	}

	interval, err := time.ParseDuration(c.Reload.Interval)
	if err != nil {
		return fmt.Errorf("invalid reload.interval %q: %w", c.Reload.Interval, err)
	}
	if interval < 0 {
		return fmt.Errorf("reload.interval must be >= 0")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (must be debug, info, warn or error)", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	return nil
}

// Load parses config from defaults, then the YAML file (if any), then
// SCREENFLUX_ environment variables, and validates the result.
// Nested keys use a double underscore: SCREENFLUX_SOURCE__PATH.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                     8080,
		"server.host":                     "127.0.0.1",
		"server.max_body_size_mb":         8,
		"server.mode":                     "release",
		"source.type":                     SourceFile,
		"source.path":                     "./data",
		"source.timezone":                 "UTC",
		"database.dsn":                    "",
		"database.max_open_conns":         10,
		"database.max_idle_conns":         5,
		"database.auto_migrate":           true,
		"database.connect_attempts":       5,
		"dashboard.year":                  0,
		"dashboard.min_app_usage_seconds": 60.0,
		"dashboard.heatmap_max_seconds":   0.0,
		"dashboard.timeline_width":        1000.0,
		"dashboard.theme_path":            "",
		"dashboard.cache_size":            256,
		"dashboard.layout.radius":         7.0,
		"dashboard.layout.day_spacing":    2.0,
		"dashboard.layout.month_spacing":  20.0,
		"dashboard.layout.x_offset":       30.0,
		"dashboard.layout.y_offset":       30.0,
		"reload.interval":                 "0",
		"logging.level":                   "info",
		"logging.format":                  "text",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
