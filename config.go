package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"timelane/layout"
)

// FieldConfig describes one display field in the YAML configuration.
type FieldConfig struct {
	Field     string                   `yaml:"field"`      // Item field (CSV column, case-insensitive)
	Type      string                   `yaml:"type"`       // "progress", "icon" or "tag"
	Map       map[string]layout.Choice `yaml:"map"`        // Value -> name/color/icon table for icon and tag fields
	Color     string                   `yaml:"color"`      // Fixed color, overrides the table
	Variant   string                   `yaml:"variant"`    // Tag variant: "contained" or "outlined"
	HideValue string                   `yaml:"hide_value"` // Tags are not drawn for items with this value
	ShowText  *bool                    `yaml:"show_text"`  // Progress: print the percentage (default true)
}

// Config represents the complete configuration of a timelane run.
// It maps directly to the YAML configuration file; every section is
// optional and missing values keep the defaults from getDefaultConfig.
type Config struct {
	Font struct {
		Family string `yaml:"family"` // Font family for all text
		Size   int    `yaml:"size"`   // Base font size in pixels
	} `yaml:"font"`
	Colors struct {
		Background string `yaml:"background"` // Canvas background
		Grid       string `yaml:"grid"`       // Month separators and group rules
		Text       string `yaml:"text"`       // Labels
		Bars       string `yaml:"bars"`       // Default bar fill
		Rail       string `yaml:"rail"`       // Group title column background
		Today      string `yaml:"today"`      // "Today" line
	} `yaml:"colors"`
	Layout struct {
		CellHeight    int `yaml:"cell_height"`    // Height of one track in pixels
		GroupGap      int `yaml:"group_gap"`      // Space above each group band
		RailWidth     int `yaml:"rail_width"`     // Width of the group title column
		RulerHeight   int `yaml:"ruler_height"`   // Height of the year/month ruler
		BarPadding    int `yaml:"bar_padding"`    // Vertical padding inside a track
		ViewportWidth int `yaml:"viewport_width"` // Viewer width used for the scroll-to-today offset
	} `yaml:"layout"`
	Columns struct {
		ID               string   `yaml:"id"`                // Column holding item IDs (generated when absent)
		Name             string   `yaml:"name"`              // Column holding item names
		Start            string   `yaml:"start"`             // Column holding start dates (required)
		End              string   `yaml:"end"`               // Column holding end dates (required)
		GroupBy          string   `yaml:"group_by"`          // Field to group by, empty for a single band
		TimestampFormats []string `yaml:"timestamp_formats"` // Accepted date layouts, tried in order
	} `yaml:"columns"`
	Zoom struct {
		Mode    string             `yaml:"mode"`    // "internal" or "external"
		Current string             `yaml:"current"` // Level to use for this run
		Levels  []layout.ZoomLevel `yaml:"levels"`  // Ordered levels; the built-in Year/Month/Day when empty
	} `yaml:"zoom"`
	Window struct {
		Start string `yaml:"start"` // Only items starting on or after this date
		End   string `yaml:"end"`   // Only items starting on or before this date
	} `yaml:"window"`
	Validation struct {
		InvalidItems string `yaml:"invalid_items"` // "drop" (report and skip) or "reject" (fail)
	} `yaml:"validation"`
	Display struct {
		GraphicFields []FieldConfig `yaml:"graphic_fields"`
		TagFields     []FieldConfig `yaml:"tag_fields"`
	} `yaml:"display"`
	TodayMarker struct {
		Shape       string `yaml:"shape"`        // "circle", "triangle", "square" or "diamond"
		Size        int    `yaml:"size"`         // Marker size in pixels
		FillColor   string `yaml:"fill_color"`   // Marker fill
		StrokeColor string `yaml:"stroke_color"` // Marker border
		StrokeWidth int    `yaml:"stroke_width"` // Marker border width
	} `yaml:"today_marker"`
	Log struct {
		Level string `yaml:"level"` // debug, info, warn or error
	} `yaml:"log"`
}

// defaultTimestampFormats are tried in order when parsing dates.
var defaultTimestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// getDefaultConfig returns the configuration used when no file is given.
func getDefaultConfig() Config {
	var cfg Config

	cfg.Font.Family = "Arial, sans-serif"
	cfg.Font.Size = 12

	cfg.Colors.Background = "#ffffff"
	cfg.Colors.Grid = "#e0e0e0"
	cfg.Colors.Text = "#333333"
	cfg.Colors.Bars = "#4285f4"
	cfg.Colors.Rail = "#f5f5f5"
	cfg.Colors.Today = "#e53935"

	metrics := layout.DefaultMetrics()
	cfg.Layout.CellHeight = metrics.CellHeight
	cfg.Layout.GroupGap = metrics.GroupGap
	cfg.Layout.RailWidth = metrics.RailWidth
	cfg.Layout.RulerHeight = 40
	cfg.Layout.BarPadding = 4
	cfg.Layout.ViewportWidth = 1200

	cfg.Columns.ID = "id"
	cfg.Columns.Name = "name"
	cfg.Columns.Start = "start"
	cfg.Columns.End = "end"
	cfg.Columns.TimestampFormats = defaultTimestampFormats

	cfg.Zoom.Mode = "internal"
	cfg.Validation.InvalidItems = "drop"

	cfg.TodayMarker.Shape = "triangle"
	cfg.TodayMarker.Size = 6
	cfg.TodayMarker.FillColor = "#e53935"
	cfg.TodayMarker.StrokeColor = "#b71c1c"
	cfg.TodayMarker.StrokeWidth = 1

	cfg.Log.Level = "info"

	return cfg
}

// loadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func loadConfig(configPath string) (Config, error) {
	cfg := getDefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if len(cfg.Columns.TimestampFormats) == 0 {
		cfg.Columns.TimestampFormats = defaultTimestampFormats
	}

	return cfg, nil
}

// loadDotEnv loads KEY=value pairs from path into the environment. A
// missing file is not an error.
func loadDotEnv(path string, logger *slog.Logger) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no env file, using process environment", "path", path)
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Debug("loaded env file", "path", path)
	return nil
}

// configPathFromEnv returns flagPath, or TIMELANE_CONFIG_PATH when the flag is empty.
func configPathFromEnv(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv("TIMELANE_CONFIG_PATH")
}

// applyEnv overrides selected settings from TIMELANE_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TIMELANE_ZOOM"); v != "" {
		cfg.Zoom.Current = v
	}
	if v := os.Getenv("TIMELANE_GROUP_BY"); v != "" {
		cfg.Columns.GroupBy = v
	}
	if v := os.Getenv("TIMELANE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// parseLogLevel maps a level name to slog, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// metrics returns the pixel sizes handed to the layout engine.
func (c Config) metrics() layout.Metrics {
	return layout.Metrics{
		CellHeight: c.Layout.CellHeight,
		GroupGap:   c.Layout.GroupGap,
		RailWidth:  c.Layout.RailWidth,
	}
}

// groupField maps the configured group_by onto an item field name. Built-in
// fields keep their canonical spelling; CSV and SQLite columns are stored
// lower-cased, so everything else is lower-cased too.
func (c Config) groupField() string {
	g := strings.TrimSpace(c.Columns.GroupBy)
	for _, builtin := range []string{layout.FieldID, layout.FieldName, layout.FieldStart, layout.FieldEnd} {
		if strings.EqualFold(g, builtin) {
			return builtin
		}
	}
	return strings.ToLower(g)
}

// window parses the optional time window. It returns nil when neither
// bound is set; a missing bound is open-ended. An end given as a bare date
// includes that whole day.
func (c Config) window() (*layout.Window, error) {
	if c.Window.Start == "" && c.Window.End == "" {
		return nil, nil
	}

	w := layout.Window{
		Start: time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	if c.Window.Start != "" {
		t, err := parseTimestamp(c.Window.Start, c.Columns.TimestampFormats)
		if err != nil {
			return nil, fmt.Errorf("window start: %w", err)
		}
		w.Start = t
	}
	if c.Window.End != "" {
		t, format, err := parseTimestampLayout(c.Window.End, c.Columns.TimestampFormats)
		if err != nil {
			return nil, fmt.Errorf("window end: %w", err)
		}
		// A bare date covers the whole day.
		if !hasClock(format) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		w.End = t
	}
	if w.Start.After(w.End) {
		return nil, fmt.Errorf("window start %s is after end %s", c.Window.Start, c.Window.End)
	}

	return &w, nil
}

// display converts the YAML display section into engine display fields.
func (c Config) display() (layout.DisplayConfig, error) {
	var out layout.DisplayConfig
	var err error

	if out.GraphicFields, err = fieldDisplays(c.Display.GraphicFields); err != nil {
		return layout.DisplayConfig{}, fmt.Errorf("graphic_fields: %w", err)
	}
	if out.TagFields, err = fieldDisplays(c.Display.TagFields); err != nil {
		return layout.DisplayConfig{}, fmt.Errorf("tag_fields: %w", err)
	}

	return out, nil
}

func fieldDisplays(fields []FieldConfig) ([]layout.FieldDisplay, error) {
	var out []layout.FieldDisplay
	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f.Field))
		if name == "" {
			return nil, errors.New("display field without a name")
		}

		switch layout.DisplayType(strings.ToLower(f.Type)) {
		case layout.DisplayProgress:
			showText := true
			if f.ShowText != nil {
				showText = *f.ShowText
			}
			out = append(out, layout.ProgressField(name, showText, f.Color))
		case layout.DisplayIcon:
			out = append(out, layout.IconField(name, f.Map))
		case layout.DisplayTag:
			out = append(out, layout.TagField(name, f.Map, f.Variant, f.Color, f.HideValue))
		default:
			return nil, fmt.Errorf("field %q: unknown display type %q", f.Field, f.Type)
		}
	}
	return out, nil
}

// newEngine builds a layout engine from the configuration.
func newEngine(c Config, logger *slog.Logger) (*layout.Engine, error) {
	mode, err := layout.ParseZoomMode(c.Zoom.Mode)
	if err != nil {
		return nil, err
	}
	zoom, err := layout.NewZoom(c.Zoom.Levels, mode)
	if err != nil {
		return nil, fmt.Errorf("zoom levels: %w", err)
	}

	policy, err := layout.ParseInvalidPolicy(c.Validation.InvalidItems)
	if err != nil {
		return nil, err
	}
	window, err := c.window()
	if err != nil {
		return nil, err
	}
	display, err := c.display()
	if err != nil {
		return nil, err
	}

	return layout.New(zoom, layout.Options{
		Metrics: c.metrics(),
		Window:  window,
		Policy:  policy,
		Display: display,
		Logger:  logger,
	}), nil
}
