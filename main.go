package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timelane/layout"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, time.Now())
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	debug      bool
	csvFile    string
	dbFile     string
	table      string
	configFile string
	envFile    string
	outputFile string
	format     string
	groupBy    string
	zoom       string
	from       string
	to         string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("timelane", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&o.debug, "debug", false, "Enable debug mode for verbose output")
	fs.StringVar(&o.csvFile, "csv", "", "CSV file with timeline items")
	fs.StringVar(&o.dbFile, "db", "", "SQLite database with timeline items")
	fs.StringVar(&o.table, "table", "items", "Table to read with --db")
	fs.StringVar(&o.configFile, "config", "", "YAML configuration file (optional)")
	fs.StringVar(&o.envFile, "env", ".env", "Environment file loaded before the configuration")
	fs.StringVar(&o.outputFile, "output", "", "Output filename (optional)")
	fs.StringVar(&o.format, "format", "svg", "Output format: svg or text")
	fs.StringVar(&o.groupBy, "group-by", "", "Field to group items by")
	fs.StringVar(&o.zoom, "zoom", "", "Zoom level label or key")
	fs.StringVar(&o.from, "from", "", "Only items starting on or after this date")
	fs.StringVar(&o.to, "to", "", "Only items starting on or before this date")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: timelane [options]\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExactly one of --csv or --db is required. Both sources need start and end\n")
		fmt.Fprintf(stderr, "columns; every other column can be used with --group-by or the display config.\n")
		fmt.Fprintf(stderr, "If no output file is specified, SVG goes next to the input and text to stdout.\n")
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  timelane --csv roadmap.csv --group-by team --zoom day --output roadmap.svg\n")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if (o.csvFile == "") == (o.dbFile == "") {
		fs.Usage()
		return options{}, errors.New("exactly one of --csv or --db is required")
	}
	o.format = strings.ToLower(o.format)
	if o.format != "svg" && o.format != "text" {
		return options{}, fmt.Errorf("unknown format %q", o.format)
	}

	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, now time.Time) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := newLogger(stderr, level)

	if err := loadDotEnv(opts.envFile, logger); err != nil {
		return err
	}

	cfg, err := loadConfig(configPathFromEnv(opts.configFile))
	if err != nil {
		return err
	}
	applyEnv(&cfg)
	applyFlags(&cfg, opts)
	if !opts.debug {
		logger = newLogger(stderr, parseLogLevel(cfg.Log.Level))
	}
	logger.Debug("configuration loaded", "font_size", cfg.Font.Size, "zoom", cfg.Zoom.Current, "group_by", cfg.Columns.GroupBy)

	items, source, err := loadItems(ctx, opts, cfg)
	if err != nil {
		return err
	}
	logger.Info("loaded items", "count", len(items), "source", source)

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	frame, err := layoutFrame(engine, layout.RawItems{Items: items, GroupBy: cfg.groupField()}, cfg.Zoom.Current)
	if err != nil {
		return err
	}
	logger.Debug("layout ready", "groups", len(frame.Groups), "skipped", len(frame.Diagnostics))

	switch opts.format {
	case "text":
		out := renderText(frame, now)
		if opts.outputFile == "" {
			_, err := io.WriteString(stdout, out)
			return err
		}
		return writeOutput(opts.outputFile, out, stdout)
	default:
		return writeOutput(getOutputFilename(source, opts.outputFile), generateSVG(frame, cfg, now), stdout)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// applyFlags lets command-line flags win over file and environment settings.
func applyFlags(cfg *Config, opts options) {
	if opts.groupBy != "" {
		cfg.Columns.GroupBy = opts.groupBy
	}
	if opts.zoom != "" {
		cfg.Zoom.Current = opts.zoom
	}
	if opts.from != "" {
		cfg.Window.Start = opts.from
	}
	if opts.to != "" {
		cfg.Window.End = opts.to
	}
}

func loadItems(ctx context.Context, opts options, cfg Config) ([]layout.Item, string, error) {
	if opts.csvFile != "" {
		items, err := parseCSV(opts.csvFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("error parsing CSV file: %w", err)
		}
		return items, opts.csvFile, nil
	}

	store, err := openReadOnly(ctx, opts.dbFile)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	items, err := store.LoadItems(ctx, opts.table, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", opts.dbFile, err)
	}
	return items, opts.dbFile, nil
}

// layoutFrame runs one pass. In internal zoom mode the requested level is
// selected on the controller first; in external mode it is passed along.
func layoutFrame(e *layout.Engine, in layout.Input, zoom string) (*layout.Frame, error) {
	if e.Zoom().Mode() == layout.ZoomExternal {
		return e.Layout(in, zoom)
	}

	plan, err := e.Plan(in)
	if err != nil {
		return nil, err
	}
	if zoom == "" {
		return e.Frame(plan, "")
	}
	return e.SelectZoom(plan, zoom)
}

func writeOutput(path, content string, stdout io.Writer) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Timeline generated successfully: %s\n", path)
	return nil
}

// getOutputFilename returns outputFile when set, otherwise the input's base
// name with a .svg extension (e.g. "data.csv" becomes "data.svg").
func getOutputFilename(inputFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}

	base := filepath.Base(inputFile)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".svg"
}
