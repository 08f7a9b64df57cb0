package layout

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Options configures an Engine.
type Options struct {
	Metrics Metrics
	// Window, when set, keeps only items starting inside it.
	Window *Window
	Policy InvalidPolicy
	// Display is carried to every Frame untouched.
	Display DisplayConfig
	// Logger receives per-pass debug output. Nil discards it.
	Logger *slog.Logger
}

// Engine runs layout passes with a fixed configuration and a Zoom.
type Engine struct {
	zoom   *Zoom
	opts   Options
	logger *slog.Logger
}

// New returns an engine. A nil zoom gets the default levels in ZoomInternal
// mode, and zero metrics get DefaultMetrics.
func New(zoom *Zoom, opts Options) *Engine {
	if zoom == nil {
		zoom, _ = NewZoom(nil, ZoomInternal)
	}
	if opts.Metrics == (Metrics{}) {
		opts.Metrics = DefaultMetrics()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{zoom: zoom, opts: opts, logger: logger}
}

// Zoom returns the engine's zoom controller.
func (e *Engine) Zoom() *Zoom { return e.zoom }

// GroupPlacement is the placement result for one group.
type GroupPlacement struct {
	Title      string
	Items      []Item
	Placements []Placement
	Tracks     int
}

// Plan is the scale-independent part of a pass.
type Plan struct {
	Data   SortedData
	Groups []GroupPlacement
	Span   Span
	// Rail reports whether group titles get a side rail.
	Rail bool
	// Diagnostics lists items dropped under DropInvalid.
	Diagnostics []*ItemError
}

// Plan normalizes and filters the input, validates what the window keeps,
// then computes the span and the placements of every group. It returns
// ErrEmptyDataset when no item survives.
func (e *Engine) Plan(in Input) (*Plan, error) {
	data := Normalize(in)

	if e.opts.Window != nil {
		before := data.Len()
		data = Filter(data, *e.opts.Window)
		e.logger.Debug("applied time window",
			"start", e.opts.Window.Start.Format(time.DateOnly),
			"end", e.opts.Window.End.Format(time.DateOnly),
			"kept", data.Len(), "excluded", before-data.Len())
	}

	data, dropped, err := Validate(data, e.opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("validating items: %w", err)
	}
	for _, d := range dropped {
		e.logger.Warn("dropping malformed item", "id", d.ID, "group", d.Group, "error", d.Err)
	}

	if data.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	span, err := ComputeSpan(SortByStart(data.Items()))
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Data:        data,
		Groups:      make([]GroupPlacement, len(data.Groups)),
		Span:        span,
		Rail:        in.railed(),
		Diagnostics: dropped,
	}
	for i, g := range data.Groups {
		ps := Place(g)
		plan.Groups[i] = GroupPlacement{Title: g.Title, Items: g.Items, Placements: ps, Tracks: Tracks(ps)}
		e.logger.Debug("placed group", "index", i, "title", g.Title, "items", len(ps), "tracks", plan.Groups[i].Tracks)
	}

	e.logger.Debug("planned layout", "groups", len(plan.Groups), "items", data.Len(),
		"years", span.Years, "start_month", span.StartMonth)

	return plan, nil
}

// Tracks returns the track count of every group, in order.
func (p *Plan) Tracks() []int {
	out := make([]int, len(p.Groups))
	for i, g := range p.Groups {
		out[i] = g.Tracks
	}
	return out
}

// Frame is a plan rendered at one zoom level.
type Frame struct {
	*Plan
	Zoom     ZoomLevel
	Geometry *Geometry
	Display  DisplayConfig
}

// Frame maps a plan to pixels at the current zoom level. zoomLabel is only
// read in ZoomExternal mode; with ZoomInternal the controller's active
// level is used.
func (e *Engine) Frame(p *Plan, zoomLabel string) (*Frame, error) {
	level := e.zoom.Active()
	if e.zoom.Mode() == ZoomExternal {
		level = e.zoom.Resolve(zoomLabel)
		if zoomLabel != "" && !e.zoom.Has(zoomLabel) {
			e.logger.Warn("unknown zoom level, using default", "label", zoomLabel, "default", level.Label)
		}
	}

	geo, err := NewGeometry(p.Span, level.DayWidth, e.opts.Metrics, p.Rail, p.Tracks())
	if err != nil {
		return nil, fmt.Errorf("building geometry: %w", err)
	}
	e.logger.Debug("computed geometry", "zoom", level.Label, "day_width", level.DayWidth,
		"width", geo.TotalWidth(), "height", geo.TotalHeight())

	return &Frame{Plan: p, Zoom: level, Geometry: geo, Display: e.opts.Display}, nil
}

// Layout runs a full pass: Plan followed by Frame.
func (e *Engine) Layout(in Input, zoomLabel string) (*Frame, error) {
	p, err := e.Plan(in)
	if err != nil {
		return nil, err
	}
	return e.Frame(p, zoomLabel)
}

// SelectZoom switches the active level and re-maps p without placing it
// again. Unknown labels select the default level.
func (e *Engine) SelectZoom(p *Plan, label string) (*Frame, error) {
	level, err := e.zoom.Select(label)
	if err != nil {
		return nil, err
	}
	if level.Label != label && level.Key() != label {
		e.logger.Warn("unknown zoom level, using default", "label", label, "default", level.Label)
	}
	return e.Frame(p, "")
}

// ScrollOffsetForNow centres now in a viewport of viewportWidth pixels.
// See the package-level ScrollOffsetForNow.
func (f *Frame) ScrollOffsetForNow(viewportWidth int, now time.Time) (float64, bool) {
	return ScrollOffsetForNow(f.Span, f.Geometry.DayWidth(), viewportWidth, f.Geometry.RailWidth(), now)
}
