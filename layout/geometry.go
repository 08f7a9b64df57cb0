package layout

import (
	"math"
	"time"
)

// Metrics holds the fixed pixel sizes of a layout.
type Metrics struct {
	// CellHeight is the height of one track.
	CellHeight int
	// GroupGap is the vertical space above each group band.
	GroupGap int
	// RailWidth is the width of the group title column, when shown.
	RailWidth int
}

// DefaultMetrics returns the sizes used when a caller supplies none.
func DefaultMetrics() Metrics {
	return Metrics{CellHeight: 36, GroupGap: 24, RailWidth: 160}
}

// Geometry maps dates and tracks to pixels for one span and day width.
// It is rebuilt from scratch on every change and never updated in place.
//
// X offsets are measured from the timeline origin, not from the left edge
// of the canvas: add RailWidth to place them on a canvas with a rail.
type Geometry struct {
	span     Span
	origin   time.Time
	dayWidth float64
	metrics  Metrics
	rail     bool
	tops     []int
	heights  []int
	total    int
}

// NewGeometry builds the mapping. tracks[i] is the track count of group i.
// rail reports whether the side rail is drawn.
func NewGeometry(span Span, dayWidth float64, m Metrics, rail bool, tracks []int) (*Geometry, error) {
	if !(dayWidth > 0) || math.IsInf(dayWidth, 0) {
		return nil, ErrInvalidDayWidth
	}

	g := &Geometry{
		span:     span,
		origin:   span.Origin(),
		dayWidth: dayWidth,
		metrics:  m,
		rail:     rail,
		tops:     make([]int, len(tracks)),
		heights:  make([]int, len(tracks)),
	}

	y := 0
	for i, n := range tracks {
		if n < 1 {
			n = 1
		}
		g.tops[i] = y
		g.heights[i] = m.GroupGap + n*m.CellHeight
		y += g.heights[i]
	}
	// Trailing spacer: no rows, just a gap so the last band can scroll clear.
	g.total = y + m.GroupGap

	return g, nil
}

// DayWidth returns the pixels per day.
func (g *Geometry) DayWidth() float64 { return g.dayWidth }

// Span returns the span the geometry was built for.
func (g *Geometry) Span() Span { return g.span }

// XOffset is the number of whole days from the span origin to t, times the day width.
func (g *Geometry) XOffset(t time.Time) float64 {
	return float64(daysBetween(g.origin, t)) * g.dayWidth
}

// Extent returns the left edge and width of a bar from start to end. The
// end day is drawn in full, so a single-day item is one day wide.
func (g *Geometry) Extent(start, end time.Time) (x, width float64) {
	x = g.XOffset(start)
	width = float64(daysBetween(start, end)+1) * g.dayWidth
	return x, width
}

// YOffset is the top of the given track in the given group.
func (g *Geometry) YOffset(group, column int) int {
	return g.GroupTop(group) + g.metrics.GroupGap + column*g.metrics.CellHeight
}

// GroupTop is the top of a group's band, gap included. Indexes past the
// last group address the trailing spacer.
func (g *Geometry) GroupTop(group int) int {
	if group >= len(g.tops) {
		return g.total - g.metrics.GroupGap
	}
	return g.tops[group]
}

// GroupHeight is the height of a group's band, gap included.
func (g *Geometry) GroupHeight(group int) int {
	if group >= len(g.heights) {
		return g.metrics.GroupGap
	}
	return g.heights[group]
}

// RailWidth is the rail width when the rail is shown, otherwise zero.
func (g *Geometry) RailWidth() int {
	if g.rail {
		return g.metrics.RailWidth
	}
	return 0
}

// TimelineWidth is the width of the dated area alone.
func (g *Geometry) TimelineWidth() int {
	return int(math.Ceil(float64(g.span.Days()) * g.dayWidth))
}

// TotalWidth is the canvas width: every rendered day plus the rail.
func (g *Geometry) TotalWidth() int {
	return g.TimelineWidth() + g.RailWidth()
}

// TotalHeight is the canvas height including the trailing spacer.
func (g *Geometry) TotalHeight() int {
	return g.total
}

// CellHeight returns the height of one track.
func (g *Geometry) CellHeight() int { return g.metrics.CellHeight }
