package layout

import (
	"fmt"
	"math"
	"strings"
)

// ZoomLevel is a named time scale.
type ZoomLevel struct {
	Label    string  `yaml:"label"`
	DayWidth float64 `yaml:"day_width"`
	Default  bool    `yaml:"default"`
}

// Key is the label in lower case with its first space turned into a dash
// ("Half Year" -> "half-year"). Selections match either Label or Key.
func (l ZoomLevel) Key() string {
	return strings.Replace(strings.ToLower(l.Label), " ", "-", 1)
}

// DefaultZoomLevels is used when a caller supplies no levels.
func DefaultZoomLevels() []ZoomLevel {
	return []ZoomLevel{
		{Label: "Year", DayWidth: 4.5},
		{Label: "Month", DayWidth: 8, Default: true},
		{Label: "Day", DayWidth: 24},
	}
}

// ZoomMode decides who owns the active level.
type ZoomMode int

const (
	// ZoomInternal keeps the active level inside the Zoom; Select changes it.
	ZoomInternal ZoomMode = iota
	// ZoomExternal leaves the active level with the caller, who names it on
	// every pass through Resolve. Select is refused.
	ZoomExternal
)

func (m ZoomMode) String() string {
	switch m {
	case ZoomInternal:
		return "internal"
	case ZoomExternal:
		return "external"
	default:
		return fmt.Sprintf("ZoomMode(%d)", int(m))
	}
}

// ParseZoomMode maps "internal" and "external" to a mode.
func ParseZoomMode(s string) (ZoomMode, error) {
	switch s {
	case "", "internal":
		return ZoomInternal, nil
	case "external":
		return ZoomExternal, nil
	}
	return ZoomInternal, fmt.Errorf("unknown zoom mode %q", s)
}

// Zoom holds an ordered list of levels and, in ZoomInternal mode, the
// active one. A Zoom is meant to be driven from a single goroutine; it does
// no locking.
type Zoom struct {
	levels []ZoomLevel
	mode   ZoomMode
	def    int
	active int
}

// NewZoom validates levels and picks the initial level: the first marked
// Default, else the first entry. An empty list falls back to DefaultZoomLevels.
func NewZoom(levels []ZoomLevel, mode ZoomMode) (*Zoom, error) {
	if len(levels) == 0 {
		levels = DefaultZoomLevels()
	}

	z := &Zoom{levels: make([]ZoomLevel, len(levels)), mode: mode}
	copy(z.levels, levels)

	def := -1
	for i, l := range z.levels {
		if !(l.DayWidth > 0) || math.IsInf(l.DayWidth, 0) {
			return nil, fmt.Errorf("zoom level %q: %w", l.Label, ErrInvalidDayWidth)
		}
		if l.Default && def < 0 {
			def = i
		}
	}
	if def < 0 {
		def = 0
	}
	z.def = def
	z.active = def

	return z, nil
}

// Mode returns who owns the active level.
func (z *Zoom) Mode() ZoomMode { return z.mode }

// Levels returns a copy of the configured levels.
func (z *Zoom) Levels() []ZoomLevel {
	out := make([]ZoomLevel, len(z.levels))
	copy(out, z.levels)
	return out
}

// Default returns the initial level.
func (z *Zoom) Default() ZoomLevel { return z.levels[z.def] }

// Active returns the selected level. In ZoomExternal mode this is always
// the default, since the caller holds the real selection.
func (z *Zoom) Active() ZoomLevel { return z.levels[z.active] }

// Select makes the level matching label active. An unknown label selects
// the default level. Select fails with ErrExternalZoom in ZoomExternal mode.
func (z *Zoom) Select(label string) (ZoomLevel, error) {
	if z.mode == ZoomExternal {
		return ZoomLevel{}, ErrExternalZoom
	}
	i, ok := z.find(label)
	if !ok {
		i = z.def
	}
	z.active = i
	return z.levels[i], nil
}

// Resolve looks up label without changing any state; unknown labels
// resolve to the default level.
func (z *Zoom) Resolve(label string) ZoomLevel {
	if i, ok := z.find(label); ok {
		return z.levels[i]
	}
	return z.levels[z.def]
}

// Has reports whether label names a configured level.
func (z *Zoom) Has(label string) bool {
	_, ok := z.find(label)
	return ok
}

func (z *Zoom) find(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	for i, l := range z.levels {
		if l.Label == label || l.Key() == label {
			return i, true
		}
	}
	return 0, false
}
