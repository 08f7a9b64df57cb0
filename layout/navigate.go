package layout

import (
	"math"
	"time"
)

// ScrollOffsetForNow returns the horizontal scroll position that centres
// now in a viewport of viewportWidth pixels, of which railWidth is taken by
// the rail. The result is clamped to [0, canvas width - viewportWidth].
// The second result is false, and the caller should leave the viewport
// alone, when now's year is outside the span.
func ScrollOffsetForNow(span Span, dayWidth float64, viewportWidth, railWidth int, now time.Time) (float64, bool) {
	if !span.ContainsYear(now) || !(dayWidth > 0) {
		return 0, false
	}

	pos := float64(daysBetween(span.Origin(), now)) * dayWidth
	target := pos - float64(viewportWidth-railWidth)/2

	canvas := math.Ceil(float64(span.Days())*dayWidth) + float64(railWidth)
	maxScroll := math.Max(0, canvas-float64(viewportWidth))

	return math.Max(0, math.Min(target, maxScroll)), true
}
