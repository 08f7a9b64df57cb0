package layout

import (
	"slices"
	"time"
)

// Placement assigns one item to a track (column) of its group.
type Placement struct {
	Item   Item
	Column int
	Start  time.Time
	End    time.Time
}

// SortByStart returns a copy of items ordered by start date. Equal starts
// keep their input order.
func SortByStart(items []Item) []Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return a.Start.Compare(b.Start)
	})
	return sorted
}

// Place packs a group into tracks using greedy first-fit.
//
// Items are visited in start order. Each goes to the lowest-numbered track
// whose last item ends no later than the item starts; items that merely
// touch (one ends exactly when the next starts) may share a track. When no
// track fits, a new one is opened. The track count is not guaranteed to be
// minimal: first-fit in start order can leave a shorter late item on a new
// track even when a lower one frees up later. Results are deterministic for
// identical input.
func Place(g Group) []Placement {
	items := SortByStart(g.Items)
	out := make([]Placement, 0, len(items))
	// ends[i] is the end of the last item placed on track i.
	var ends []time.Time

	for _, it := range items {
		col := len(ends)
		for i, end := range ends {
			if !end.After(it.Start) {
				col = i
				break
			}
		}
		if col == len(ends) {
			ends = append(ends, it.End)
		} else {
			ends[col] = it.End
		}
		out = append(out, Placement{Item: it, Column: col, Start: it.Start, End: it.End})
	}

	return out
}

// Tracks returns the number of tracks used by placements (max column + 1).
func Tracks(placements []Placement) int {
	n := 0
	for _, p := range placements {
		if p.Column+1 > n {
			n = p.Column + 1
		}
	}
	return n
}
