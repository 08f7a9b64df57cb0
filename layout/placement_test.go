package layout_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timelane/layout"
)

func TestPlace_Example(t *testing.T) {
	g := layout.Group{Items: []layout.Item{
		item(t, "C", "2024-01-07", "2024-01-10", nil),
		item(t, "A", "2024-01-01", "2024-01-06", nil),
		item(t, "B", "2024-01-03", "2024-01-09", nil),
	}}

	ps := layout.Place(g)
	require.Equal(t, []string{"A", "B", "C"}, []string{ps[0].Item.ID, ps[1].Item.ID, ps[2].Item.ID})
	require.Equal(t, map[string]int{"A": 0, "B": 1, "C": 0}, columns(ps))
	require.Equal(t, 2, layout.Tracks(ps))
}

func TestPlace_TouchingShareColumn(t *testing.T) {
	start := date(t, "2024-03-01")
	g := layout.Group{Items: []layout.Item{
		{ID: "a", Start: start, End: start.Add(48 * time.Hour)},
		{ID: "b", Start: start.Add(48 * time.Hour), End: start.Add(72 * time.Hour)},
	}}

	ps := layout.Place(g)
	require.Equal(t, map[string]int{"a": 0, "b": 0}, columns(ps))
}

func TestPlace_FirstFreeTrack(t *testing.T) {
	g := layout.Group{Items: []layout.Item{
		item(t, "long", "2024-01-01", "2024-12-31", nil),
		item(t, "short1", "2024-01-02", "2024-01-03", nil),
		item(t, "mid", "2024-01-02", "2024-02-01", nil),
		item(t, "short2", "2024-01-10", "2024-01-12", nil),
		item(t, "late", "2024-03-01", "2024-03-05", nil),
	}}

	ps := layout.Place(g)
	require.Equal(t, map[string]int{
		"long":   0,
		"short1": 1,
		"mid":    2,
		"short2": 1,
		"late":   1,
	}, columns(ps))
}

func TestPlace_StableOnEqualStart(t *testing.T) {
	g := layout.Group{Items: []layout.Item{
		item(t, "x", "2024-01-01", "2024-01-02", nil),
		item(t, "y", "2024-01-01", "2024-01-02", nil),
		item(t, "z", "2024-01-01", "2024-01-02", nil),
	}}

	ps := layout.Place(g)
	require.Equal(t, map[string]int{"x": 0, "y": 1, "z": 2}, columns(ps))
}

func TestPlace_DoesNotMutateInput(t *testing.T) {
	items := []layout.Item{
		item(t, "b", "2024-02-01", "2024-02-02", nil),
		item(t, "a", "2024-01-01", "2024-01-02", nil),
	}
	layout.Place(layout.Group{Items: items})
	require.Equal(t, "b", items[0].ID)
}

func randomItems(r *rand.Rand, n int) []layout.Item {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	items := make([]layout.Item, n)
	for i := range items {
		start := base.Add(time.Duration(r.Intn(60*24)) * time.Hour)
		end := start.Add(time.Duration(r.Intn(20*24)) * time.Hour)
		items[i] = layout.Item{ID: fmt.Sprintf("i%d", i), Start: start, End: end}
	}
	return items
}

func TestPlace_NoOverlapInColumn(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		ps := layout.Place(layout.Group{Items: randomItems(r, 40)})
		require.Len(t, ps, 40)

		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				if ps[i].Column != ps[j].Column {
					continue
				}
				a, b := ps[i], ps[j]
				disjoint := !a.End.After(b.Start) || !b.End.After(a.Start)
				require.True(t, disjoint, "round %d: %s and %s overlap in column %d", round, a.Item.ID, b.Item.ID, a.Column)
			}
		}
	}
}

func TestPlace_Deterministic(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(7)), 100)
	first := layout.Place(layout.Group{Items: items})
	for i := 0; i < 5; i++ {
		require.Equal(t, first, layout.Place(layout.Group{Items: items}))
	}
}

func TestSortByStart(t *testing.T) {
	items := []layout.Item{
		item(t, "c", "2024-03-01", "2024-03-02", nil),
		item(t, "a", "2024-01-01", "2024-01-02", nil),
		item(t, "b1", "2024-02-01", "2024-02-02", nil),
		item(t, "b2", "2024-02-01", "2024-02-05", nil),
	}

	require.Equal(t, []string{"a", "b1", "b2", "c"}, ids(layout.SortByStart(items)))
	require.Equal(t, "c", items[0].ID)
}
