package layout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timelane/layout"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func item(t *testing.T, id, start, end string, fields map[string]any) layout.Item {
	t.Helper()
	return layout.Item{ID: id, Name: "Item " + id, Start: date(t, start), End: date(t, end), Fields: fields}
}

func columns(ps []layout.Placement) map[string]int {
	out := make(map[string]int, len(ps))
	for _, p := range ps {
		out[p.Item.ID] = p.Column
	}
	return out
}
