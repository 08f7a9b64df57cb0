package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"timelane/layout"
)

func TestRenderText(t *testing.T) {
	cfg := getDefaultConfig()
	cfg.Columns.GroupBy = "team"
	cfg.Display.TagFields = []FieldConfig{{Field: "status", Type: "tag"}}
	f := testFrame(t, cfg, svgItems(t))

	out := renderText(f, mustDate(t, "2024-07-01"))

	require.Contains(t, out, "Timeline 2024-01 to 2024-12")
	require.Contains(t, out, "zoom Month (8 px/day)")
	require.Contains(t, out, "today 2024-07-01 at x=1616.0")
	require.Contains(t, out, "Platform Infrastructure Team")
	require.Contains(t, out, "2 items, 2 tracks")
	require.Contains(t, out, "[0] 2024-01-01 to 2024-01-31  R&D <core>")
	require.Contains(t, out, "[1] 2024-01-10 to 2024-02-10  Build")
	require.Contains(t, out, "done")
	require.NotContains(t, out, "dropped:")
}

func TestRenderText_Diagnostics(t *testing.T) {
	items := append(svgItems(t), layout.Item{ID: "bad", Start: mustDate(t, "2024-05-02"), End: mustDate(t, "2024-05-01")})
	f := testFrame(t, getDefaultConfig(), items)

	out := renderText(f, mustDate(t, "2030-01-01"))

	require.Contains(t, out, "(ungrouped)")
	require.NotContains(t, out, "today")
	require.Equal(t, 1, strings.Count(out, "dropped: "))
	require.Contains(t, out, "bad")
}
