package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"timelane/layout"
)

func TestScrollOffsetForNow(t *testing.T) {
	span := layout.Span{Years: []int{2024, 2025}, StartMonth: 0}
	// 366 + 365 days at 10px = 7310px, plus a 100px rail.

	tests := []struct {
		name   string
		now    string
		want   float64
		inside bool
	}{
		{name: "centred", now: "2024-04-10", want: 100*10 - (800-100)/2.0, inside: true},
		{name: "clamped to start", now: "2024-01-05", want: 0, inside: true},
		{name: "clamped to end", now: "2025-12-31", want: 7310 + 100 - 800, inside: true},
		{name: "before span", now: "2023-12-31", inside: false},
		{name: "after span", now: "2026-01-01", inside: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := layout.ScrollOffsetForNow(span, 10, 800, 100, date(t, tt.now))
			require.Equal(t, tt.inside, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestScrollOffsetForNow_ViewportWiderThanCanvas(t *testing.T) {
	span := layout.Span{Years: []int{2024}, StartMonth: 11}
	got, ok := layout.ScrollOffsetForNow(span, 1, 5000, 0, date(t, "2024-12-20"))
	require.True(t, ok)
	require.Zero(t, got)
}
