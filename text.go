package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timelane/layout"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderText prints a frame as one line per placement with its track and
// pixel position, grouped under the group titles.
func renderText(f *layout.Frame, now time.Time) string {
	geo := f.Geometry
	var b strings.Builder

	years := f.Span.Years
	header := fmt.Sprintf("Timeline %d-%02d to %d-12 | zoom %s (%g px/day) | %dx%d px",
		years[0], f.Span.StartMonth+1, years[len(years)-1],
		f.Zoom.Label, geo.DayWidth(), geo.TotalWidth(), geo.TotalHeight())
	b.WriteString(headerStyle.Render(header) + "\n")

	if f.Span.ContainsYear(now) {
		x := float64(geo.RailWidth()) + geo.XOffset(now)
		b.WriteString(dimStyle.Render(fmt.Sprintf("today %s at x=%.1f", now.Format(time.DateOnly), x)) + "\n")
	}

	for gi, g := range f.Groups {
		title := g.Title
		if title == "" {
			title = "(ungrouped)"
		}
		b.WriteString("\n" + groupStyle.Render(title) + dimStyle.Render(fmt.Sprintf(" %d items, %d tracks", len(g.Placements), g.Tracks)) + "\n")

		for _, p := range g.Placements {
			x, w := geo.Extent(p.Start, p.End)
			line := fmt.Sprintf("  [%d] %s to %s  %s", p.Column,
				p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly), itemLabel(p.Item))
			pos := fmt.Sprintf("  x=%.1f w=%.1f y=%d", x+float64(geo.RailWidth()), w, geo.YOffset(gi, p.Column))
			b.WriteString(line + tagsText(f.Display, p.Item) + dimStyle.Render(pos) + "\n")
		}
	}

	if len(f.Diagnostics) > 0 {
		b.WriteString("\n")
		for _, d := range f.Diagnostics {
			b.WriteString(warnStyle.Render("dropped: "+d.Error()) + "\n")
		}
	}

	return b.String()
}

func itemLabel(it layout.Item) string {
	if it.Name != "" {
		return it.Name
	}
	return it.ID
}

// tagsText renders the tag and progress fields of it as styled badges.
func tagsText(d layout.DisplayConfig, it layout.Item) string {
	var parts []string
	for _, fd := range d.GraphicFields {
		vis, ok := fd.Resolve(it)
		if !ok || fd.Type != layout.DisplayProgress {
			continue
		}
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%.0f%%", vis.Value)))
	}
	for _, fd := range d.TagFields {
		vis, ok := fd.Resolve(it)
		if !ok || vis.Text == "" {
			continue
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if vis.Variant == "outlined" {
			style = style.Foreground(lipgloss.Color(vis.Color))
		} else {
			style = style.Background(lipgloss.Color(vis.Color)).Foreground(lipgloss.Color("#ffffff"))
		}
		parts = append(parts, style.Render(vis.Text))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
