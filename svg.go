package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"timelane/layout"
)

// minLabelWidth is the narrowest bar or month cell that still gets a label.
const minLabelWidth = 24

// generateSVG draws a frame: the year/month ruler on top, group titles in
// the side rail, one bar per placement and a marker for now when it falls
// inside the span.
func generateSVG(f *layout.Frame, cfg Config, now time.Time) string {
	geo := f.Geometry
	top := cfg.Layout.RulerHeight
	rail := float64(geo.RailWidth())
	width := geo.TotalWidth()
	height := top + geo.TotalHeight()

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" data-zoom="%s" data-day-width="%g"`,
		width, height, escapeXML(f.Zoom.Key()), geo.DayWidth())
	if offset, ok := f.ScrollOffsetForNow(cfg.Layout.ViewportWidth, now); ok {
		fmt.Fprintf(&svg, ` data-scroll-now="%.1f"`, offset)
	}
	fmt.Fprintf(&svg, `>
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.year-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.month-text { font-family: %s; font-size: %dpx; fill: %s; }
.group-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.bar-text { font-family: %s; font-size: %dpx; fill: #ffffff; }
.tag-text { font-family: %s; font-size: %dpx; }
</style>
</defs>
`, cfg.Colors.Background,
		cfg.Font.Family, cfg.Font.Size+1, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size-2, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size-1,
		cfg.Font.Family, cfg.Font.Size-2)

	drawRuler(&svg, f, cfg, height)
	if geo.RailWidth() > 0 {
		drawRail(&svg, f, cfg)
	}
	for gi, g := range f.Groups {
		for _, p := range g.Placements {
			drawBar(&svg, f, gi, p, cfg)
		}
	}

	if f.Span.ContainsYear(now) {
		x := int(rail + geo.XOffset(now))
		fmt.Fprintf(&svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1" stroke-dasharray="4,3"/>`+"\n",
			x, top, x, height, cfg.Colors.Today)
		drawTodayMarker(&svg, x, top, cfg)
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// drawRuler writes one cell per month with the year over its first month,
// and a vertical separator running down the whole canvas.
func drawRuler(svg *strings.Builder, f *layout.Frame, cfg Config, height int) {
	geo := f.Geometry
	rail := float64(geo.RailWidth())
	top := cfg.Layout.RulerHeight
	yearY := top/2 - 4
	monthY := top - 6

	for i, m := range f.Span.Months() {
		x := rail + float64(m.Offset)*geo.DayWidth()
		w := float64(m.Days) * geo.DayWidth()

		fmt.Fprintf(svg, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			x, top/2, x, height, cfg.Colors.Grid)

		if i == 0 || m.Month == time.January {
			fmt.Fprintf(svg, `<text x="%.1f" y="%d" class="year-text">%d</text>`+"\n", x+3, yearY, m.Year)
		}
		label := m.Month.String()[:3]
		if w >= float64(estimateTextWidth(label, cfg.Font.Size-2)) && w >= minLabelWidth {
			fmt.Fprintf(svg, `<text x="%.1f" y="%d" class="month-text">%s</text>`+"\n", x+3, monthY, label)
		}
	}

	fmt.Fprintf(svg, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		top, geo.TotalWidth(), top, cfg.Colors.Grid)
}

// drawRail fills the title column and rules off every group band.
func drawRail(svg *strings.Builder, f *layout.Frame, cfg Config) {
	geo := f.Geometry
	top := cfg.Layout.RulerHeight
	lineHeight := cfg.Font.Size + 3

	charWidth := float64(cfg.Font.Size) * 0.6
	limit := max(1, int(float64(geo.RailWidth()-16)/charWidth))

	for i, g := range f.Groups {
		y := top + geo.GroupTop(i)
		fmt.Fprintf(svg, `<rect x="0" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			y, geo.RailWidth(), geo.GroupHeight(i), cfg.Colors.Rail)
		fmt.Fprintf(svg, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			y, geo.TotalWidth(), y, cfg.Colors.Grid)

		if g.Title == "" {
			continue
		}
		lines := strings.Split(wordwrap.String(g.Title, limit), "\n")
		textY := y + cfg.Layout.GroupGap + cfg.Font.Size
		fmt.Fprintf(svg, `<text x="8" y="%d" class="group-text">`, textY)
		for j, line := range lines {
			dy := 0
			if j > 0 {
				dy = lineHeight
			}
			fmt.Fprintf(svg, `<tspan x="8" dy="%d">%s</tspan>`, dy, escapeXML(line))
		}
		svg.WriteString("</text>\n")
	}
}

// drawBar draws one placed item with its graphic and tag decorations.
func drawBar(svg *strings.Builder, f *layout.Frame, group int, p layout.Placement, cfg Config) {
	geo := f.Geometry
	pad := cfg.Layout.BarPadding
	x, w := geo.Extent(p.Start, p.End)
	x += float64(geo.RailWidth())
	y := cfg.Layout.RulerHeight + geo.YOffset(group, p.Column) + pad
	h := max(1, geo.CellHeight()-2*pad)

	fmt.Fprintf(svg, `<g data-id="%s">`+"\n", escapeXML(p.Item.ID))
	fmt.Fprintf(svg, `<rect x="%.1f" y="%d" width="%.1f" height="%d" rx="3" fill="%s"><title>%s</title></rect>`+"\n",
		x, y, w, h, cfg.Colors.Bars, escapeXML(barTooltip(p)))

	labelX := x + 4
	for _, fd := range f.Display.GraphicFields {
		vis, ok := fd.Resolve(p.Item)
		if !ok {
			continue
		}
		switch fd.Type {
		case layout.DisplayProgress:
			fill := vis.Color
			if fill == "" {
				fill = "#000000"
			}
			fmt.Fprintf(svg, `<rect x="%.1f" y="%d" width="%.1f" height="%d" rx="3" fill="%s" fill-opacity="0.3"/>`+"\n",
				x, y, w*vis.Value/100, h, fill)
			if vis.ShowText {
				text := fmt.Sprintf("%.0f%%", vis.Value)
				fmt.Fprintf(svg, `<text x="%.1f" y="%d" text-anchor="end" class="bar-text">%s</text>`+"\n",
					x+w-4, y+h/2+4, text)
			}
		case layout.DisplayIcon:
			r := max(2, h/4)
			fmt.Fprintf(svg, `<circle cx="%.1f" cy="%d" r="%d" fill="%s"><title>%s</title></circle>`+"\n",
				labelX+float64(r), y+h/2, r, vis.Color, escapeXML(iconTitle(vis)))
			labelX += float64(2*r + 4)
		}
	}

	if w-(labelX-x) >= float64(estimateTextWidth(p.Item.Name, cfg.Font.Size-1)) {
		fmt.Fprintf(svg, `<text x="%.1f" y="%d" class="bar-text">%s</text>`+"\n",
			labelX, y+h/2+4, escapeXML(p.Item.Name))
	}

	tagX := x + w + 4
	for _, fd := range f.Display.TagFields {
		vis, ok := fd.Resolve(p.Item)
		if !ok || vis.Text == "" {
			continue
		}
		tagX += drawTag(svg, tagX, y, h, vis, cfg)
	}

	svg.WriteString("</g>\n")
}

// drawTag draws a pill after the bar and returns the horizontal space used.
func drawTag(svg *strings.Builder, x float64, y, h int, vis layout.Visual, cfg Config) float64 {
	color := vis.Color
	if color == "" {
		color = "gray"
	}
	w := float64(estimateTextWidth(vis.Text, cfg.Font.Size-2) + 8)

	fill, stroke, text := color, color, "#ffffff"
	if vis.Variant == "outlined" {
		fill, text = "none", color
	}
	fmt.Fprintf(svg, `<rect x="%.1f" y="%d" width="%.1f" height="%d" rx="%d" fill="%s" stroke="%s"/>`+"\n",
		x, y+2, w, h-4, (h-4)/2, fill, stroke)
	fmt.Fprintf(svg, `<text x="%.1f" y="%d" class="tag-text" fill="%s">%s</text>`+"\n",
		x+4, y+h/2+3, text, escapeXML(vis.Text))

	return w + 4
}

func barTooltip(p layout.Placement) string {
	name := p.Item.Name
	if name == "" {
		name = p.Item.ID
	}
	return fmt.Sprintf("%s (%s to %s)", name, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

func iconTitle(vis layout.Visual) string {
	if vis.Text != "" {
		return vis.Text
	}
	return vis.Icon
}

// estimateTextWidth estimates the width of text in pixels based on character count
func estimateTextWidth(text string, fontSize int) int {
	// Rough estimation: average character width is about 0.6 * font size
	avgCharWidth := float64(fontSize) * 0.6
	return int(float64(len([]rune(text))) * avgCharWidth)
}

// escapeXML replaces the five XML special characters with entity references.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// drawTodayMarker draws the configured marker shape centred on (x, y).
// Unknown shapes fall back to a circle.
func drawTodayMarker(svg *strings.Builder, x, y int, cfg Config) {
	m := cfg.TodayMarker
	size := m.Size

	switch strings.ToLower(m.Shape) {
	case "square":
		fmt.Fprintf(svg, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x-size, y-size, size*2, size*2, m.FillColor, m.StrokeColor, m.StrokeWidth)

	case "diamond":
		fmt.Fprintf(svg, `<polygon points="%d,%d %d,%d %d,%d %d,%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y-size,
			x+size, y,
			x, y+size,
			x-size, y,
			m.FillColor, m.StrokeColor, m.StrokeWidth)

	case "triangle":
		// Points down at the ruler edge.
		height := int(float64(size) * 1.5)
		fmt.Fprintf(svg, `<polygon points="%d,%d %d,%d %d,%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y,
			x-size, y-height,
			x+size, y-height,
			m.FillColor, m.StrokeColor, m.StrokeWidth)

	default:
		fmt.Fprintf(svg, `<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y, size, m.FillColor, m.StrokeColor, m.StrokeWidth)
	}
	svg.WriteString("\n")
}
