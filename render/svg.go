package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"car-dashboard/models"
)

// Canvas geometry shared by every chart.
const (
	svgWidth   = 800
	svgHeight  = 500
	svgPadLeft = 90
	svgPadTop  = 50
	svgPadBot  = 90
	svgPadRite = 30
)

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// WriteSVG renders c as a standalone SVG document. Every point becomes exactly
// one mark: a rect for bars, a circle for scatter, a path for pie slices.
func WriteSVG(w io.Writer, c models.Chart) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")
	fmt.Fprintf(&b, `<text class="title" x="%d" y="28" text-anchor="middle" font-size="18">%s</text>`+"\n",
		svgWidth/2, esc(c.Title))

	if len(c.Points) == 0 {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-size="14" fill="#777">No data</text>`+"\n",
			svgWidth/2, svgHeight/2)
	} else {
		switch c.Kind {
		case models.ChartBar:
			barMarks(&b, c)
		case models.ChartScatter:
			scatterMarks(&b, c)
		case models.ChartPie:
			pieMarks(&b, c)
		default:
			return fmt.Errorf("svg: unsupported chart kind %q", c.Kind)
		}
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHTML wraps the SVG in a minimal page for the headless browser.
func WriteHTML(w io.Writer, c models.Chart) error {
	var svg strings.Builder
	if err := WriteSVG(&svg, c); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title>"+
		"<style>body{margin:0}</style></head><body>\n%s</body></html>\n", esc(c.Title), svg.String())
	return err
}

func plotArea() (x0, y0, w, h float64) {
	return svgPadLeft, svgPadTop, svgWidth - svgPadLeft - svgPadRite, svgHeight - svgPadTop - svgPadBot
}

func axes(b *strings.Builder, c models.Chart) {
	x0, y0, w, h := plotArea()
	fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n", x0, y0+h, x0+w, y0+h)
	fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n", x0, y0, x0, y0+h)
	if c.XLabel != "" {
		fmt.Fprintf(b, `<text x="%.1f" y="%d" text-anchor="middle" font-size="13">%s</text>`+"\n",
			x0+w/2, svgHeight-12, esc(c.XLabel))
	}
	if c.YLabel != "" {
		fmt.Fprintf(b, `<text x="18" y="%.1f" text-anchor="middle" font-size="13" transform="rotate(-90 18 %.1f)">%s</text>`+"\n",
			y0+h/2, y0+h/2, esc(c.YLabel))
	}
}

func barMarks(b *strings.Builder, c models.Chart) {
	x0, y0, w, h := plotArea()
	axes(b, c)

	max := 0.0
	for _, p := range c.Points {
		max = math.Max(max, p.Y)
	}
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n",
		x0-6, y0+4, FormatNumber(max))

	slot := w / float64(len(c.Points))
	bw := slot * 0.7
	for i, p := range c.Points {
		bh := 0.0
		if max > 0 {
			bh = p.Y / max * h
		}
		x := x0 + float64(i)*slot + (slot-bw)/2
		fmt.Fprintf(b, `<rect class="mark" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %s</title></rect>`+"\n",
			x, y0+h-bh, bw, bh, palette[0], esc(p.Label), FormatNumber(p.Y))
		lx := x + bw/2
		ly := y0 + h + 14
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="end" transform="rotate(-45 %.1f %.1f)">%s</text>`+"\n",
			lx, ly, lx, ly, esc(p.Label))
	}
}

func scatterMarks(b *strings.Builder, c models.Chart) {
	x0, y0, w, h := plotArea()
	axes(b, c)

	minX, maxX := c.Points[0].X, c.Points[0].X
	minY, maxY := c.Points[0].Y, c.Points[0].Y
	for _, p := range c.Points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	scale := func(v, lo, hi, span float64) float64 {
		if hi == lo {
			return span / 2
		}
		return (v - lo) / (hi - lo) * span
	}

	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n", x0-6, y0+4, FormatNumber(maxY))
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n", x0-6, y0+h, FormatNumber(minY))
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="start" font-size="11">%s</text>`+"\n", x0, y0+h+16, FormatNumber(minX))
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n", x0+w, y0+h+16, FormatNumber(maxX))

	for _, p := range c.Points {
		cx := x0 + scale(p.X, minX, maxX, w)
		cy := y0 + h - scale(p.Y, minY, maxY, h)
		fmt.Fprintf(b, `<circle class="mark" cx="%.1f" cy="%.1f" r="3.5" fill="%s" fill-opacity="0.7"><title>%s, %s</title></circle>`+"\n",
			cx, cy, palette[0], FormatNumber(p.X), FormatNumber(p.Y))
	}
}

func pieMarks(b *strings.Builder, c models.Chart) {
	const r = 170.0
	cx, cy := float64(svgWidth)/2-100, float64(svgHeight)/2+15

	shares := Shares(c.Points)
	angle := -math.Pi / 2
	for i, p := range c.Points {
		color := palette[i%len(palette)]
		sweep := shares[i] * 2 * math.Pi
		var d string
		if shares[i] >= 0.9999 {
			// A full circle cannot be drawn with a single arc.
			d = fmt.Sprintf("M %.2f %.2f m -%.2f 0 a %.2f %.2f 0 1 0 %.2f 0 a %.2f %.2f 0 1 0 -%.2f 0 Z",
				cx, cy, r, r, r, 2*r, r, r, 2*r)
		} else {
			x1, y1 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
			x2, y2 := cx+r*math.Cos(angle+sweep), cy+r*math.Sin(angle+sweep)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			d = fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
				cx, cy, x1, y1, r, r, large, x2, y2)
		}
		fmt.Fprintf(b, `<path class="mark" d="%s" fill="%s" stroke="#fff"><title>%s: %.1f%%</title></path>`+"\n",
			d, color, esc(p.Label), shares[i]*100)
		angle += sweep

		ly := svgPadTop + 20 + i*22
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="14" height="14" fill="%s"/>`+"\n", svgWidth-230, ly, color)
		fmt.Fprintf(b, `<text x="%d" y="%d" font-size="13">%s (%.1f%%)</text>`+"\n",
			svgWidth-210, ly+12, esc(p.Label), shares[i]*100)
	}
}

func esc(s string) string {
	return html.EscapeString(s)
}
