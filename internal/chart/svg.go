package chart

import (
	"fmt"
	"html"
	"strings"
)

// RenderSVG draws a scene as a standalone SVG document.
func RenderSVG(s *Scene) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(s.Width), num(s.Height), num(s.Width), num(s.Height)))
	b.WriteString("\n")

	bottom := s.Height - s.Margins.Bottom
	left := s.Margins.Left

	// Axes
	b.WriteString(`<g class="y-axis" font-size="10" text-anchor="end">`)
	b.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="currentColor"/>`,
		num(left), num(s.Margins.Top), num(left), num(bottom)))
	for _, t := range s.YTicks {
		b.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="currentColor"/>`,
			num(left-6), num(t.Pos), num(left), num(t.Pos)))
		b.WriteString(fmt.Sprintf(`<text x="%s" y="%s" dy="0.32em">%s</text>`,
			num(left-9), num(t.Pos), html.EscapeString(t.Label)))
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="x-axis" font-size="10" text-anchor="middle">`)
	b.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="currentColor"/>`,
		num(left), num(bottom), num(s.Width-s.Margins.Right), num(bottom)))
	for _, t := range s.XTicks {
		b.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="currentColor"/>`,
			num(t.Pos), num(bottom), num(t.Pos), num(bottom+6)))
		b.WriteString(fmt.Sprintf(`<text x="%s" y="%s" dy="0.71em">%s</text>`,
			num(t.Pos), num(bottom+9), html.EscapeString(t.Label)))
	}
	b.WriteString("</g>\n")

	// Wicks first so bodies sit on top.
	b.WriteString(`<g class="wicks" stroke="black">`)
	for _, w := range s.Wicks {
		b.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`,
			num(w.X), num(w.High), num(w.X), num(w.Low)))
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="candles">`)
	for _, bar := range s.Bars {
		b.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"><title>%s</title></rect>`,
			num(bar.X), num(bar.Y), num(bar.Width), num(bar.Height),
			html.EscapeString(bar.Fill), bar.Date.Format("2006-01-02")))
	}
	b.WriteString("</g>\n")

	if s.Segments() > 0 {
		pts := make([]string, len(s.SMA))
		for i, p := range s.SMA {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		b.WriteString(fmt.Sprintf(`<path class="sma" fill="none" stroke="%s" stroke-width="1.5" d="M%s"/>`,
			html.EscapeString(s.SMAColor), strings.Join(pts, "L")))
		b.WriteString("\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
