// Package render draws dashboard views as SVG documents and terminal text.
package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	"github.com/Aebel-Shajan/activity-tracker/internal/dashboard"
)

const (
	timelineBarHeight = 40
	timelineAxisGap   = 8
	timelineLabelRow  = 16
	fontFamily        = "sans-serif"
)

// SVG renders heatmap and timeline views as standalone SVG documents.
type SVG struct {
	// Background fills the canvas. Empty leaves it transparent.
	Background string
	// TextColor is used for month and hour labels.
	TextColor string
}

// NewSVG returns an SVG renderer with the dark dashboard colors.
func NewSVG() *SVG {
	return &SVG{Background: "#282828", TextColor: "#ebdbb2"}
}

var _ dashboard.Renderer = (*SVG)(nil)

// Heatmap draws one circle per day plus the month labels.
func (s *SVG) Heatmap(w io.Writer, view *dashboard.HeatmapView) error {
	if view == nil {
		return fmt.Errorf("render heatmap: nil view")
	}

	sw := &svgWriter{w: w}
	sw.open(view.Width, view.Height)
	s.background(sw, view.Width, view.Height)

	sw.printf(`<g font-family="%s" font-size="%s" fill="%s">`+"\n",
		fontFamily, num(view.Layout.Radius*1.6), escape(s.TextColor))
	for _, m := range view.Months {
		sw.printf(`<text x="%s" y="%s">%s</text>`+"\n", num(m.X), num(m.Y), escape(m.Label))
	}
	sw.printf("</g>\n")

	sw.printf("<g>\n")
	for _, c := range view.Cells {
		title := c.Date.String()
		if c.Duration != "" {
			title += ": " + c.Duration
		}
		sw.printf(`<circle cx="%s" cy="%s" r="%s" fill="%s"><title>%s</title></circle>`+"\n",
			num(c.X), num(c.Y), num(view.Layout.Radius), escape(c.Color), escape(title))
	}
	sw.printf("</g>\n")

	sw.close()
	if sw.err != nil {
		return fmt.Errorf("render heatmap: %w", sw.err)
	}
	return nil
}

// Timeline draws one bar per session on a single 24-hour row with hour
// markers underneath. Bars are drawn in view order.
func (s *SVG) Timeline(w io.Writer, view *dashboard.TimelineView) error {
	if view == nil {
		return fmt.Errorf("render timeline: nil view")
	}

	height := float64(timelineBarHeight + timelineAxisGap + timelineLabelRow)
	sw := &svgWriter{w: w}
	sw.open(view.Width, height)
	s.background(sw, view.Width, height)

	sw.printf("<g>\n")
	for _, b := range view.Bars {
		sw.printf(`<rect x="%s" y="0" width="%s" height="%d" fill="%s"><title>%s</title></rect>`+"\n",
			num(b.X), num(b.Width), timelineBarHeight, escape(b.Color),
			escape(fmt.Sprintf("%s %s-%s (%s)", displayName(b.Name, b.App), b.Start, b.End, b.Duration)))
	}
	sw.printf("</g>\n")

	sw.printf(`<g font-family="%s" font-size="10" fill="%s" stroke="%s">`+"\n",
		fontFamily, escape(s.TextColor), escape(s.TextColor))
	labelY := timelineBarHeight + timelineAxisGap + timelineLabelRow - 4
	for _, h := range view.Hours {
		sw.printf(`<line x1="%s" y1="%d" x2="%s" y2="%d" stroke-width="0.5"/>`+"\n",
			num(h.X), timelineBarHeight, num(h.X), timelineBarHeight+timelineAxisGap/2)
		// Every third hour keeps the labels readable at the default width.
		if h.Hour%3 == 0 {
			sw.printf(`<text x="%s" y="%d" stroke="none">%s</text>`+"\n", num(h.X), labelY, escape(h.Label))
		}
	}
	sw.printf("</g>\n")

	sw.close()
	if sw.err != nil {
		return fmt.Errorf("render timeline: %w", sw.err)
	}
	return nil
}

func (s *SVG) background(sw *svgWriter, width, height float64) {
	if s.Background == "" {
		return
	}
	sw.printf(`<rect width="%s" height="%s" fill="%s"/>`+"\n", num(width), num(height), escape(s.Background))
}

// svgWriter keeps the first write error so drawing code can stay linear.
type svgWriter struct {
	w   io.Writer
	err error
}

func (sw *svgWriter) printf(format string, args ...interface{}) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

func (sw *svgWriter) open(width, height float64) {
	sw.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(width), num(height), num(width), num(height))
}

func (sw *svgWriter) close() {
	sw.printf("</svg>\n")
}

// num formats a coordinate with at most two decimals and no exponent.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func displayName(name, app string) string {
	if name == "" {
		return app
	}
	return name
}
