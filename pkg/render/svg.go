// Package render turns chart geometry and ranking results into static
// artifacts. The SVG sink consumes pkg/chart geometry verbatim, so a chart
// exported here matches the interactive view coordinate for coordinate.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/report"
)

// Palette holds the fill and stroke colors for one rendering.
type Palette struct {
	Background string
	Bar        string
	Line       string
	Axis       string
	Grid       string
	Text       string
	Highlight  string
	UserRow    string
}

// DefaultPalette is the house style: warm bars, dark line, muted grid.
func DefaultPalette() Palette {
	return Palette{
		Background: "#ffffff",
		Bar:        "#f7931a",
		Line:       "#1a3a5c",
		Axis:       "#333333",
		Grid:       "#dddddd",
		Text:       "#333333",
		Highlight:  "#d9534f",
		UserRow:    "#fdf0dd",
	}
}

const (
	fontFamily = `'Helvetica Neue', Arial, sans-serif`

	axisFontSize  = 11.0
	labelFontSize = 12.0
	titleFontSize = 16.0

	rankingRowHeight = 24.0
	rankingHeaderY   = 32.0
	pointRadius      = 3.5
	highlightRadius  = 5.5
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title     string
	palette   Palette
	formatter func(float64) string
	ranking   []ranking.Entry
	position  string
}

// WithTitle draws a title above the chart.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithPalette overrides the default colors.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithTickFormatter overrides how axis tick values are printed.
func WithTickFormatter(f func(float64) string) SVGOption {
	return func(r *svgRenderer) { r.formatter = f }
}

// WithRankingPanel appends a windowed ranking table below the chart, with the
// user's row highlighted.
func WithRankingPanel(rows []ranking.Entry, position string) SVGOption {
	return func(r *svgRenderer) { r.ranking = rows; r.position = position }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		palette:   DefaultPalette(),
		formatter: func(v float64) string { return report.FormatValue(v, 0) },
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// BarSVG renders a bar chart.
func BarSVG(c chart.BarChart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	var buf bytes.Buffer

	r.open(&buf, c.Layout)
	r.gridlines(&buf, c.Layout, c.Ticks, c.NiceMax, false)
	r.bars(&buf, c.Layout, c.Bars)
	r.categoryLabels(&buf, c.Layout, c.Labels)
	r.frame(&buf, c.Layout)
	r.close(&buf, c.Layout)
	return buf.Bytes()
}

// LineSVG renders a line chart with its optional highlighted point.
func LineSVG(c chart.LineChart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	var buf bytes.Buffer

	r.open(&buf, c.Layout)
	r.gridlines(&buf, c.Layout, c.Ticks, c.NiceMax, false)
	r.line(&buf, c.Layout, c.Line)
	r.categoryLabels(&buf, c.Layout, c.Labels)
	r.frame(&buf, c.Layout)
	r.close(&buf, c.Layout)
	return buf.Bytes()
}

// DualSVG renders the composite bar+line chart with ticks on both sides.
func DualSVG(c chart.DualChart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	var buf bytes.Buffer

	r.open(&buf, c.Layout)
	r.gridlines(&buf, c.Layout, c.LeftTicks, c.LeftMax, false)
	r.gridlines(&buf, c.Layout, c.RightTicks, c.RightMax, true)
	r.bars(&buf, c.Layout, c.Bars)
	r.line(&buf, c.Layout, c.Line)
	r.categoryLabels(&buf, c.Layout, c.Labels)
	r.frame(&buf, c.Layout)
	r.close(&buf, c.Layout)
	return buf.Bytes()
}

func (r *svgRenderer) totalHeight(l chart.Layout) float64 {
	h := l.Height + 2*l.PaddingY
	if len(r.ranking) > 0 {
		h += rankingHeaderY + float64(len(r.ranking))*rankingRowHeight + l.PaddingY
	}
	return h
}

func (r *svgRenderer) open(buf *bytes.Buffer, l chart.Layout) {
	w := l.Width + 2*l.PaddingX
	h := r.totalHeight(l)
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(buf, `<rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, r.palette.Background)

	if r.title != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			w/2, l.PaddingY*0.6, fontFamily, titleFontSize, r.palette.Text, html.EscapeString(r.title))
	}
}

func (r *svgRenderer) close(buf *bytes.Buffer, l chart.Layout) {
	if len(r.ranking) > 0 {
		r.rankingPanel(buf, l)
	}
	buf.WriteString("</svg>\n")
}

// gridlines draws one horizontal line per tick with its label on the left
// (or right for the secondary axis of a dual chart).
func (r *svgRenderer) gridlines(buf *bytes.Buffer, l chart.Layout, ticks []float64, niceMax float64, right bool) {
	if niceMax <= 0 {
		return
	}
	for _, tick := range ticks {
		y := l.PaddingY + l.Height - tick/niceMax*l.Height

		if !right {
			fmt.Fprintf(buf, `<line x1="%.1f" y1="%.2f" x2="%.1f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
				l.PaddingX, y, l.PaddingX+l.Width, y, r.palette.Grid)
			fmt.Fprintf(buf, `<text x="%.1f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
				l.PaddingX-6, y, fontFamily, axisFontSize, r.palette.Text, html.EscapeString(r.formatter(tick)))
			continue
		}
		fmt.Fprintf(buf, `<text x="%.1f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="start" dominant-baseline="middle">%s</text>`+"\n",
			l.PaddingX+l.Width+6, y, fontFamily, axisFontSize, r.palette.Text, html.EscapeString(r.formatter(tick)))
	}
}

func (r *svgRenderer) bars(buf *bytes.Buffer, l chart.Layout, bars []chart.BarGeom) {
	for _, b := range bars {
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			l.PaddingX+b.X, l.PaddingY+b.Y, b.Width, b.Height, r.palette.Bar)
	}
}

// line draws the polyline inside a translated group, so the path descriptor
// stays byte-identical to what the interactive chart consumes.
func (r *svgRenderer) line(buf *bytes.Buffer, l chart.Layout, line chart.LineGeom) {
	if len(line.Points) == 0 {
		return
	}
	fmt.Fprintf(buf, `<g transform="translate(%.1f,%.1f)">`+"\n", l.PaddingX, l.PaddingY)
	fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n", line.Path, r.palette.Line)

	for i, p := range line.Points {
		if i == line.Current {
			fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", p.X, p.Y, highlightRadius, r.palette.Highlight)
			continue
		}
		fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", p.X, p.Y, pointRadius, r.palette.Line)
	}
	buf.WriteString("</g>\n")
}

func (r *svgRenderer) categoryLabels(buf *bytes.Buffer, l chart.Layout, labels []string) {
	if len(labels) == 0 {
		return
	}
	x := chart.CategoryScale(len(labels), l.Width)
	for i, label := range labels {
		fmt.Fprintf(buf, `<text x="%.2f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			l.PaddingX+x(float64(i)), l.PaddingY+l.Height+16, fontFamily, axisFontSize, r.palette.Text, html.EscapeString(label))
	}
}

func (r *svgRenderer) frame(buf *bytes.Buffer, l chart.Layout) {
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		l.PaddingX, l.PaddingY+l.Height, l.PaddingX+l.Width, l.PaddingY+l.Height, r.palette.Axis)
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		l.PaddingX, l.PaddingY, l.PaddingX, l.PaddingY+l.Height, r.palette.Axis)
}

// rankingPanel draws the windowed ranking table below the plot box. The user
// row gets a tinted background and bold text.
func (r *svgRenderer) rankingPanel(buf *bytes.Buffer, l chart.Layout) {
	top := l.PaddingY*2 + l.Height
	width := l.Width + 2*l.PaddingX

	fmt.Fprintf(buf, `<text x="%.1f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		l.PaddingX, top+20, fontFamily, labelFontSize, r.palette.Text, html.EscapeString(r.position))

	for i, row := range r.ranking {
		y := top + rankingHeaderY + float64(i)*rankingRowHeight

		if row.Region.IsUser {
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.2f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				l.PaddingX/2, y-rankingRowHeight*0.7, width-l.PaddingX, rankingRowHeight, r.palette.UserRow)
		}

		weight := "normal"
		if row.Region.IsUser {
			weight = "bold"
		}
		fmt.Fprintf(buf, `<text x="%.1f" y="%.2f" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s">#%d %s</text>`+"\n",
			l.PaddingX, y, fontFamily, labelFontSize, weight, r.palette.Text, row.Rank, html.EscapeString(row.Region.Name))
		fmt.Fprintf(buf, `<text x="%.1f" y="%.2f" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s" text-anchor="end">%s</text>`+"\n",
			l.PaddingX+l.Width, y, fontFamily, labelFontSize, weight, r.palette.Text, html.EscapeString(r.formatter(row.Region.Value)))
	}
}
