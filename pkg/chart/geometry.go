package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/hashheat/hashheat/pkg/errors"
)

// Layout holds the drawing constants for one chart instance.
// All coordinates produced by this package are relative to the chart origin
// (top-left of the plot box, padding already applied by the caller).
type Layout struct {
	Width  float64 // plot box width in drawing units
	Height float64 // plot box height in drawing units

	PaddingX float64 // horizontal padding around the plot box
	PaddingY float64 // vertical padding around the plot box

	// BarGapFrac is the fraction of a category slot left empty on each
	// side of a bar. Bars stay centered: bar + 2·gap spans the slot exactly.
	BarGapFrac float64

	// TickCount is the number of tick intervals on the value axis.
	TickCount int
}

// DefaultLayout returns the layout constants shared by the interactive chart
// and the report renderer.
func DefaultLayout() Layout {
	return Layout{
		Width:      600,
		Height:     300,
		PaddingX:   48,
		PaddingY:   32,
		BarGapFrac: 0.2,
		TickCount:  4,
	}
}

// SlotWidth returns the horizontal span of one category slot.
func (l Layout) SlotWidth(categories int) float64 {
	if categories < 1 {
		categories = 1
	}
	return l.Width / float64(categories)
}

// HitTest maps a pointer x-coordinate (relative to the chart origin, padding
// already subtracted) to a category index. The second return is false when
// the position falls outside [0, categories).
func (l Layout) HitTest(x float64, categories int) (int, bool) {
	if categories < 1 || x < 0 {
		return 0, false
	}
	idx := int(math.Floor(x / l.SlotWidth(categories)))
	if idx < 0 || idx >= categories {
		return 0, false
	}
	return idx, true
}

// BarGeom is the drawable rectangle for one category of a bar chart.
type BarGeom struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the bar's category slot.
func (b BarGeom) CenterX() float64 { return b.X + b.Width/2 }

// Point is a single line-chart coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineGeom is the drawable polyline for a series: one point per category in
// category order plus the path descriptor connecting them.
type LineGeom struct {
	Points []Point `json:"points"`
	Path   string  `json:"path"`

	// Current is the index of the highlighted point, or -1 when no point
	// is highlighted.
	Current int `json:"current"`
}

// BuildBars produces one BarGeom per category. Bars are horizontally centered
// in their slot with BarGapFrac of the slot width left empty on each side, so
// no two bars overlap and bar + gaps always equals the slot width.
//
// The y scale is expected to be a LinearDown over the bar axis domain; values
// below the domain floor produce zero-height bars rather than escaping the box.
func BuildBars(series []float64, y Scale, l Layout) []BarGeom {
	n := len(series)
	if n == 0 {
		return nil
	}

	slot := l.SlotWidth(n)
	gap := l.BarGapFrac
	if gap < 0 || gap >= 0.5 {
		gap = 0.2
	}
	barWidth := slot * (1 - 2*gap)

	bars := make([]BarGeom, n)
	for i, v := range series {
		top := y(ClampFinite(v, -math.MaxFloat64, math.MaxFloat64))
		height := l.Height - top
		if height < 0 {
			height = 0
			top = l.Height
		}
		bars[i] = BarGeom{
			Index:  i,
			Value:  v,
			X:      float64(i)*slot + gap*slot,
			Y:      top,
			Width:  barWidth,
			Height: height,
		}
	}
	return bars
}

// BuildLine produces the polyline geometry for a series. The x scale is keyed
// by category index (see CategoryScale); the y scale by value. The path is a
// move-to followed by line-tos in category order, with no smoothing.
//
// current marks the highlighted point; pass -1 (or an out-of-range index) for
// no highlight.
func BuildLine(series []float64, x, y Scale, current int) LineGeom {
	n := len(series)
	if n == 0 {
		return LineGeom{Current: -1}
	}
	if current < 0 || current >= n {
		current = -1
	}

	points := make([]Point, n)
	var path strings.Builder
	for i, v := range series {
		p := Point{X: x(float64(i)), Y: y(ClampFinite(v, -math.MaxFloat64, math.MaxFloat64))}
		points[i] = p
		if i == 0 {
			fmt.Fprintf(&path, "M %s %s", coord(p.X), coord(p.Y))
		} else {
			fmt.Fprintf(&path, " L %s %s", coord(p.X), coord(p.Y))
		}
	}

	return LineGeom{Points: points, Path: path.String(), Current: current}
}

// coord formats a coordinate for a path descriptor. Two decimal places keep
// the output stable across the interactive and report render paths.
func coord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BarChart is the complete drawable description of a single bar chart.
type BarChart struct {
	Layout  Layout    `json:"layout"`
	Labels  []string  `json:"labels,omitempty"`
	Bars    []BarGeom `json:"bars"`
	Ticks   []float64 `json:"ticks"`
	NiceMax float64   `json:"nice_max"`
}

// NewBarChart computes scales, ticks and bar geometry for a series.
// An empty series yields an empty bar list but still a valid fallback axis.
func NewBarChart(series []float64, labels []string, l Layout, mode TickMode) BarChart {
	niceMax := NiceMax(SeriesMax(series), l.TickCount, mode)
	y := LinearDown(0, niceMax, l.Height)
	return BarChart{
		Layout:  l,
		Labels:  labels,
		Bars:    BuildBars(series, y, l),
		Ticks:   NiceTicks(SeriesMax(series), l.TickCount, mode),
		NiceMax: niceMax,
	}
}

// LineChart is the complete drawable description of a single line chart with
// an optional highlighted current point.
type LineChart struct {
	Layout  Layout    `json:"layout"`
	Labels  []string  `json:"labels,omitempty"`
	Line    LineGeom  `json:"line"`
	Ticks   []float64 `json:"ticks"`
	NiceMax float64   `json:"nice_max"`
	Min     float64   `json:"min"`
}

// NewLineChart computes scales, ticks and polyline geometry for a series.
// The y domain is anchored at zero unless the series dips negative, so loss
// scenarios render below the zero gridline instead of clipping.
func NewLineChart(series []float64, labels []string, l Layout, mode TickMode, current int) LineChart {
	niceMax := NiceMax(SeriesMax(series), l.TickCount, mode)
	min := SeriesMin(series)
	x := CategoryScale(len(series), l.Width)
	y := LinearDown(min, niceMax, l.Height)
	return LineChart{
		Layout:  l,
		Labels:  labels,
		Line:    BuildLine(series, x, y, current),
		Ticks:   NiceTicks(SeriesMax(series), l.TickCount, mode),
		NiceMax: niceMax,
		Min:     min,
	}
}

// DualChart combines currency bars (left axis) and an energy or revenue line
// (right axis) over one shared category axis. The two value domains and nice
// maxes are independent but both map onto the same chart height, so the
// shapes stay visually comparable despite different units.
type DualChart struct {
	Layout     Layout    `json:"layout"`
	Labels     []string  `json:"labels,omitempty"`
	Bars       []BarGeom `json:"bars"`
	Line       LineGeom  `json:"line"`
	LeftTicks  []float64 `json:"left_ticks"`
	RightTicks []float64 `json:"right_ticks"`
	LeftMax    float64   `json:"left_max"`
	RightMax   float64   `json:"right_max"`
}

// NewDualChart builds the composite bar+line chart. Both series must have the
// same category count; bar x-centers and line x-positions coincide per index.
func NewDualChart(barSeries, lineSeries []float64, labels []string, l Layout, barMode, lineMode TickMode) (DualChart, error) {
	if len(barSeries) != len(lineSeries) {
		return DualChart{}, errors.New(errors.ErrCodeInvalidSeries,
			"dual-axis series length mismatch: %d bars vs %d line points", len(barSeries), len(lineSeries))
	}

	leftMax := NiceMax(SeriesMax(barSeries), l.TickCount, barMode)
	rightMax := NiceMax(SeriesMax(lineSeries), l.TickCount, lineMode)

	barY := LinearDown(0, leftMax, l.Height)
	lineY := LinearDown(0, rightMax, l.Height)
	lineX := CategoryScale(len(lineSeries), l.Width)

	return DualChart{
		Layout:     l,
		Labels:     labels,
		Bars:       BuildBars(barSeries, barY, l),
		Line:       BuildLine(lineSeries, lineX, lineY, -1),
		LeftTicks:  NiceTicks(SeriesMax(barSeries), l.TickCount, barMode),
		RightTicks: NiceTicks(SeriesMax(lineSeries), l.TickCount, lineMode),
		LeftMax:    leftMax,
		RightMax:   rightMax,
	}, nil
}
