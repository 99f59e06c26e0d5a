package pipeline

import (
	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/report"
)

// Geometry is the built chart for one pipeline run. Exactly the field
// matching ChartType is set.
type Geometry struct {
	ChartType string           `json:"chart_type"`
	Bar       *chart.BarChart  `json:"bar,omitempty"`
	Line      *chart.LineChart `json:"line,omitempty"`
	Dual      *chart.DualChart `json:"dual,omitempty"`
}

// BuildGeometry turns a compute result into chart geometry. Currency bars
// always use the round-to-100 axis; line axes use the configured tick mode.
func BuildGeometry(comp *ComputeResult, opts Options) (*Geometry, error) {
	if err := opts.ValidateForGeometry(); err != nil {
		return nil, err
	}
	layout := opts.Layout()
	layout.TickCount = chart.DefaultLayout().TickCount

	lineMode, err := parseTickMode(opts.TickMode)
	if err != nil {
		return nil, err
	}

	geo := &Geometry{ChartType: opts.ChartType}
	switch opts.ChartType {
	case ChartTypeBar:
		bar := chart.NewBarChart(comp.Revenue, comp.Months, layout, chart.TickModeStep100)
		geo.Bar = &bar
	case ChartTypeLine:
		line := chart.NewLineChart(comp.LineSeries, comp.LineLabels, layout, lineMode, comp.Current)
		geo.Line = &line
	case ChartTypeDual:
		dual, err := chart.NewDualChart(comp.Baseline, comp.Revenue, comp.Months, layout, chart.TickModeStep100, lineMode)
		if err != nil {
			return nil, err
		}
		geo.Dual = &dual
	default:
		return nil, errors.New(errors.ErrCodeInvalidChartType, "invalid chart type: %q", opts.ChartType)
	}
	return geo, nil
}

// Slot wraps the geometry as a report chart slot.
func (g *Geometry) Slot(title string) report.ChartSlot {
	slot := report.ChartSlot{Title: title}
	switch g.ChartType {
	case ChartTypeBar:
		slot.Kind = report.ChartBar
		slot.Bar = g.Bar
	case ChartTypeLine:
		slot.Kind = report.ChartLine
		slot.Line = g.Line
	case ChartTypeDual:
		slot.Kind = report.ChartDual
		slot.Dual = g.Dual
	}
	return slot
}
