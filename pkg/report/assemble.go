package report

import (
	"fmt"
	"math"

	"github.com/hashheat/hashheat/pkg/ranking"
)

// FormatValue renders a metric value for display. Unbounded values never
// reach the geometry layer, but they are legitimate ranking inputs and must
// render as something readable here.
func FormatValue(v float64, decimals int) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case math.IsNaN(v):
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// FormatPercent renders a 0..100-scale percentage.
func FormatPercent(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return FormatValue(v, 0)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// NewRankingSection builds a ranking-table section from a ranking result
// using the default window shape.
func NewRankingSection(title, metric string, dir ranking.Direction, res ranking.Result) Section {
	return Section{
		Kind:  SectionRankingTable,
		Title: title,
		RankingTable: &RankingTable{
			Metric:    metric,
			Direction: dir,
			Position:  res.Position.Describe(),
			Rows:      res.Window(DefaultWindowTopN, DefaultWindowRadius),
		},
	}
}

// NewChartSection wraps chart slots in a grid section. columns caps the grid
// width; zero means one row per slot.
func NewChartSection(title string, columns int, slots ...ChartSlot) Section {
	if columns < 1 {
		columns = 1
	}
	return Section{
		Kind:      SectionChartGrid,
		Title:     title,
		ChartGrid: &ChartGrid{Columns: columns, Slots: slots},
	}
}

// NewNarrativeSection wraps prose in a section.
func NewNarrativeSection(title, text string) Section {
	return Section{Kind: SectionNarrative, Title: title, Narrative: &Narrative{Text: text}}
}

// NewInputSummarySection wraps labeled input fields in a section.
func NewInputSummarySection(title string, fields ...Field) Section {
	return Section{Kind: SectionInputSummary, Title: title, InputSummary: &InputSummary{Fields: fields}}
}

// NewResultsSummarySection wraps labeled result fields in a section.
func NewResultsSummarySection(title string, fields ...Field) Section {
	return Section{Kind: SectionResultsSummary, Title: title, ResultsSummary: &ResultsSummary{Fields: fields}}
}
