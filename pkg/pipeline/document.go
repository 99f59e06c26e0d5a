package pipeline

import (
	"fmt"

	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/report"
)

// BuildDocument assembles a complete report document from a compute result:
// input summary, headline results, a chart grid with the composite and
// sensitivity views, the windowed ranking and a closing narrative.
func BuildDocument(comp *ComputeResult, opts Options) (*report.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = defaultTitle(comp.Calculator)
	}

	dualOpts := opts
	dualOpts.ChartType = ChartTypeDual
	dual, err := BuildGeometry(comp, dualOpts)
	if err != nil {
		return nil, err
	}
	lineOpts := opts
	lineOpts.ChartType = ChartTypeLine
	line, err := BuildGeometry(comp, lineOpts)
	if err != nil {
		return nil, err
	}

	doc := report.New(title, string(comp.Country), comp.Currency)
	doc.AddPage(report.Page{
		Title: "Summary",
		Sections: []report.Section{
			report.NewInputSummarySection("Inputs", inputFields(comp, opts)...),
			report.NewResultsSummarySection("Results", resultFields(comp)...),
		},
	})
	doc.AddPage(report.Page{
		Title: "Charts",
		Sections: []report.Section{
			report.NewChartSection("Projection", 2,
				dual.Slot(dualSlotTitle(comp.Calculator)),
				line.Slot(lineSlotTitle(comp.Calculator))),
		},
	})
	doc.AddPage(report.Page{
		Title: "Ranking",
		Sections: []report.Section{
			report.NewRankingSection("Regional ranking", string(comp.Metric), comp.Direction, comp.Ranking),
			report.NewNarrativeSection("Reading the numbers", narrative(comp)),
		},
	})

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func defaultTitle(calculator string) string {
	if calculator == CalculatorSolar {
		return "Solar surplus mining report"
	}
	return "Mining heat report"
}

func dualSlotTitle(calculator string) string {
	if calculator == CalculatorSolar {
		return "Export baseline vs mining revenue"
	}
	return "Net heating cost vs mining revenue"
}

func lineSlotTitle(calculator string) string {
	if calculator == CalculatorSolar {
		return "Revenue projection"
	}
	return "Electricity price sensitivity"
}

func inputFields(comp *ComputeResult, opts Options) []report.Field {
	cur := comp.Currency
	if opts.Heating != nil {
		in := opts.Heating
		return []report.Field{
			{Label: "Heat demand", Value: fmt.Sprintf("%.0f kWh/month", in.HeatDemandKWh)},
			{Label: "Electricity price", Value: fmt.Sprintf("%.3f %s/kWh", in.ElectricityPrice, cur)},
			{Label: "Miner efficiency", Value: fmt.Sprintf("%.1f J/TH", in.MinerEfficiency)},
			{Label: "Hashprice", Value: fmt.Sprintf("%.4f %s/TH/day", in.Hashprice, cur)},
			{Label: "Fuel price", Value: fmt.Sprintf("%.3f %s/kWh", in.FuelPricePerKWh, cur)},
		}
	}
	in := opts.Solar
	return []report.Field{
		{Label: "Monthly production", Value: fmt.Sprintf("%.0f kWh", in.MonthlyProductionKWh)},
		{Label: "Self-consumed", Value: fmt.Sprintf("%.0f kWh", in.SelfConsumedKWh)},
		{Label: "Electricity price", Value: fmt.Sprintf("%.3f %s/kWh", in.ElectricityPrice, cur)},
		{Label: "Export rate", Value: fmt.Sprintf("%.3f %s/kWh", in.ExportRate, cur)},
		{Label: "Miner efficiency", Value: fmt.Sprintf("%.1f J/TH", in.MinerEfficiency)},
		{Label: "Hashprice", Value: fmt.Sprintf("%.4f %s/TH/day", in.Hashprice, cur)},
	}
}

func resultFields(comp *ComputeResult) []report.Field {
	cur := comp.Currency
	if comp.Heating != nil {
		h := comp.Heating
		return []report.Field{
			{Label: "Gross heating cost", Value: fmt.Sprintf("%s %s/month", report.FormatValue(h.GrossCost, 2), cur)},
			{Label: "Mining revenue", Value: fmt.Sprintf("%s %s/month", report.FormatValue(h.MiningRevenue, 2), cur)},
			{Label: "Net heating cost", Value: fmt.Sprintf("%s %s/month", report.FormatValue(h.NetCost, 2), cur)},
			{Label: "Fuel alternative", Value: fmt.Sprintf("%s %s/month", report.FormatValue(h.FuelCost, 2), cur)},
			{Label: "Effective COP", Value: report.FormatValue(h.COPe, 2)},
			{Label: "Savings vs fuel", Value: report.FormatPercent(h.SavingsPct)},
		}
	}
	s := comp.Solar
	return []report.Field{
		{Label: "Surplus energy", Value: fmt.Sprintf("%s kWh/month", report.FormatValue(s.SurplusKWh, 0))},
		{Label: "Grid export value", Value: fmt.Sprintf("%s %s/month", report.FormatValue(s.ExportRevenue, 2), cur)},
		{Label: "Mining revenue", Value: fmt.Sprintf("%s %s/month", report.FormatValue(s.MiningRevenue, 2), cur)},
		{Label: "Gross surplus value", Value: fmt.Sprintf("%s %s/month", report.FormatValue(s.GrossValue, 2), cur)},
		{Label: "Uplift vs export", Value: report.FormatPercent(s.SubsidyPct)},
	}
}

func narrative(comp *ComputeResult) string {
	pos := comp.Ranking.Position.Describe()
	metric := string(comp.Metric)
	value := report.FormatValue(comp.MetricValue, 2)
	if comp.Metric == metrics.MetricSavings || comp.Metric == metrics.MetricSubsidy {
		value = report.FormatPercent(comp.MetricValue)
	}
	return fmt.Sprintf(
		"Your %s of %s places you %s across the %d reference regions. "+
			"Regional values are recomputed from the same inputs with each region's "+
			"average electricity price substituted in, so the ranking isolates the "+
			"effect of local power cost.",
		metric, value, pos, comp.Ranking.Position.Size)
}
