package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/report"
)

// sweepCommand creates the sweep command for sensitivity analysis.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		flags    inputFlags
		varName  string
		from, to float64
		steps    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep one heating input and tabulate the metric",
		Long: `Sweep one heating input across a range and tabulate the metric.

Useful for finding break-even points: sweep the electricity price to see
where savings flip negative, or the hashprice to see where mining covers the
whole heating bill (COPe goes unbounded).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSweep(flags, varName, from, to, steps)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&varName, "var", string(metrics.SweepElectricityPrice), "input to sweep: electricity_price, hashprice, fuel_price")
	cmd.Flags().Float64Var(&from, "from", 0.05, "range start")
	cmd.Flags().Float64Var(&to, "to", 0.30, "range end")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of steps")

	return cmd
}

func (c *CLI) runSweep(flags inputFlags, varName string, from, to float64, steps int) error {
	sv, err := metrics.ParseSweepVar(varName)
	if err != nil {
		return err
	}
	metric := metrics.MetricSavings
	if flags.metric != "" {
		if metric, err = metrics.ParseMetric(flags.metric); err != nil {
			return err
		}
	}

	in := metrics.HeatingInputs{
		HeatDemandKWh:    flags.heatDemand,
		ElectricityPrice: flags.elecPrice,
		MinerEfficiency:  flags.efficiency,
		Hashprice:        flags.hashprice,
		FuelPricePerKWh:  flags.fuelPrice,
	}
	sweep, err := metrics.SweepHeating(in, sv, metric, from, to, steps)
	if err != nil {
		return err
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	currentStyle := lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(colorWhite)

	rows := make([][]string, len(sweep.Inputs))
	for i := range sweep.Inputs {
		marker := " "
		if i == sweep.Current {
			marker = iconArrow
		}
		rows[i] = []string{
			marker,
			fmt.Sprintf("%.3f", sweep.Inputs[i]),
			formatMetric(sweep.Values[i], string(metric)),
		}
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Sweep %s → %s", sv, metric)))
	fmt.Println(table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", string(sv), string(metric)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == sweep.Current {
				return currentStyle
			}
			return normalStyle
		}).
		Render())

	if sweep.Current >= 0 {
		printDetail("%s marks the step nearest your current value (%s)", iconArrow, report.FormatValue(sweep.Inputs[sweep.Current], 3))
	}
	return nil
}
