package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/report"
)

// rankCommand creates the rank command for regional comparisons.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		flags   inputFlags
		full    bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "rank [heating|solar]",
		Short: "Rank your inputs against regional electricity prices",
		Long: `Rank your inputs against regional electricity prices.

Each reference region's metric is recomputed from your own inputs with that
region's average electricity price substituted in, so the table isolates the
effect of local power cost. By default a compact window is shown: the top
five regions plus your neighborhood.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRank(cmd.Context(), flags.options(parseCalculator(args)), full, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&full, "full", false, "show every region, not just the window")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRank(ctx context.Context, opts pipeline.Options, full, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	comp, cached, err := runner.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}

	rows := comp.Ranking.Window(report.DefaultWindowTopN, report.DefaultWindowRadius)
	if full {
		rows = comp.Ranking.All
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Regional %s ranking (%s)", comp.Metric, comp.Country)))
	fmt.Println(rankingTable(rows, string(comp.Metric)))

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	printDetail("you are %s · %s", comp.Ranking.Position.Describe(), status)
	return nil
}

// rankingTable renders ranking entries as a bordered table with the user row
// highlighted.
func rankingTable(rows []ranking.Entry, metric string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(colorWhite)

	data := make([][]string, len(rows))
	for i, e := range rows {
		marker := " "
		if e.Region.IsUser {
			marker = iconArrow
		}
		data[i] = []string{
			marker,
			fmt.Sprintf("%d", e.Rank),
			e.Region.Name,
			formatMetric(e.Region.Value, metric),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Rank", "Region", metric).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row].Region.IsUser {
				return userStyle
			}
			return normalStyle
		}).
		Render()
}

// formatMetric renders a metric value with the right unit for the table.
func formatMetric(v float64, metric string) string {
	switch metric {
	case "savings", "subsidy":
		return report.FormatPercent(v)
	case "cope":
		return report.FormatValue(v, 2)
	default:
		return report.FormatValue(v, 2)
	}
}
