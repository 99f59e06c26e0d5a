package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/pipeline"
)

// chartCommand creates the chart command for one-shot chart generation.
func (c *CLI) chartCommand() *cobra.Command {
	var (
		flags      inputFlags
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "chart [heating|solar]",
		Short: "Compute a scenario and render its chart",
		Long: `Compute a scenario and render its chart.

The chart command runs the full pipeline: calculator, chart geometry, then
SVG or JSON output. The dual view pairs cost bars against a revenue line on
independent axes; bar and line views show one series each.

Results are cached locally, keyed by input content, so repeated runs with
identical inputs are instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := flags.options(parseCalculator(args))
			o.ChartType = opts.ChartType
			o.Width = opts.Width
			o.Height = opts.Height
			o.TickMode = opts.TickMode
			o.Title = opts.Title
			o.RankingPanel = opts.RankingPanel
			o.Refresh = opts.Refresh
			o.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(o.Formats); err != nil {
				return err
			}
			return c.runChart(cmd.Context(), o, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVarP(&opts.ChartType, "chart", "c", pipeline.DefaultChartType, "chart type: bar, line, dual")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "chart width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "chart height in pixels")
	cmd.Flags().StringVar(&opts.TickMode, "ticks", pipeline.DefaultTickMode, "axis tick mode: log or step100")
	cmd.Flags().StringVar(&opts.Title, "title", "", "chart title")
	cmd.Flags().BoolVar(&opts.RankingPanel, "ranking-panel", false, "embed the regional ranking panel in the SVG")

	return cmd
}

// runChart executes the pipeline and writes artifacts to disk.
func (c *CLI) runChart(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if output != "" {
		if err := errors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Computing chart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Chart generation failed")
		return err
	}
	spinner.Stop()

	base := basePath(output, opts.Calculator)
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Generated %s chart (%s)", opts.ChartType, opts.Calculator)
	printRunStats(result.CacheInfo)
	printDetail("position: %s", result.Compute.Ranking.Position.Describe())
	printNextStep("See the full ranking", appName+" rank "+opts.Calculator)
	return nil
}
