// Package cli implements the hashheat command-line interface.
//
// Commands cover one-shot chart generation, regional rankings, sensitivity
// sweeps, report assembly, an interactive TUI calculator and the HTTP server.
// Everything funnels through the same pipeline Runner, so CLI output matches
// what the server and TUI produce for identical inputs.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/buildinfo"
	"github.com/hashheat/hashheat/pkg/cache"
	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "hashheat"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Hashheat compares bitcoin mining against heating bills and solar exports",
		Long:         `Hashheat is a calculator suite for mining economics: heat your home with miners instead of fuel, or feed surplus solar into hashrate instead of the grid. It charts the outcome and ranks your inputs against regional electricity prices.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.chartCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	pc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(pc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the local report store. An empty dir falls back to the
// user config, then the store's own default.
func newStore(dir string) (store.Store, error) {
	if dir == "" {
		dir = loadUserConfig().StoreDir
	}
	return store.NewFileStore(dir)
}

// cacheDir returns the cache directory, preferring the user config, then
// the XDG standard (~/.cache/hashheat/).
func cacheDir() (string, error) {
	if dir := loadUserConfig().CacheDir; dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// inputFlags holds the calculator input flags shared by chart, rank, sweep,
// report and tui.
type inputFlags struct {
	country   string
	region    string
	metric    string
	direction string
	months    int
	decline   float64

	// heating
	heatDemand float64
	elecPrice  float64
	efficiency float64
	hashprice  float64
	fuelPrice  float64

	// solar
	production   float64
	selfConsumed float64
	exportRate   float64
}

// register adds the shared input flags to cmd. User config values become
// the flag defaults, so explicit flags always win.
func (f *inputFlags) register(cmd *cobra.Command) {
	cfg := loadUserConfig()

	defaultCountry := pipeline.DefaultCountry
	if cfg.Country != "" {
		defaultCountry = cfg.Country
	}

	cmd.Flags().StringVar(&f.country, "country", defaultCountry, "reference country: us or ca")
	cmd.Flags().StringVar(&f.region, "region", cfg.Region, "your region code (e.g. WA, ON) for ranking labels")
	cmd.Flags().StringVar(&f.metric, "metric", "", "ranking metric: savings, cope, subsidy, revenue")
	cmd.Flags().StringVar(&f.direction, "direction", "", "ranking direction: asc or desc")
	cmd.Flags().IntVar(&f.months, "months", pipeline.DefaultMonths, "projection length in months")
	cmd.Flags().Float64Var(&f.decline, "decline", pipeline.DefaultDecline, "monthly hashprice decline fraction")

	cmd.Flags().Float64Var(&f.heatDemand, "heat-demand", 1500, "monthly heat demand in kWh (heating)")
	cmd.Flags().Float64Var(&f.elecPrice, "electricity-price", 0.12, "electricity price per kWh")
	cmd.Flags().Float64Var(&f.efficiency, "efficiency", 21.5, "miner efficiency in J/TH")
	cmd.Flags().Float64Var(&f.hashprice, "hashprice", 0.05, "hashprice per TH/s per day")
	cmd.Flags().Float64Var(&f.fuelPrice, "fuel-price", 0.11, "alternative fuel price per kWh of heat (heating)")

	cmd.Flags().Float64Var(&f.production, "production", 800, "monthly PV production in kWh (solar)")
	cmd.Flags().Float64Var(&f.selfConsumed, "self-consumed", 300, "self-consumed share in kWh (solar)")
	cmd.Flags().Float64Var(&f.exportRate, "export-rate", 0.04, "grid feed-in rate per kWh (solar)")
}

// options builds pipeline options for the named calculator from the flags.
func (f *inputFlags) options(calculator string) pipeline.Options {
	opts := pipeline.Options{
		Calculator: calculator,
		Country:    f.country,
		Region:     f.region,
		Metric:     f.metric,
		Direction:  f.direction,
		Months:     f.months,
		Decline:    f.decline,
	}
	switch calculator {
	case pipeline.CalculatorSolar:
		opts.Solar = &metrics.SolarInputs{
			MonthlyProductionKWh: f.production,
			SelfConsumedKWh:      f.selfConsumed,
			ElectricityPrice:     f.elecPrice,
			ExportRate:           f.exportRate,
			MinerEfficiency:      f.efficiency,
			Hashprice:            f.hashprice,
		}
	default:
		opts.Heating = &metrics.HeatingInputs{
			HeatDemandKWh:    f.heatDemand,
			ElectricityPrice: f.elecPrice,
			MinerEfficiency:  f.efficiency,
			Hashprice:        f.hashprice,
			FuelPricePerKWh:  f.fuelPrice,
		}
	}
	return opts
}

// parseCalculator maps the positional calculator argument, defaulting to
// heating.
func parseCalculator(args []string) string {
	if len(args) > 0 && strings.EqualFold(args[0], pipeline.CalculatorSolar) {
		return pipeline.CalculatorSolar
	}
	return pipeline.CalculatorHeating
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output flag. A known format
// extension is stripped so multi-format runs can append their own.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
