package pipeline

import (
	"fmt"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/refdata"
)

// ComputeResult carries everything the compute stage produced: calculator
// outputs, the derived chart series, and the user's ranking against the
// reference population. The struct is fully JSON-serializable so it can be
// cached and restored without recomputation.
type ComputeResult struct {
	Calculator  string            `json:"calculator"`
	Country     refdata.Country   `json:"country"`
	Currency    string            `json:"currency"`
	Metric      metrics.Metric    `json:"metric"`
	MetricValue float64           `json:"metric_value"`
	Direction   ranking.Direction `json:"direction"`

	Heating *metrics.HeatingResult   `json:"heating,omitempty"`
	Solar   *metrics.SolarResult     `json:"solar,omitempty"`
	Fuels   []metrics.FuelComparison `json:"fuels,omitempty"`

	// Revenue is monthly mining revenue; Baseline is its dual-axis
	// companion (net heating cost, or the grid-export baseline for solar).
	Revenue  []float64 `json:"revenue"`
	Baseline []float64 `json:"baseline"`
	Months   []string  `json:"months"`

	// LineSeries feeds single line charts: a sensitivity sweep for heating
	// (Current marks the user's actual input) or the revenue projection
	// for solar.
	LineSeries []float64 `json:"line_series"`
	LineLabels []string  `json:"line_labels"`
	Current    int       `json:"current"`

	Ranking ranking.Result `json:"ranking"`
}

// Compute runs the calculator, derives the chart series and ranks the user
// against the reference population for the chosen country.
func Compute(opts Options) (*ComputeResult, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return nil, err
	}

	country, err := refdata.ParseCountry(opts.Country)
	if err != nil {
		return nil, err
	}
	currency, err := refdata.Currency(country)
	if err != nil {
		return nil, err
	}
	metric, err := metrics.ParseMetric(opts.Metric)
	if err != nil {
		return nil, err
	}
	dir, err := ranking.ParseDirection(opts.Direction)
	if err != nil {
		return nil, err
	}

	res := &ComputeResult{
		Calculator: opts.Calculator,
		Country:    country,
		Currency:   currency,
		Metric:     metric,
		Direction:  dir,
		Months:     monthLabels(opts.Months),
	}

	switch opts.Calculator {
	case CalculatorHeating:
		err = computeHeating(res, opts, metric)
	case CalculatorSolar:
		err = computeSolar(res, opts, metric)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown calculator %q", opts.Calculator)
	}
	if err != nil {
		return nil, err
	}

	population, user, err := buildPopulation(opts, country, metric)
	if err != nil {
		return nil, err
	}
	res.MetricValue = user.Value
	res.Ranking = ranking.Rank(population, user, dir)

	return res, nil
}

func computeHeating(res *ComputeResult, opts Options, metric metrics.Metric) error {
	in := *opts.Heating

	heating, err := metrics.Heating(in)
	if err != nil {
		return err
	}
	res.Heating = &heating

	hashrate := metrics.HashrateTH(heatingPowerW(in), in.MinerEfficiency)
	res.Revenue = metrics.MonthlyRevenue(hashrate, in.Hashprice, opts.Decline, opts.Months)

	// The dual-axis companion: what heating actually costs each month once
	// that month's (declining) revenue is subtracted.
	res.Baseline = make([]float64, len(res.Revenue))
	for i, rev := range res.Revenue {
		res.Baseline[i] = heating.GrossCost - rev
	}

	if err := heatingFuelRows(res, opts, in); err != nil {
		return err
	}

	// Sensitivity sweep over electricity price, centered on the user's
	// actual price.
	from, to := sweepRange(in.ElectricityPrice)
	sweepMetric := metric
	if sweepMetric == metrics.MetricSubsidy {
		sweepMetric = metrics.MetricSavings
	}
	sweep, err := metrics.SweepHeating(in, metrics.SweepElectricityPrice, sweepMetric, from, to, 20)
	if err != nil {
		return err
	}
	res.LineSeries = sweep.Values
	res.Current = sweep.Current
	res.LineLabels = make([]string, len(sweep.Inputs))
	for i, v := range sweep.Inputs {
		res.LineLabels[i] = fmt.Sprintf("%.2f", v)
	}
	return nil
}

func heatingFuelRows(res *ComputeResult, opts Options, in metrics.HeatingInputs) error {
	specs, err := refdata.Fuels()
	if err != nil {
		return err
	}
	prices, err := refdata.FuelPrices(res.Country)
	if err != nil {
		return err
	}
	// Grid-powered heating prices off the user's own electricity rate.
	prices[metrics.FuelElectric] = in.ElectricityPrice
	prices[metrics.FuelHeatPump] = in.ElectricityPrice

	res.Fuels, err = metrics.CompareFuels(in.HeatDemandKWh, specs, prices)
	return err
}

func computeSolar(res *ComputeResult, opts Options, metric metrics.Metric) error {
	in := *opts.Solar

	solar, err := metrics.Solar(in)
	if err != nil {
		return err
	}
	res.Solar = &solar

	hashrate := metrics.HashrateTH(solarPowerW(in), in.MinerEfficiency)
	res.Revenue = metrics.MonthlyRevenue(hashrate, in.Hashprice, opts.Decline, opts.Months)

	// Baseline: what the grid would have paid for the same surplus, flat.
	res.Baseline = make([]float64, len(res.Revenue))
	for i := range res.Baseline {
		res.Baseline[i] = solar.ExportRevenue
	}

	// No sensitivity sweep for solar: the line view is the projection
	// itself, with the first (current-conditions) month highlighted.
	res.LineSeries = res.Revenue
	res.LineLabels = res.Months
	res.Current = 0
	return nil
}

// buildPopulation recomputes the chosen metric for every reference region by
// substituting that region's electricity price into the user's inputs, then
// builds the user's own entry.
func buildPopulation(opts Options, country refdata.Country, metric metrics.Metric) ([]ranking.Region, ranking.Region, error) {
	regions, err := refdata.Regions(country)
	if err != nil {
		return nil, ranking.Region{}, err
	}

	population := make([]ranking.Region, 0, len(regions))
	for _, region := range regions {
		value, err := regionValue(opts, metric, region.ElectricityPrice)
		if err != nil {
			return nil, ranking.Region{}, err
		}
		population = append(population, ranking.Region{
			Code:  region.Code,
			Name:  region.Name,
			Value: value,
		})
	}

	userValue, err := userMetricValue(opts, metric)
	if err != nil {
		return nil, ranking.Region{}, err
	}
	user := ranking.Region{Code: "YOU", Name: "You", Value: userValue}
	if opts.Region != "" {
		region, err := refdata.RegionByCode(country, opts.Region)
		if err != nil {
			return nil, ranking.Region{}, err
		}
		user.Code = region.Code
		user.Name = "You (" + region.Name + ")"
	}

	return population, user, nil
}

func regionValue(opts Options, metric metrics.Metric, electricityPrice float64) (float64, error) {
	switch opts.Calculator {
	case CalculatorHeating:
		in := *opts.Heating
		in.ElectricityPrice = electricityPrice
		res, err := metrics.Heating(in)
		if err != nil {
			return 0, err
		}
		return heatingMetricValue(res, metric), nil
	case CalculatorSolar:
		in := *opts.Solar
		in.ElectricityPrice = electricityPrice
		res, err := metrics.Solar(in)
		if err != nil {
			return 0, err
		}
		return solarMetricValue(res, metric), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown calculator %q", opts.Calculator)
}

func userMetricValue(opts Options, metric metrics.Metric) (float64, error) {
	switch opts.Calculator {
	case CalculatorHeating:
		return regionValue(opts, metric, opts.Heating.ElectricityPrice)
	case CalculatorSolar:
		return regionValue(opts, metric, opts.Solar.ElectricityPrice)
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown calculator %q", opts.Calculator)
}

func heatingMetricValue(res metrics.HeatingResult, metric metrics.Metric) float64 {
	switch metric {
	case metrics.MetricCOPe:
		return res.COPe
	case metrics.MetricRevenue:
		return res.MiningRevenue
	default:
		return res.SavingsPct
	}
}

func solarMetricValue(res metrics.SolarResult, metric metrics.Metric) float64 {
	switch metric {
	case metrics.MetricRevenue:
		return res.MiningRevenue
	default:
		return res.SubsidyPct
	}
}

// heatingPowerW is the sustained electrical draw that delivers the monthly
// heat demand.
func heatingPowerW(in metrics.HeatingInputs) float64 {
	return in.HeatDemandKWh / (30.0 * 24) * 1000
}

// solarPowerW is the sustained draw the monthly surplus can feed.
func solarPowerW(in metrics.SolarInputs) float64 {
	return (in.MonthlyProductionKWh - in.SelfConsumedKWh) / (30.0 * 24) * 1000
}

// sweepRange centers a sweep on the actual price, one half-width each side.
func sweepRange(price float64) (float64, float64) {
	if price <= 0 {
		return 0, 0.30
	}
	return price * 0.5, price * 1.5
}

func monthLabels(months int) []string {
	labels := make([]string, months)
	for i := range labels {
		labels[i] = fmt.Sprintf("M%d", i+1)
	}
	return labels
}
