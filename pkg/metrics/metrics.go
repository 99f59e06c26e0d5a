// Package metrics implements the calculator formulas behind the heating and
// solar economics tools. Everything here is a pure function over explicit
// inputs: no clocks, no network, no randomness. The chart and ranking layers
// consume the numbers these functions return and never recompute them.
//
// Conventions: energy in kWh, power in watts, miner efficiency in joules per
// terahash, prices in the user's currency. Percentages are returned on a
// 0..100 scale, not 0..1.
package metrics

import (
	"math"

	"github.com/hashheat/hashheat/pkg/errors"
)

// Metric names one rankable calculator output.
type Metric string

const (
	// MetricSavings is the heating cost reduction versus the fuel
	// alternative, in percent.
	MetricSavings Metric = "savings"

	// MetricCOPe is the economic coefficient of performance: heat value
	// delivered divided by net cost after the mining offset. Approaches
	// +Inf as the offset swallows the whole bill.
	MetricCOPe Metric = "cope"

	// MetricSubsidy is the solar calculator's effective subsidy on gross
	// system value, in percent.
	MetricSubsidy Metric = "subsidy"

	// MetricRevenue is plain monthly mining revenue.
	MetricRevenue Metric = "revenue"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricSavings, MetricCOPe, MetricSubsidy, MetricRevenue:
		return Metric(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidMetric,
		"unknown metric: %q (must be savings, cope, subsidy or revenue)", s)
}

// HashrateTH converts miner power draw and efficiency into hashrate.
// A 3250 W unit at 21.5 J/TH hashes at about 151 TH/s.
func HashrateTH(powerW, joulesPerTH float64) float64 {
	if powerW <= 0 || joulesPerTH <= 0 {
		return 0
	}
	return powerW / joulesPerTH
}

// DailyRevenue returns mining revenue per day for a hashrate at the given
// hashprice (currency per TH/s per day).
func DailyRevenue(hashrateTH, hashprice float64) float64 {
	if hashrateTH <= 0 || hashprice <= 0 {
		return 0
	}
	return hashrateTH * hashprice
}

// HeatingInputs describes one heating scenario: a home heated by miner
// exhaust, compared against a conventional fuel alternative.
type HeatingInputs struct {
	// HeatDemandKWh is the monthly heat demand.
	HeatDemandKWh float64 `json:"heat_demand_kwh"`

	// ElectricityPrice is the grid price per kWh.
	ElectricityPrice float64 `json:"electricity_price"`

	// MinerEfficiency is the fleet efficiency in J/TH.
	MinerEfficiency float64 `json:"miner_efficiency"`

	// Hashprice is mining revenue per TH/s per day.
	Hashprice float64 `json:"hashprice"`

	// FuelPricePerKWh is the alternative fuel's delivered price per kWh of
	// heat, efficiency already applied (see FuelCostPerKWh).
	FuelPricePerKWh float64 `json:"fuel_price_per_kwh"`
}

// Validate reports the first invalid field.
func (in HeatingInputs) Validate() error {
	switch {
	case in.HeatDemandKWh < 0 || !isFinite(in.HeatDemandKWh):
		return errors.New(errors.ErrCodeInvalidInput, "heat demand must be a non-negative finite number, got %v", in.HeatDemandKWh)
	case in.ElectricityPrice < 0 || !isFinite(in.ElectricityPrice):
		return errors.New(errors.ErrCodeInvalidInput, "electricity price must be a non-negative finite number, got %v", in.ElectricityPrice)
	case in.MinerEfficiency <= 0 || !isFinite(in.MinerEfficiency):
		return errors.New(errors.ErrCodeInvalidInput, "miner efficiency must be a positive finite number of J/TH, got %v", in.MinerEfficiency)
	case in.Hashprice < 0 || !isFinite(in.Hashprice):
		return errors.New(errors.ErrCodeInvalidInput, "hashprice must be a non-negative finite number, got %v", in.Hashprice)
	case in.FuelPricePerKWh < 0 || !isFinite(in.FuelPricePerKWh):
		return errors.New(errors.ErrCodeInvalidInput, "fuel price must be a non-negative finite number, got %v", in.FuelPricePerKWh)
	}
	return nil
}

// HeatingResult carries every intermediate a report wants to show, not just
// the headline metrics.
type HeatingResult struct {
	// GrossCost is the monthly electricity bill for the demanded heat.
	GrossCost float64 `json:"gross_cost"`

	// MiningRevenue is the monthly revenue earned while heating.
	MiningRevenue float64 `json:"mining_revenue"`

	// NetCost is GrossCost minus MiningRevenue. May be negative when the
	// miners out-earn the bill.
	NetCost float64 `json:"net_cost"`

	// FuelCost is what the same heat would cost on the alternative fuel.
	FuelCost float64 `json:"fuel_cost"`

	// COPe is FuelCost over NetCost, +Inf when NetCost is zero or negative.
	COPe float64 `json:"cope"`

	// SavingsPct is the reduction versus FuelCost, in percent. Exceeds 100
	// when NetCost goes negative.
	SavingsPct float64 `json:"savings_pct"`
}

// Heating evaluates one heating scenario. Miners convert electricity to heat
// at effectively unity, so the electrical input equals the heat demand.
func Heating(in HeatingInputs) (HeatingResult, error) {
	if err := in.Validate(); err != nil {
		return HeatingResult{}, err
	}

	gross := in.HeatDemandKWh * in.ElectricityPrice

	// Average power needed to deliver the monthly demand, then the
	// hashrate that power sustains.
	powerW := in.HeatDemandKWh / hoursPerMonth * 1000
	revenue := DailyRevenue(HashrateTH(powerW, in.MinerEfficiency), in.Hashprice) * daysPerMonth

	net := gross - revenue
	fuel := in.HeatDemandKWh * in.FuelPricePerKWh

	return HeatingResult{
		GrossCost:     gross,
		MiningRevenue: revenue,
		NetCost:       net,
		FuelCost:      fuel,
		COPe:          cope(fuel, net),
		SavingsPct:    savingsPct(fuel, net),
	}, nil
}

// Month length constants used for power/revenue conversion. A 30-day month
// keeps daily and monthly figures consistent with each other.
const (
	daysPerMonth  = 30.0
	hoursPerMonth = daysPerMonth * 24
)

// cope returns fuelCost/netCost with the net-zero edge mapped to +Inf:
// once mining covers the bill the ratio is unbounded, and the ranking layer
// knows how to order +Inf.
func cope(fuelCost, netCost float64) float64 {
	if netCost <= 0 {
		return math.Inf(1)
	}
	if fuelCost <= 0 {
		return 0
	}
	return fuelCost / netCost
}

// savingsPct returns the percentage saved against the fuel baseline.
// A zero baseline yields zero rather than NaN.
func savingsPct(fuelCost, netCost float64) float64 {
	if fuelCost <= 0 {
		return 0
	}
	return (fuelCost - netCost) / fuelCost * 100
}

// SolarInputs describes one solar-monetization scenario: a PV system whose
// surplus production feeds miners instead of being exported at a poor rate.
type SolarInputs struct {
	// MonthlyProductionKWh is total PV output for the month.
	MonthlyProductionKWh float64 `json:"monthly_production_kwh"`

	// SelfConsumedKWh is the share used directly by the household.
	SelfConsumedKWh float64 `json:"self_consumed_kwh"`

	// ElectricityPrice is the retail price per kWh, used to value both the
	// self-consumed share and the gross system output.
	ElectricityPrice float64 `json:"electricity_price"`

	// ExportRate is the feed-in price per kWh the grid would pay.
	ExportRate float64 `json:"export_rate"`

	// MinerEfficiency and Hashprice as in HeatingInputs.
	MinerEfficiency float64 `json:"miner_efficiency"`
	Hashprice       float64 `json:"hashprice"`
}

// Validate reports the first invalid field.
func (in SolarInputs) Validate() error {
	switch {
	case in.MonthlyProductionKWh < 0 || !isFinite(in.MonthlyProductionKWh):
		return errors.New(errors.ErrCodeInvalidInput, "production must be a non-negative finite number, got %v", in.MonthlyProductionKWh)
	case in.SelfConsumedKWh < 0 || in.SelfConsumedKWh > in.MonthlyProductionKWh:
		return errors.New(errors.ErrCodeInvalidInput, "self-consumption %v outside [0, production %v]", in.SelfConsumedKWh, in.MonthlyProductionKWh)
	case in.ElectricityPrice < 0 || !isFinite(in.ElectricityPrice):
		return errors.New(errors.ErrCodeInvalidInput, "electricity price must be a non-negative finite number, got %v", in.ElectricityPrice)
	case in.ExportRate < 0 || !isFinite(in.ExportRate):
		return errors.New(errors.ErrCodeInvalidInput, "export rate must be a non-negative finite number, got %v", in.ExportRate)
	case in.MinerEfficiency <= 0 || !isFinite(in.MinerEfficiency):
		return errors.New(errors.ErrCodeInvalidInput, "miner efficiency must be a positive finite number of J/TH, got %v", in.MinerEfficiency)
	case in.Hashprice < 0 || !isFinite(in.Hashprice):
		return errors.New(errors.ErrCodeInvalidInput, "hashprice must be a non-negative finite number, got %v", in.Hashprice)
	}
	return nil
}

// SolarResult carries the solar calculator outputs.
type SolarResult struct {
	// SurplusKWh is production not self-consumed.
	SurplusKWh float64 `json:"surplus_kwh"`

	// ExportRevenue is what the grid would have paid for the surplus.
	ExportRevenue float64 `json:"export_revenue"`

	// MiningRevenue is what the miners earn on the surplus instead.
	MiningRevenue float64 `json:"mining_revenue"`

	// GrossValue is the whole month's production valued at retail price.
	GrossValue float64 `json:"gross_value"`

	// SubsidyPct is the mining uplift over exporting, as a percentage of
	// GrossValue. Zero when there is no surplus or no uplift.
	SubsidyPct float64 `json:"subsidy_pct"`
}

// Solar evaluates one solar-monetization scenario.
func Solar(in SolarInputs) (SolarResult, error) {
	if err := in.Validate(); err != nil {
		return SolarResult{}, err
	}

	surplus := in.MonthlyProductionKWh - in.SelfConsumedKWh
	export := surplus * in.ExportRate

	powerW := surplus / hoursPerMonth * 1000
	mining := DailyRevenue(HashrateTH(powerW, in.MinerEfficiency), in.Hashprice) * daysPerMonth

	gross := in.MonthlyProductionKWh * in.ElectricityPrice

	var subsidy float64
	if gross > 0 && mining > export {
		subsidy = (mining - export) / gross * 100
	}

	return SolarResult{
		SurplusKWh:    surplus,
		ExportRevenue: export,
		MiningRevenue: mining,
		GrossValue:    gross,
		SubsidyPct:    subsidy,
	}, nil
}

// MonthlyRevenue projects mining revenue over a number of months, applying a
// compounding monthly hashprice decline. decline is a fraction per month
// (0.05 = 5% worse each month); zero projects a flat series.
func MonthlyRevenue(hashrateTH, hashprice, decline float64, months int) []float64 {
	if months <= 0 {
		return nil
	}
	series := make([]float64, months)
	hp := hashprice
	for i := range series {
		series[i] = DailyRevenue(hashrateTH, hp) * daysPerMonth
		hp *= 1 - decline
		if hp < 0 {
			hp = 0
		}
	}
	return series
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
