package metrics

import "github.com/hashheat/hashheat/pkg/errors"

// Fuel identifies a conventional heating fuel.
type Fuel string

const (
	FuelNaturalGas Fuel = "natural_gas"
	FuelHeatingOil Fuel = "heating_oil"
	FuelPropane    Fuel = "propane"
	FuelElectric   Fuel = "electric" // resistive baseboard at grid price
	FuelHeatPump   Fuel = "heat_pump"
)

// ParseFuel validates a fuel name.
func ParseFuel(s string) (Fuel, error) {
	switch Fuel(s) {
	case FuelNaturalGas, FuelHeatingOil, FuelPropane, FuelElectric, FuelHeatPump:
		return Fuel(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown fuel: %q", s)
}

// FuelSpec describes how a fuel's market unit converts to delivered heat.
type FuelSpec struct {
	Fuel Fuel `json:"fuel" toml:"fuel"`

	// Unit is the market unit the price quotes against ("therm", "gallon",
	// "kwh").
	Unit string `json:"unit" toml:"unit"`

	// KWhPerUnit is the heat content of one market unit.
	KWhPerUnit float64 `json:"kwh_per_unit" toml:"kwh_per_unit"`

	// Efficiency is the appliance conversion efficiency. A heat pump's COP
	// makes this exceed 1.
	Efficiency float64 `json:"efficiency" toml:"efficiency"`
}

// FuelCostPerKWh converts a market price per unit into a delivered price per
// kWh of heat, appliance efficiency applied.
func (s FuelSpec) FuelCostPerKWh(pricePerUnit float64) (float64, error) {
	if s.KWhPerUnit <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "fuel %s: kWh per %s must be positive, got %v", s.Fuel, s.Unit, s.KWhPerUnit)
	}
	if s.Efficiency <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "fuel %s: efficiency must be positive, got %v", s.Fuel, s.Efficiency)
	}
	if pricePerUnit < 0 || !isFinite(pricePerUnit) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "fuel %s: price per %s must be a non-negative finite number, got %v", s.Fuel, s.Unit, pricePerUnit)
	}
	return pricePerUnit / s.KWhPerUnit / s.Efficiency, nil
}

// FuelComparison is one row of the "your heat on fuel X" table.
type FuelComparison struct {
	Fuel        Fuel    `json:"fuel"`
	CostPerKWh  float64 `json:"cost_per_kwh"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// CompareFuels prices the given monthly heat demand on each fuel. prices maps
// fuel to its market price per unit; fuels without a price are skipped. Rows
// come back in the order of specs, so output is deterministic.
func CompareFuels(heatDemandKWh float64, specs []FuelSpec, prices map[Fuel]float64) ([]FuelComparison, error) {
	if heatDemandKWh < 0 || !isFinite(heatDemandKWh) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "heat demand must be a non-negative finite number, got %v", heatDemandKWh)
	}

	rows := make([]FuelComparison, 0, len(specs))
	for _, spec := range specs {
		price, ok := prices[spec.Fuel]
		if !ok {
			continue
		}
		perKWh, err := spec.FuelCostPerKWh(price)
		if err != nil {
			return nil, err
		}
		rows = append(rows, FuelComparison{
			Fuel:        spec.Fuel,
			CostPerKWh:  perKWh,
			MonthlyCost: heatDemandKWh * perKWh,
		})
	}
	return rows, nil
}
