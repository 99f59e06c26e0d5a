package metrics

import "testing"

func TestFuelCostPerKWh(t *testing.T) {
	spec := FuelSpec{Fuel: FuelNaturalGas, Unit: "therm", KWhPerUnit: 30, Efficiency: 0.8}

	got, err := spec.FuelCostPerKWh(1.2)
	if err != nil {
		t.Fatalf("FuelCostPerKWh() error = %v", err)
	}
	if !closeTo(got, 0.05) {
		t.Errorf("FuelCostPerKWh(1.2) = %v, want 0.05", got)
	}

	if _, err := spec.FuelCostPerKWh(-1); err == nil {
		t.Error("negative price should be rejected")
	}
	bad := FuelSpec{Fuel: FuelPropane, Unit: "gallon", KWhPerUnit: 0, Efficiency: 0.9}
	if _, err := bad.FuelCostPerKWh(3); err == nil {
		t.Error("zero heat content should be rejected")
	}
}

func TestCompareFuels(t *testing.T) {
	specs := []FuelSpec{
		{Fuel: FuelNaturalGas, Unit: "therm", KWhPerUnit: 30, Efficiency: 0.8},
		{Fuel: FuelHeatingOil, Unit: "gallon", KWhPerUnit: 40, Efficiency: 0.85},
		{Fuel: FuelPropane, Unit: "gallon", KWhPerUnit: 27, Efficiency: 0.9},
	}
	prices := map[Fuel]float64{
		FuelNaturalGas: 1.2,
		FuelHeatingOil: 3.4,
		// propane intentionally unpriced
	}

	rows, err := CompareFuels(1000, specs, prices)
	if err != nil {
		t.Fatalf("CompareFuels() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (unpriced fuels skipped)", len(rows))
	}
	if rows[0].Fuel != FuelNaturalGas || rows[1].Fuel != FuelHeatingOil {
		t.Errorf("rows out of spec order: %+v", rows)
	}
	if !closeTo(rows[0].MonthlyCost, 50) {
		t.Errorf("gas monthly cost = %v, want 50", rows[0].MonthlyCost)
	}
}

func TestParseFuel(t *testing.T) {
	if _, err := ParseFuel("natural_gas"); err != nil {
		t.Errorf("ParseFuel(natural_gas) error = %v", err)
	}
	if _, err := ParseFuel("coal"); err == nil {
		t.Error("ParseFuel should reject unknown fuels")
	}
}
