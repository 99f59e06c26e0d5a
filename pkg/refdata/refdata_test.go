package refdata

import (
	"testing"

	"github.com/hashheat/hashheat/pkg/metrics"
)

func TestRegionsUS(t *testing.T) {
	regions, err := Regions(CountryUS)
	if err != nil {
		t.Fatalf("Regions(us) error = %v", err)
	}
	if len(regions) != 51 {
		t.Errorf("got %d US regions, want 51 (50 states + DC)", len(regions))
	}
	for _, r := range regions {
		if r.Code == "" || r.Name == "" {
			t.Errorf("region missing identity: %+v", r)
		}
		if r.ElectricityPrice <= 0 || r.ElectricityPrice > 1 {
			t.Errorf("%s: implausible electricity price %v", r.Code, r.ElectricityPrice)
		}
	}
}

func TestRegionsCA(t *testing.T) {
	regions, err := Regions(CountryCA)
	if err != nil {
		t.Fatalf("Regions(ca) error = %v", err)
	}
	if len(regions) != 13 {
		t.Errorf("got %d Canadian regions, want 13 (10 provinces + 3 territories)", len(regions))
	}
}

func TestRegionsReturnsCopy(t *testing.T) {
	a, err := Regions(CountryUS)
	if err != nil {
		t.Fatalf("Regions() error = %v", err)
	}
	a[0].ElectricityPrice = -999

	b, err := Regions(CountryUS)
	if err != nil {
		t.Fatalf("Regions() error = %v", err)
	}
	if b[0].ElectricityPrice == -999 {
		t.Error("mutating a returned slice must not affect the shared table")
	}
}

func TestRegionByCode(t *testing.T) {
	r, err := RegionByCode(CountryUS, "wa")
	if err != nil {
		t.Fatalf("RegionByCode(us, wa) error = %v", err)
	}
	if r.Name != "Washington" {
		t.Errorf("region name = %q, want Washington", r.Name)
	}

	if _, err := RegionByCode(CountryCA, "XX"); err == nil {
		t.Error("unknown region code should fail")
	}
}

func TestParseCountry(t *testing.T) {
	tests := []struct {
		in      string
		want    Country
		wantErr bool
	}{
		{in: "us", want: CountryUS},
		{in: "US", want: CountryUS},
		{in: "ca", want: CountryCA},
		{in: "de", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCountry(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCountry(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseCountry(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCurrency(t *testing.T) {
	if cur, err := Currency(CountryUS); err != nil || cur != "USD" {
		t.Errorf("Currency(us) = %q, %v; want USD", cur, err)
	}
	if cur, err := Currency(CountryCA); err != nil || cur != "CAD" {
		t.Errorf("Currency(ca) = %q, %v; want CAD", cur, err)
	}
}

func TestFuels(t *testing.T) {
	fuels, err := Fuels()
	if err != nil {
		t.Fatalf("Fuels() error = %v", err)
	}
	if len(fuels) != 5 {
		t.Errorf("got %d fuels, want 5", len(fuels))
	}
	for _, f := range fuels {
		if f.KWhPerUnit <= 0 || f.Efficiency <= 0 {
			t.Errorf("fuel %s: invalid spec %+v", f.Fuel, f)
		}
	}

	hp, err := FuelByName(metrics.FuelHeatPump)
	if err != nil {
		t.Fatalf("FuelByName(heat_pump) error = %v", err)
	}
	if hp.Efficiency <= 1 {
		t.Errorf("heat pump efficiency = %v, want COP > 1", hp.Efficiency)
	}
}

func TestFuelPrices(t *testing.T) {
	for _, country := range []Country{CountryUS, CountryCA} {
		prices, err := FuelPrices(country)
		if err != nil {
			t.Fatalf("FuelPrices(%s) error = %v", country, err)
		}
		for _, fuel := range []metrics.Fuel{metrics.FuelNaturalGas, metrics.FuelHeatingOil, metrics.FuelPropane} {
			if prices[fuel] <= 0 {
				t.Errorf("%s: fuel %s unpriced", country, fuel)
			}
		}
		// Grid-priced heating never appears in the national table.
		if _, ok := prices[metrics.FuelElectric]; ok {
			t.Errorf("%s: electric heating must price off the regional table", country)
		}
	}
}
