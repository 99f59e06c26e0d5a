// Package refdata provides the embedded reference tables: per-region
// electricity prices for the US and Canadian populations, and fuel heat
// content with national average prices.
//
// The tables are TOML files embedded with go:embed and parsed once on first
// access. Accessors return copies, so callers can never corrupt the shared
// tables.
package refdata

import (
	"embed"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/metrics"
)

//go:embed data/*.toml
var dataFS embed.FS

// Country selects a reference population.
type Country string

const (
	CountryUS Country = "us"
	CountryCA Country = "ca"
)

// ParseCountry validates a country code.
func ParseCountry(s string) (Country, error) {
	switch Country(strings.ToLower(s)) {
	case CountryUS:
		return CountryUS, nil
	case CountryCA:
		return CountryCA, nil
	}
	return "", errors.New(errors.ErrCodeInvalidCountry, "unknown country: %q (must be us or ca)", s)
}

// Region is one member of a reference population.
type Region struct {
	Code string `toml:"code" json:"code"`
	Name string `toml:"name" json:"name"`

	// ElectricityPrice is the average residential price per kWh in the
	// population's currency.
	ElectricityPrice float64 `toml:"electricity_price" json:"electricity_price"`
}

type populationFile struct {
	Country  string   `toml:"country"`
	Currency string   `toml:"currency"`
	Regions  []Region `toml:"region"`
}

type fuelFile struct {
	Fuels  []metrics.FuelSpec                  `toml:"fuel"`
	Prices map[string]map[metrics.Fuel]float64 `toml:"prices"`
}

type tables struct {
	populations map[Country]populationFile
	fuels       fuelFile
}

var loadTables = sync.OnceValues(func() (tables, error) {
	t := tables{populations: make(map[Country]populationFile, 2)}

	for country, file := range map[Country]string{
		CountryUS: "data/us_states.toml",
		CountryCA: "data/ca_provinces.toml",
	} {
		data, err := dataFS.ReadFile(file)
		if err != nil {
			return tables{}, errors.Wrap(err, errors.ErrCodeInternal, "reading embedded table %s", file)
		}
		var pop populationFile
		if err := toml.Unmarshal(data, &pop); err != nil {
			return tables{}, errors.Wrap(err, errors.ErrCodeInternal, "parsing embedded table %s", file)
		}
		t.populations[country] = pop
	}

	data, err := dataFS.ReadFile("data/fuels.toml")
	if err != nil {
		return tables{}, errors.Wrap(err, errors.ErrCodeInternal, "reading embedded fuel table")
	}
	if err := toml.Unmarshal(data, &t.fuels); err != nil {
		return tables{}, errors.Wrap(err, errors.ErrCodeInternal, "parsing embedded fuel table")
	}

	return t, nil
})

// Regions returns the reference population for a country, in table order.
func Regions(c Country) ([]Region, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	pop, ok := t.populations[c]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidCountry, "unknown country: %q", c)
	}
	return slices.Clone(pop.Regions), nil
}

// RegionByCode finds one region by its code, case-insensitively.
func RegionByCode(c Country, code string) (Region, error) {
	regions, err := Regions(c)
	if err != nil {
		return Region{}, err
	}
	for _, r := range regions {
		if strings.EqualFold(r.Code, code) {
			return r, nil
		}
	}
	return Region{}, errors.New(errors.ErrCodeRegionNotFound, "no region %q in country %s", code, c)
}

// Currency returns the population's currency code ("USD", "CAD").
func Currency(c Country) (string, error) {
	t, err := loadTables()
	if err != nil {
		return "", err
	}
	pop, ok := t.populations[c]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidCountry, "unknown country: %q", c)
	}
	return pop.Currency, nil
}

// Fuels returns every fuel spec in table order.
func Fuels() ([]metrics.FuelSpec, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.fuels.Fuels), nil
}

// FuelByName finds one fuel spec.
func FuelByName(f metrics.Fuel) (metrics.FuelSpec, error) {
	fuels, err := Fuels()
	if err != nil {
		return metrics.FuelSpec{}, err
	}
	for _, spec := range fuels {
		if spec.Fuel == f {
			return spec, nil
		}
	}
	return metrics.FuelSpec{}, errors.New(errors.ErrCodeNotFound, "no fuel %q in the reference tables", f)
}

// FuelPrices returns the national average price per market unit for each
// priced fuel. Electric and heat-pump heating are priced off the regional
// electricity tables and never appear here.
func FuelPrices(c Country) (map[metrics.Fuel]float64, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	prices, ok := t.fuels.Prices[string(c)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidCountry, "no fuel prices for country %q", c)
	}
	out := make(map[metrics.Fuel]float64, len(prices))
	for fuel, price := range prices {
		out[fuel] = price
	}
	return out, nil
}
