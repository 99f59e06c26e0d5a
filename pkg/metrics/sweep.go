package metrics

import (
	"github.com/hashheat/hashheat/pkg/errors"
)

// SweepVar names the input a sensitivity sweep varies.
type SweepVar string

const (
	SweepElectricityPrice SweepVar = "electricity_price"
	SweepHashprice        SweepVar = "hashprice"
	SweepFuelPrice        SweepVar = "fuel_price"
)

// ParseSweepVar validates a sweep variable name.
func ParseSweepVar(s string) (SweepVar, error) {
	switch SweepVar(s) {
	case SweepElectricityPrice, SweepHashprice, SweepFuelPrice:
		return SweepVar(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"unknown sweep variable: %q (must be electricity_price, hashprice or fuel_price)", s)
}

// Sweep is a metric evaluated across a swept input: Inputs[i] produced
// Values[i]. Current is the index of the step closest to the user's actual
// input, for the highlighted point on line charts.
type Sweep struct {
	Var     SweepVar  `json:"var"`
	Metric  Metric    `json:"metric"`
	Inputs  []float64 `json:"inputs"`
	Values  []float64 `json:"values"`
	Current int       `json:"current"`
}

// SweepHeating recomputes one heating metric over an evenly spaced range of a
// single input, holding everything else fixed. steps is the number of
// intervals, so the result has steps+1 points including both endpoints.
func SweepHeating(base HeatingInputs, sv SweepVar, metric Metric, from, to float64, steps int) (Sweep, error) {
	if err := base.Validate(); err != nil {
		return Sweep{}, err
	}
	if steps < 1 {
		return Sweep{}, errors.New(errors.ErrCodeInvalidInput, "sweep needs at least 1 step, got %d", steps)
	}
	if !isFinite(from) || !isFinite(to) || to <= from {
		return Sweep{}, errors.New(errors.ErrCodeInvalidInput, "sweep range [%v, %v] must be finite and increasing", from, to)
	}
	if metric == MetricSubsidy {
		return Sweep{}, errors.New(errors.ErrCodeInvalidMetric, "metric %s belongs to the solar calculator", metric)
	}

	actual, err := sweepVarValue(base, sv)
	if err != nil {
		return Sweep{}, err
	}

	sweep := Sweep{
		Var:     sv,
		Metric:  metric,
		Inputs:  make([]float64, steps+1),
		Values:  make([]float64, steps+1),
		Current: -1,
	}

	width := (to - from) / float64(steps)
	for i := 0; i <= steps; i++ {
		v := from + float64(i)*width
		sweep.Inputs[i] = v

		in := base
		switch sv {
		case SweepElectricityPrice:
			in.ElectricityPrice = v
		case SweepHashprice:
			in.Hashprice = v
		case SweepFuelPrice:
			in.FuelPricePerKWh = v
		}

		res, err := Heating(in)
		if err != nil {
			return Sweep{}, err
		}
		sweep.Values[i] = heatingMetric(res, metric)
	}

	sweep.Current = nearestStep(sweep.Inputs, actual)
	return sweep, nil
}

func sweepVarValue(in HeatingInputs, sv SweepVar) (float64, error) {
	switch sv {
	case SweepElectricityPrice:
		return in.ElectricityPrice, nil
	case SweepHashprice:
		return in.Hashprice, nil
	case SweepFuelPrice:
		return in.FuelPricePerKWh, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown sweep variable: %q", sv)
}

func heatingMetric(res HeatingResult, m Metric) float64 {
	switch m {
	case MetricCOPe:
		return res.COPe
	case MetricRevenue:
		return res.MiningRevenue
	default:
		return res.SavingsPct
	}
}

// nearestStep returns the index of the step closest to actual, or -1 when the
// actual value lies outside the swept range.
func nearestStep(inputs []float64, actual float64) int {
	if len(inputs) == 0 || actual < inputs[0] || actual > inputs[len(inputs)-1] {
		return -1
	}
	best, bestDist := 0, actual-inputs[0]
	if bestDist < 0 {
		bestDist = -bestDist
	}
	for i, v := range inputs[1:] {
		d := actual - v
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}
