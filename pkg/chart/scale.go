// Package chart computes chart-ready geometry from raw numeric series.
//
// The package is the single source of scale, tick and geometry math shared by
// the interactive calculator and the static report renderer. Both consumers
// receive byte-for-byte identical descriptors for identical inputs: all
// functions here are pure, synchronous and allocation-fresh on every call.
//
// The pipeline is: series → Scale/NiceTicks → Build{Bars,Line,DualAxis} →
// drawable geometry ({x,y,w,h} bars, point lists, SVG-style path strings).
package chart

import "math"

// FallbackNiceMax is the axis maximum used when a series has no positive
// values, so a chart always renders a valid (if trivial) axis.
const FallbackNiceMax = 100.0

// Scale maps a data value onto an axis range in drawing units.
type Scale func(value float64) float64

// Linear returns a scale mapping [min, max] linearly onto [0, length].
//
// Degenerate domains never divide by zero: if the span is not positive the
// domain maximum is substituted with min+1, so every in-domain value maps to
// the range floor. Output is clamped to [0, length] so out-of-domain values
// cannot escape the chart box.
func Linear(min, max, length float64) Scale {
	span := max - min
	if span <= 0 {
		span = 1
	}
	return func(v float64) float64 {
		return clamp((v-min)/span*length, 0, length)
	}
}

// LinearDown returns a scale mapping [min, max] onto [length, 0] for y-down
// screen coordinates: the domain minimum lands at the bottom of the chart box
// and the maximum at the top.
func LinearDown(min, max, length float64) Scale {
	up := Linear(min, max, length)
	return func(v float64) float64 {
		return length - up(v)
	}
}

// CategoryScale returns a scale mapping a category index to the horizontal
// center of its slot. Position is keyed by index, not by value: slot i covers
// [i*slot, (i+1)*slot) and the returned offset is its midpoint.
func CategoryScale(count int, width float64) Scale {
	if count < 1 {
		count = 1
	}
	slot := width / float64(count)
	return func(idx float64) float64 {
		return (idx + 0.5) * slot
	}
}

// TickMode selects the nice-max rounding strategy for an axis.
type TickMode int

const (
	// TickModeLog rounds the axis maximum up to the nearest 1/2/5/10
	// multiple of its power of ten.
	TickModeLog TickMode = iota

	// TickModeStep100 uses a fixed step rounded up to the nearest 100.
	TickModeStep100
)

// String returns the mode name for logs and cache keys.
func (m TickMode) String() string {
	if m == TickModeStep100 {
		return "step100"
	}
	return "log"
}

// NiceMax computes the smallest "nice" axis maximum covering maxValue.
//
// In TickModeLog the result is niceNorm * 10^floor(log10(maxValue)) where
// niceNorm is the smallest of {1, 2, 5, 10} that covers the normalized value.
// In TickModeStep100 the result is count * step where step is maxValue/count
// rounded up to the nearest 100 (minimum 100).
//
// A maxValue ≤ 0 (or non-finite) falls back to FallbackNiceMax in log mode
// and to a 100-unit step in step mode, guaranteeing a non-degenerate axis.
func NiceMax(maxValue float64, count int, mode TickMode) float64 {
	if count < 1 {
		count = 1
	}
	if mode == TickModeStep100 {
		return float64(count) * niceStep100(maxValue, count)
	}
	if maxValue <= 0 || math.IsInf(maxValue, 0) || math.IsNaN(maxValue) {
		return FallbackNiceMax
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	norm := maxValue / magnitude
	var nice float64
	switch {
	case norm <= 1:
		nice = 1
	case norm <= 2:
		nice = 2
	case norm <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * magnitude
}

// NiceTicks returns count+1 evenly spaced, strictly increasing tick values
// covering [0, NiceMax(maxValue, count, mode)]. The last tick is always ≥
// maxValue for any series with a positive maximum.
func NiceTicks(maxValue float64, count int, mode TickMode) []float64 {
	if count < 1 {
		count = 1
	}
	niceMax := NiceMax(maxValue, count, mode)
	ticks := make([]float64, count+1)
	for i := 0; i <= count; i++ {
		ticks[i] = niceMax * float64(i) / float64(count)
	}
	return ticks
}

// niceStep100 computes the fixed tick step for TickModeStep100: the per-tick
// share of maxValue rounded up to the nearest 100.
func niceStep100(maxValue float64, count int) float64 {
	if maxValue <= 0 || math.IsInf(maxValue, 0) || math.IsNaN(maxValue) {
		return 100
	}
	step := math.Ceil(maxValue/float64(count)/100) * 100
	if step < 100 {
		step = 100
	}
	return step
}

// SeriesMax returns the maximum finite value of the series, ignoring NaN and
// infinities. Returns 0 for an empty or all-non-finite series.
func SeriesMax(series []float64) float64 {
	var max float64
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}

// SeriesMin returns the minimum finite value of the series, capped at 0.
// Charts anchor their value axis at zero unless the series dips negative.
func SeriesMin(series []float64) float64 {
	var min float64
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
	}
	return min
}

// ClampFinite replaces NaN and infinities with the nearest bound and clamps
// finite values to [lo, hi]. Callers sanitize unbounded metric values (COPe
// can reach +Inf) with this before building geometry.
func ClampFinite(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case math.IsInf(v, 1):
		return hi
	case math.IsInf(v, -1):
		return lo
	}
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
