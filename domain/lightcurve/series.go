// Package lightcurve holds the time-series value types shared by every
// statistics engine: an observed light curve is an ordered sequence of
// (time, value) pairs with strictly non-decreasing times.
package lightcurve

import (
	"math"
	"sort"

	"lcmonte/domain/core"
)

// Series is one light curve. Times are sorted ascending and never NaN;
// Values may contain NaN where the originating measurement was invalid.
type Series struct {
	Times  []float64
	Values []float64
}

// New validates and wraps a (times, values) pair. It does not copy.
func New(times, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, core.NewLengthMismatchError("times/values", len(times), len(values))
	}
	for i, t := range times {
		if math.IsNaN(t) {
			return Series{}, core.NewInvalidInputError("NaN time value")
		}
		if i > 0 && t < times[i-1] {
			return Series{}, core.NewInvalidInputError("times not sorted ascending")
		}
	}
	return Series{Times: times, Values: values}, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Times)
}

// Span returns the total observed baseline, 0 for fewer than 2 samples.
func (s Series) Span() float64 {
	if len(s.Times) < 2 {
		return 0
	}
	return s.Times[len(s.Times)-1] - s.Times[0]
}

// FluxToMag converts a single flux to a magnitude. Non-positive or NaN flux
// maps to NaN so downstream NaN stripping removes the sample.
func FluxToMag(flux float64) float64 {
	if math.IsNaN(flux) || flux <= 0 {
		return math.NaN()
	}
	return -2.5 * math.Log10(flux)
}

// MagToFlux inverts FluxToMag.
func MagToFlux(mag float64) float64 {
	return math.Pow(10, -0.4*mag)
}

// ToMagnitudes converts a flux series to magnitudes in place of a copy.
func ToMagnitudes(fluxes []float64) []float64 {
	mags := make([]float64, len(fluxes))
	for i, f := range fluxes {
		mags[i] = FluxToMag(f)
	}
	return mags
}

// StripNaNs returns copies of times and values with every NaN-valued sample
// removed, preserving relative order.
func StripNaNs(times, values []float64) ([]float64, []float64, error) {
	if len(times) != len(values) {
		return nil, nil, core.NewLengthMismatchError("times/values", len(times), len(values))
	}
	outT := make([]float64, 0, len(times))
	outV := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		outT = append(outT, times[i])
		outV = append(outV, v)
	}
	return outT, outV, nil
}

// Amplitude returns the 5th-to-95th percentile spread of the values, the
// robust amplitude measure used by the timescale cut statistics.
func Amplitude(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)
	lo := sorted[quantileIndex(0.05, len(sorted))]
	hi := sorted[quantileIndex(0.95, len(sorted))]
	return hi - lo
}

// C1 is the percentile-spread variability index: the position of the median
// within the 5-95 percentile range. Undefined for zero-amplitude curves.
func C1(values []float64) (float64, error) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) < 2 {
		return 0, core.NewNotEnoughDataError("C1", len(clean), 2)
	}
	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)
	lo := sorted[quantileIndex(0.05, len(sorted))]
	hi := sorted[quantileIndex(0.95, len(sorted))]
	med := sorted[quantileIndex(0.50, len(sorted))]
	if hi == lo {
		return 0, core.NewUndefinedError("C1", "zero amplitude")
	}
	return (med - lo) / (hi - lo), nil
}

// quantileIndex maps q in [0,1] to an index into a sorted slice of length n
// using the floor(q*n) convention, with q==1 clamped to the last element.
func quantileIndex(q float64, n int) int {
	idx := int(math.Floor(q * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
