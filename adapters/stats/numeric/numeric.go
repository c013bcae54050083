// Package numeric provides the NaN-aware primitives every engine and the
// accumulation framework build on. Unlike the general-purpose helpers in
// github.com/montanaflynn/stats, these treat NaN entries as "value missing
// for this trial" and never fail on them.
package numeric

import (
	"math"
	"sort"

	"lcmonte/domain/core"
)

// IsNaNOrInf reports whether x is NaN or infinite.
func IsNaNOrInf(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

// MeanNoNaN returns the arithmetic mean of the finite subset of values.
// Returns NaN when no finite value is present; never fails.
func MeanNoNaN(values []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if IsNaNOrInf(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// VarianceNoNaN returns the unbiased (n-1) sample variance of the finite
// subset. Returns NaN with fewer than 2 finite values. Tiny negative results
// from round-off, down to -1e-12, are clamped to exactly 0.
func VarianceNoNaN(values []float64) float64 {
	mean := MeanNoNaN(values)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	sum := 0.0
	n := 0
	for _, v := range values {
		if IsNaNOrInf(v) {
			continue
		}
		d := v - mean
		sum += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	variance := sum / float64(n-1)
	if variance < 0 && variance >= -1e-12 {
		variance = 0
	}
	return variance
}

// StdDevNoNaN is the square root of VarianceNoNaN.
func StdDevNoNaN(values []float64) float64 {
	return math.Sqrt(VarianceNoNaN(values))
}

// Quantile sorts a copy of values and returns the element at index
// floor(q*n), with q==1 mapping to the last element. Fails with
// ErrInvalidInput when q is outside [0,1] or values is empty. The input must
// not contain NaN.
func Quantile(values []float64, q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, core.NewInvalidInputError("quantile must be in [0,1]")
	}
	if len(values) == 0 {
		return 0, core.NewInvalidInputError("quantile of empty slice")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(math.Floor(q * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx], nil
}

// DefinedFraction returns count(finite)/count(total), 0 for empty input.
func DefinedFraction(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if !IsNaNOrInf(v) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}
