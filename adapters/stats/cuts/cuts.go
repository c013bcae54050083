// Package cuts implements the threshold-cut primitives shared by every
// timescale extractor: find the position where a value series first (or
// last) satisfies a predicate.
package cuts

import (
	"math"

	"lcmonte/domain/core"
)

// Predicate tests one value of a cut scan. NaN values fail the numeric
// threshold predicates, which makes scanning NaN-bearing curves safe.
type Predicate func(float64) bool

// MoreThan returns a predicate satisfied by values strictly above threshold.
func MoreThan(threshold float64) Predicate {
	return func(v float64) bool { return v > threshold }
}

// LessThan returns a predicate satisfied by values strictly below threshold.
func LessThan(threshold float64) Predicate {
	return func(v float64) bool { return v < threshold }
}

// Defined is satisfied by any non-NaN value.
func Defined() Predicate {
	return func(v float64) bool { return !math.IsNaN(v) }
}

// Forward scans values from the start and returns positions[i] at the first
// index where pred holds, or NaN if it never does. Positions must not
// contain NaN.
func Forward(positions, values []float64, pred Predicate) (float64, error) {
	if len(positions) != len(values) {
		return 0, core.NewLengthMismatchError("positions/values", len(positions), len(values))
	}
	for i, v := range values {
		if pred(v) {
			return positions[i], nil
		}
	}
	return math.NaN(), nil
}

// Reverse scans values from the end and returns positions[i] at the last
// index where pred holds, or NaN if it never does.
func Reverse(positions, values []float64, pred Predicate) (float64, error) {
	if len(positions) != len(values) {
		return 0, core.NewLengthMismatchError("positions/values", len(positions), len(values))
	}
	for i := len(values) - 1; i >= 0; i-- {
		if pred(values[i]) {
			return positions[i], nil
		}
	}
	return math.NaN(), nil
}
