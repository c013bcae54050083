// Package peaks detects alternating local extrema in a magnitude series
// subject to a minimum-amplitude threshold, and derives a waiting-time
// variability timescale by sweeping that threshold.
package peaks

import (
	"math"

	"github.com/montanaflynn/stats"

	"lcmonte/domain/core"
)

// Find returns the alternating-extremum subsequence of (times, values) whose
// successive excursions are at least minAmplitude apart.
//
// The first sample always seeds the output. If no later sample differs from
// it by minAmplitude or more, the seed is returned alone and no peaks are
// recorded. Ties exactly minAmplitude away from the running extremum commit
// a reversal; exact equality to the running extremum does not extend it.
func Find(times, values []float64, minAmplitude float64) ([]float64, []float64, error) {
	if len(times) != len(values) {
		return nil, nil, core.NewLengthMismatchError("times/values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, nil, core.NewNotEnoughDataError("peak finding", len(times), 2)
	}
	if minAmplitude <= 0 || math.IsNaN(minAmplitude) {
		return nil, nil, core.NewInvalidInputError("minimum amplitude must be positive")
	}

	peakT := []float64{times[0]}
	peakV := []float64{values[0]}

	// Find the second point: first sample at least minAmplitude away from
	// the seed. Its direction fixes the initial sign.
	start := -1
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]-values[0]) >= minAmplitude {
			start = i
			break
		}
	}
	if start < 0 {
		return peakT, peakV, nil
	}

	sign := 1.0
	if values[start] < values[0] {
		sign = -1.0
	}
	peakT = append(peakT, times[start])
	peakV = append(peakV, values[start])

	for j := start + 1; j < len(values); j++ {
		last := len(peakV) - 1
		switch {
		case sign*(values[j]-peakV[last]) > 0:
			// Still moving in the current direction: extend the extremum.
			peakT[last] = times[j]
			peakV[last] = values[j]
		case sign*(peakV[last]-values[j]) >= minAmplitude:
			// Reversed far enough: the extremum is committed, this sample
			// starts tracking the next one.
			peakT = append(peakT, times[j])
			peakV = append(peakV, values[j])
			sign = -sign
		}
	}

	return peakT, peakV, nil
}

// Timescales runs Find once per threshold and returns, per threshold, the
// median inter-extremum time interval, or NaN when fewer than two extrema
// were found at that threshold. Cost is O(len(thresholds) * len(times)).
func Timescales(times, values, thresholds []float64) ([]float64, error) {
	if len(times) != len(values) {
		return nil, core.NewLengthMismatchError("times/values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, core.NewNotEnoughDataError("peak timescales", len(times), 2)
	}

	out := make([]float64, len(thresholds))
	for k, threshold := range thresholds {
		peakT, _, err := Find(times, values, threshold)
		if err != nil {
			return nil, err
		}
		if len(peakT) < 2 {
			out[k] = math.NaN()
			continue
		}
		intervals := make([]float64, len(peakT)-1)
		for i := 1; i < len(peakT); i++ {
			intervals[i-1] = peakT[i] - peakT[i-1]
		}
		median, err := stats.Median(intervals)
		if err != nil {
			return nil, core.NewUndefinedError("peak timescale", err.Error())
		}
		out[k] = median
	}
	return out, nil
}
