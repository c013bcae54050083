// Package periodogram computes a Lomb-Scargle power spectrum over an
// automatically chosen frequency grid, a bootstrap false-alarm-probability
// threshold, and the dominant significant period.
package periodogram

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"lcmonte/domain/core"
)

const (
	// minFrequency floors the grid so absurdly long trial periods are not
	// searched on short baselines.
	minFrequency = 0.005
	// oversample controls the frequency resolution relative to 1/span.
	oversample = 10.0
)

// FreqGrid builds the frequency grid [max(1/span, minFrequency),
// pseudo-Nyquist] with spacing 1/(oversample*span).
func FreqGrid(times []float64) ([]float64, error) {
	n := len(times)
	if n < 2 {
		return nil, core.NewNotEnoughDataError("frequency grid", n, 2)
	}
	span := times[n-1] - times[0]
	if span <= 0 {
		return nil, core.NewUndefinedError("frequency grid", "zero time span")
	}
	fMin := math.Max(1.0/span, minFrequency)
	fMax := 0.5 * float64(n) / span // pseudo-Nyquist for uneven sampling
	if fMax <= fMin {
		return nil, core.NewUndefinedError("frequency grid", "pseudo-Nyquist below minimum frequency")
	}
	df := 1.0 / (oversample * span)
	freqs := []float64{}
	for f := fMin; f <= fMax; f += df {
		freqs = append(freqs, f)
	}
	return freqs, nil
}

// Power computes the variance-normalized Lomb-Scargle power at each
// frequency of the grid.
func Power(times, mags, freqs []float64) ([]float64, error) {
	if len(times) != len(mags) {
		return nil, core.NewLengthMismatchError("times/mags", len(times), len(mags))
	}
	n := len(times)
	if n < 2 {
		return nil, core.NewNotEnoughDataError("periodogram", n, 2)
	}

	mean := 0.0
	for _, m := range mags {
		mean += m
	}
	mean /= float64(n)

	variance := 0.0
	centered := make([]float64, n)
	for i, m := range mags {
		centered[i] = m - mean
		variance += centered[i] * centered[i]
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return nil, core.NewUndefinedError("periodogram", "constant series")
	}

	powers := make([]float64, len(freqs))
	for k, f := range freqs {
		omega := 2 * math.Pi * f

		// Scargle's tau makes the estimate invariant to time shifts.
		var sin2, cos2 float64
		for _, t := range times {
			sin2 += math.Sin(2 * omega * t)
			cos2 += math.Cos(2 * omega * t)
		}
		tau := math.Atan2(sin2, cos2) / (2 * omega)

		var cNum, sNum, cDen, sDen float64
		for i, t := range times {
			c := math.Cos(omega * (t - tau))
			s := math.Sin(omega * (t - tau))
			cNum += centered[i] * c
			sNum += centered[i] * s
			cDen += c * c
			sDen += s * s
		}
		power := 0.0
		if cDen > 0 {
			power += cNum * cNum / cDen
		}
		if sDen > 0 {
			power += sNum * sNum / sDen
		}
		powers[k] = power / (2 * variance)
	}
	return powers, nil
}

// BestPeriod returns the period of the single highest peak, provided its
// power exceeds threshold. Ties for maximum power resolve to the first
// occurrence in frequency order. An insignificant spectrum is undefined.
func BestPeriod(freqs, powers []float64, threshold float64) (float64, error) {
	if len(freqs) != len(powers) {
		return 0, core.NewLengthMismatchError("freqs/powers", len(freqs), len(powers))
	}
	if len(freqs) == 0 {
		return 0, core.NewUndefinedError("best period", "empty periodogram")
	}
	best := 0
	for i := 1; i < len(powers); i++ {
		if powers[i] > powers[best] {
			best = i
		}
	}
	if powers[best] <= threshold {
		return 0, core.NewUndefinedError("best period", "no peak above false-alarm threshold")
	}
	return 1.0 / freqs[best], nil
}

// AnalyticThreshold is the closed-form counterpart of the bootstrap
// threshold: normalized powers of pure Gaussian noise follow a unit
// exponential, so over m effectively independent frequencies the power
// exceeded with probability fap is the exponential quantile of the
// per-frequency tail. Useful as a cheap sanity bound on the bootstrap.
func AnalyticThreshold(fap float64, m int) float64 {
	if m <= 0 || fap <= 0 || fap >= 1 {
		return math.Inf(1)
	}
	perFreq := 1 - math.Pow(1-fap, 1.0/float64(m))
	return distuv.Exponential{Rate: 1}.Quantile(1 - perFreq)
}
