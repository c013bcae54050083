package periodogram

import (
	"math/rand"

	"lcmonte/adapters/stats/numeric"
)

const (
	// defaultFAP is the false-alarm probability defining "significant".
	defaultFAP = 0.01
	// defaultBootstrap is the number of Monte Carlo shuffles per threshold.
	defaultBootstrap = 1000
)

// FAPCache memoizes the bootstrap false-alarm-probability power threshold
// for one frequency-grid shape. Trials sharing a cadence share the same
// grid bounds, so the expensive bootstrap runs once per cadence instead of
// once per trial. The cache is invalidated whenever the requested bounds
// change. Not safe for concurrent use: own one per driver.
type FAPCache struct {
	fap   float64
	boot  int
	fMin  float64
	fMax  float64
	n     int
	value float64
	valid bool
}

// NewFAPCache creates a cache with the given false-alarm probability and
// bootstrap count. Zero arguments select the defaults.
func NewFAPCache(fap float64, bootstrap int) *FAPCache {
	if fap <= 0 || fap >= 1 {
		fap = defaultFAP
	}
	if bootstrap <= 0 {
		bootstrap = defaultBootstrap
	}
	return &FAPCache{fap: fap, boot: bootstrap}
}

// Threshold returns the power level exceeded by noise alone with
// probability fap, estimated by shuffling the magnitudes against the fixed
// observation times and recording the maximum power of each shuffle.
func (c *FAPCache) Threshold(times, mags, freqs []float64, rng *rand.Rand) (float64, error) {
	if len(freqs) == 0 {
		return 0, nil
	}
	fMin, fMax := freqs[0], freqs[len(freqs)-1]
	if c.valid && c.fMin == fMin && c.fMax == fMax && c.n == len(times) {
		return c.value, nil
	}

	shuffled := make([]float64, len(mags))
	copy(shuffled, mags)
	maxima := make([]float64, c.boot)
	for b := 0; b < c.boot; b++ {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		powers, err := Power(times, shuffled, freqs)
		if err != nil {
			return 0, err
		}
		peak := powers[0]
		for _, p := range powers[1:] {
			if p > peak {
				peak = p
			}
		}
		maxima[b] = peak
	}

	threshold, err := numeric.Quantile(maxima, 1-c.fap)
	if err != nil {
		return 0, err
	}
	c.fMin = fMin
	c.fMax = fMax
	c.n = len(times)
	c.value = threshold
	c.valid = true
	return threshold, nil
}

// Invalidate drops the cached threshold.
func (c *FAPCache) Invalidate() {
	c.valid = false
}
