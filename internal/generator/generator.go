// Package generator provides the seeded synthetic light-curve models that
// drive simulation runs. Every model draws from a caller-owned *rand.Rand,
// so a run is reproducible from its seed alone.
package generator

import (
	"math"
	"math/rand"

	"lcmonte/domain/lightcurve"
)

// RegularTimes returns n evenly spaced observation times over [0, span].
func RegularTimes(n int, span float64) []float64 {
	times := make([]float64, n)
	if n < 2 {
		return times
	}
	step := span / float64(n-1)
	for i := range times {
		times[i] = float64(i) * step
	}
	return times
}

// JitteredTimes perturbs a regular cadence by uniform jitter (a fraction of
// the step), keeping the result sorted. Models ground-based sampling gaps.
func JitteredTimes(n int, span, jitter float64, rng *rand.Rand) []float64 {
	times := RegularTimes(n, span)
	if n < 2 || jitter <= 0 {
		return times
	}
	step := span / float64(n-1)
	for i := 1; i < n-1; i++ {
		times[i] += (rng.Float64() - 0.5) * jitter * step
	}
	return times
}

// AddNoise perturbs fluxes in place with zero-mean Gaussian noise of the
// given standard deviation and returns them.
func AddNoise(fluxes []float64, sigma float64, rng *rand.Rand) []float64 {
	if sigma <= 0 {
		return fluxes
	}
	for i := range fluxes {
		fluxes[i] += sigma * rng.NormFloat64()
	}
	return fluxes
}

// Sine is a strictly periodic model: a sinusoid in magnitude with the given
// half-amplitude, period and phase.
type Sine struct {
	Amplitude float64
	Period    float64
	Phase     float64
}

func (s Sine) Name() string { return "sine" }

func (s Sine) Generate(rng *rand.Rand, times []float64) []float64 {
	fluxes := make([]float64, len(times))
	for i, t := range times {
		mag := s.Amplitude * math.Sin(2*math.Pi*t/s.Period+s.Phase)
		fluxes[i] = lightcurve.MagToFlux(mag)
	}
	return fluxes
}

// WhiteNoise is the null model: independent Gaussian magnitudes.
type WhiteNoise struct {
	Sigma float64
}

func (w WhiteNoise) Name() string { return "white" }

func (w WhiteNoise) Generate(rng *rand.Rand, times []float64) []float64 {
	fluxes := make([]float64, len(times))
	for i := range times {
		fluxes[i] = lightcurve.MagToFlux(w.Sigma * rng.NormFloat64())
	}
	return fluxes
}

// DampedRandomWalk is an Ornstein-Uhlenbeck process in magnitude with
// relaxation timescale Tau and asymptotic standard deviation Sigma, stepped
// with the exact discretization so irregular cadences are handled without
// bias.
type DampedRandomWalk struct {
	Tau   float64
	Sigma float64
}

func (d DampedRandomWalk) Name() string { return "drw" }

func (d DampedRandomWalk) Generate(rng *rand.Rand, times []float64) []float64 {
	fluxes := make([]float64, len(times))
	if len(times) == 0 {
		return fluxes
	}
	mag := d.Sigma * rng.NormFloat64()
	fluxes[0] = lightcurve.MagToFlux(mag)
	for i := 1; i < len(times); i++ {
		dt := times[i] - times[i-1]
		decay := math.Exp(-dt / d.Tau)
		scatter := d.Sigma * math.Sqrt(1-decay*decay)
		mag = mag*decay + scatter*rng.NormFloat64()
		fluxes[i] = lightcurve.MagToFlux(mag)
	}
	return fluxes
}

// Constant produces a flat light curve, useful for zero-amplitude edge-case
// trials.
type Constant struct {
	Mag float64
}

func (c Constant) Name() string { return "constant" }

func (c Constant) Generate(rng *rand.Rand, times []float64) []float64 {
	fluxes := make([]float64, len(times))
	for i := range fluxes {
		fluxes[i] = lightcurve.MagToFlux(c.Mag)
	}
	return fluxes
}
