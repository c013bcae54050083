package ports

import "math/rand"

// Generator produces one synthetic light curve per trial: fluxes evaluated
// at the given observation times. Implementations must be deterministic for
// a fixed rng state so that runs are reproducible from a seed.
type Generator interface {
	// Name identifies the model family, e.g. "sine" or "drw".
	Name() string

	// Generate returns one flux per observation time.
	Generate(rng *rand.Rand, times []float64) []float64
}
