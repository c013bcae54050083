// Package runner drives a full simulation: for every bin it generates the
// configured number of synthetic trials, feeds them through that bin's
// driver, and gathers the aggregate output rows. Independent bins run in
// parallel; each owns its driver, its RNG and its collections, so no state
// is shared across workers.
package runner

import (
	"context"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"lcmonte/domain/core"
	"lcmonte/domain/stats"
	"lcmonte/internal"
	"lcmonte/internal/binstats"
	"lcmonte/internal/generator"
	"lcmonte/ports"
)

// BinSpec configures one accumulation bin of a run.
type BinSpec struct {
	Identity  stats.BinIdentity
	Generator ports.Generator
	// Points and Span define the observation cadence; Jitter perturbs it.
	Points int
	Span   float64
	Jitter float64
}

// Config holds the run-wide settings.
type Config struct {
	Trials   int
	Seed     int64
	Families stats.FamilySet
	// Workers caps parallel bins; <=0 means one goroutine per bin.
	Workers int
	// OutputDir receives the auxiliary distribution files; empty skips them.
	OutputDir string
}

// BinResult is one bin's aggregate outcome.
type BinResult struct {
	Identity  stats.BinIdentity
	Header    string
	Row       string
	Trials    int
	Summaries []binstats.NamedSummary
}

// Runner executes simulation runs.
type Runner struct {
	log *internal.Logger
}

// New creates a runner.
func New(logger *internal.Logger) *Runner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{log: logger}
}

// Run simulates every bin and returns one result per bin, in input order.
// A hard failure in any bin cancels the remaining ones.
func (r *Runner) Run(ctx context.Context, bins []BinSpec, cfg Config) (core.ID, []BinResult, error) {
	runID := core.NewID()
	results := make([]BinResult, len(bins))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, bin := range bins {
		g.Go(func() error {
			// Offset the seed per bin so bins draw independent streams
			// while the whole run stays reproducible.
			seed := cfg.Seed + int64(i)
			result, err := r.runBin(ctx, bin, cfg, seed)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return runID, nil, err
	}
	return runID, results, nil
}

func (r *Runner) runBin(ctx context.Context, bin BinSpec, cfg Config, seed int64) (BinResult, error) {
	rng := rand.New(rand.NewSource(seed))
	driver := binstats.New(bin.Identity, cfg.Families, r.log, seed)

	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return BinResult{}, err
		}
		times := generator.JitteredTimes(bin.Points, bin.Span, bin.Jitter, rng)
		fluxes := bin.Generator.Generate(rng, times)
		if bin.Identity.Noise > 0 {
			fluxes = generator.AddNoise(fluxes, bin.Identity.Noise, rng)
		}

		err := driver.Analyze(times, fluxes)
		switch {
		case err == nil:
		case core.IsNotEnoughData(err):
			// The trial contributed nothing; move on to the next one.
			r.log.Debug("bin %s trial %d: %v", bin.Identity.Label(), trial, err)
		default:
			r.log.Error("bin %s trial %d: %v", bin.Identity.Label(), trial, err)
			return BinResult{}, err
		}
	}

	if cfg.OutputDir != "" {
		if err := driver.WriteAuxFiles(cfg.OutputDir); err != nil {
			return BinResult{}, err
		}
	}

	return BinResult{
		Identity:  bin.Identity,
		Header:    driver.HeaderRow(),
		Row:       driver.OutputRow(),
		Trials:    driver.Trials(),
		Summaries: driver.FamilySummaries(),
	}, nil
}
