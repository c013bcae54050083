package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lcmonte/domain/stats"
	"lcmonte/internal/generator"
)

func testBins() []BinSpec {
	return []BinSpec{
		{
			Identity: stats.BinIdentity{
				Model:  "sine",
				Params: []stats.ParamRange{{Name: "Period", Min: 4, Max: 4}},
				Noise:  0,
			},
			Generator: generator.Sine{Amplitude: 0.25, Period: 4},
			Points:    40,
			Span:      20,
			Jitter:    0.3,
		},
		{
			Identity: stats.BinIdentity{
				Model:  "white",
				Params: []stats.ParamRange{{Name: "Sigma", Min: 0.2, Max: 0.2}},
				Noise:  0.05,
			},
			Generator: generator.WhiteNoise{Sigma: 0.2},
			Points:    40,
			Span:      20,
			Jitter:    0.3,
		},
	}
}

func testConfig() Config {
	return Config{
		Trials:   3,
		Seed:     42,
		Families: stats.NewFamilySet(stats.FamilyC1, stats.FamilyDmdtCut, stats.FamilyPeakCut),
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig()
	runID, results, err := New(nil).Run(context.Background(), testBins(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !runID.IsValid() {
		t.Fatalf("invalid run id %q", runID)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Results come back in input order even though bins run in parallel.
	if results[0].Identity.Model != "sine" || results[1].Identity.Model != "white" {
		t.Fatalf("results out of order: %s, %s",
			results[0].Identity.Model, results[1].Identity.Model)
	}
	for _, result := range results {
		if result.Trials != cfg.Trials {
			t.Fatalf("%s: expected %d trials, got %d",
				result.Identity.Model, cfg.Trials, result.Trials)
		}
		if len(strings.Split(result.Header, "\t")) != len(strings.Split(result.Row, "\t")) {
			t.Fatalf("%s: header and row column counts differ", result.Identity.Model)
		}
		if len(result.Summaries) == 0 {
			t.Fatalf("%s: no summaries", result.Identity.Model)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig()
	_, first, err := New(nil).Run(context.Background(), testBins(), cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	_, second, err := New(nil).Run(context.Background(), testBins(), cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range first {
		if first[i].Row != second[i].Row {
			t.Fatalf("bin %d: same seed produced different rows:\n%s\n%s",
				i, first[i].Row, second[i].Row)
		}
	}
}

func TestRunWritesAuxFiles(t *testing.T) {
	cfg := testConfig()
	cfg.OutputDir = t.TempDir()

	_, results, err := New(nil).Run(context.Background(), testBins(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Every aux file named in a row must exist and be non-empty.
	for _, result := range results {
		for _, field := range strings.Split(result.Row, "\t") {
			if !strings.HasSuffix(field, ".dat") {
				continue
			}
			info, err := os.Stat(filepath.Join(cfg.OutputDir, field))
			if err != nil {
				t.Fatalf("missing aux file %s: %v", field, err)
			}
			if info.Size() == 0 {
				t.Fatalf("empty aux file %s", field)
			}
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(nil).Run(ctx, testBins(), testConfig())
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRunWorkerLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 1

	_, results, err := New(nil).Run(context.Background(), testBins(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
