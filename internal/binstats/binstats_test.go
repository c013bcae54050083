package binstats

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lcmonte/domain/core"
	"lcmonte/domain/lightcurve"
	"lcmonte/domain/stats"
)

func testIdentity() stats.BinIdentity {
	return stats.BinIdentity{
		Model:  "Sine",
		Params: []stats.ParamRange{{Name: "Period", Min: 2, Max: 8}},
		Noise:  0.05,
	}
}

func fluxesFromMags(mags []float64) []float64 {
	fluxes := make([]float64, len(mags))
	for i, m := range mags {
		fluxes[i] = lightcurve.MagToFlux(m)
	}
	return fluxes
}

func sineTrial(n int, span, period float64) ([]float64, []float64) {
	times := make([]float64, n)
	mags := make([]float64, n)
	for i := range times {
		times[i] = span * float64(i) / float64(n-1)
		mags[i] = 0.3 * math.Sin(2*math.Pi*times[i]/period)
	}
	return times, fluxesFromMags(mags)
}

func TestAnalyzeFailureTiers(t *testing.T) {
	families := stats.NewFamilySet(stats.FamilyPeakCut, stats.FamilyPeakPlot)
	b := New(testIdentity(), families, nil, 1)

	// Trial 1: a clean sawtooth. Every peak statistic is defined.
	times := []float64{0, 1, 2, 3, 4, 5}
	if err := b.Analyze(times, fluxesFromMags([]float64{0, 1, 0, 1, 0, 1})); err != nil {
		t.Fatalf("trial 1: %v", err)
	}

	// Trial 2: constant brightness, zero amplitude. Undefined is absorbed:
	// nulls for the cut collections, nothing for the plot collection.
	if err := b.Analyze(times, fluxesFromMags([]float64{2, 2, 2, 2, 2, 2})); err != nil {
		t.Fatalf("trial 2: %v", err)
	}

	// Trial 3: a single usable sample. Not-enough-data aborts the whole
	// trial before any collection is touched.
	err := b.Analyze([]float64{0}, []float64{1})
	if !core.IsNotEnoughData(err) {
		t.Fatalf("trial 3: expected not-enough-data error, got %v", err)
	}

	if b.Trials() != 2 {
		t.Fatalf("expected 2 recorded trials, got %d", b.Trials())
	}
	for _, c := range b.peakCuts {
		if c.Len() != 2 {
			t.Fatalf("%s: expected 2 entries, got %d", c.Name(), c.Len())
		}
		values := c.Values()
		if math.IsNaN(values[0]) {
			t.Fatalf("%s: trial 1 should be defined, got NaN", c.Name())
		}
		if !math.IsNaN(values[1]) {
			t.Fatalf("%s: trial 2 should be null, got %v", c.Name(), values[1])
		}
		if s := c.Summarize(); s.DefinedFraction != 0.5 {
			t.Fatalf("%s: expected defined fraction 0.5, got %v", c.Name(), s.DefinedFraction)
		}
	}
	// Plot collections legitimately fall behind their scalar siblings.
	if b.peakPlot.Len() != 1 {
		t.Fatalf("expected 1 recorded peak curve, got %d", b.peakPlot.Len())
	}
}

func TestAnalyzeLengthMismatch(t *testing.T) {
	b := New(testIdentity(), stats.NewFamilySet(stats.FamilyC1), nil, 1)
	err := b.Analyze([]float64{0, 1}, []float64{1})
	if !core.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if b.Trials() != 0 {
		t.Fatalf("failed trial must not count, got %d", b.Trials())
	}
}

func TestAnalyzeNegativeFluxStripped(t *testing.T) {
	// Non-positive fluxes have no magnitude; the samples drop out and the
	// trial proceeds on what remains.
	families := stats.NewFamilySet(stats.FamilyC1)
	b := New(testIdentity(), families, nil, 1)

	times := []float64{0, 1, 2, 3}
	fluxes := []float64{1, -0.5, 2, 4}
	if err := b.Analyze(times, fluxes); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if b.c1.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", b.c1.Len())
	}
}

func TestAnalyzeAllFamilies(t *testing.T) {
	families := stats.FamilySet{}
	for _, f := range stats.AllFamilies {
		families[f] = true
	}
	// The bootstrap behind the period family dominates the runtime of this
	// test; everything else is microseconds.
	if testing.Short() {
		delete(families, stats.FamilyPeriod)
	}

	b := New(testIdentity(), families, nil, 42)
	times, fluxes := sineTrial(60, 30, 5)
	if err := b.Analyze(times, fluxes); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	for _, f := range b.enabledFamilies() {
		for _, c := range b.familyScalars(f) {
			if c.Len() != 1 {
				t.Fatalf("%s: expected 1 entry, got %d", c.Name(), c.Len())
			}
			if math.IsNaN(c.Values()[0]) {
				t.Fatalf("%s: expected a defined value for a clean sine", c.Name())
			}
		}
		if c := b.familyPair(f); c != nil && c.Len() != 1 {
			t.Fatalf("%s: expected 1 curve, got %d", c.Name(), c.Len())
		}
	}
	if !testing.Short() {
		period := b.period.Values()[0]
		if math.Abs(period-5.0) > 0.5 {
			t.Fatalf("expected recovered period near 5, got %v", period)
		}
	}
}

func TestHeaderAndRowAgree(t *testing.T) {
	families := stats.NewFamilySet(stats.AllFamilies...)
	b := New(testIdentity(), families, nil, 1)
	times := []float64{0, 1, 2, 3, 4, 5}
	// Zero amplitude: every scalar family records a null, every plot family
	// skips, yet header and row must still line up column for column.
	if err := b.Analyze(times, fluxesFromMags([]float64{1, 1, 1, 1, 1, 1})); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	header := strings.Split(b.HeaderRow(), "\t")
	row := strings.Split(b.OutputRow(), "\t")
	if len(header) != len(row) {
		t.Fatalf("header has %d columns, row has %d", len(header), len(row))
	}
	if header[0] != "LCType" || row[0] != "Sine" {
		t.Fatalf("unexpected leading columns: %q / %q", header[0], row[0])
	}
}

func TestClear(t *testing.T) {
	families := stats.NewFamilySet(stats.FamilyC1, stats.FamilyPeakCut)
	b := New(testIdentity(), families, nil, 1)
	times := []float64{0, 1, 2, 3, 4, 5}
	if err := b.Analyze(times, fluxesFromMags([]float64{0, 1, 0, 1, 0, 1})); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	b.Clear()
	if b.Trials() != 0 {
		t.Fatalf("expected 0 trials after clear, got %d", b.Trials())
	}
	for _, c := range b.scalarCollections() {
		if c.Len() != 0 {
			t.Fatalf("%s: expected empty after clear, got %d", c.Name(), c.Len())
		}
	}
	s := b.c1.Summarize()
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.StdDev) || s.DefinedFraction != 0 {
		t.Fatalf("cleared summary should be (NaN, NaN, 0), got %+v", s)
	}
}

func TestWriteAuxFiles(t *testing.T) {
	families := stats.NewFamilySet(stats.FamilyC1, stats.FamilyPeakPlot)
	b := New(testIdentity(), families, nil, 1)
	times := []float64{0, 1, 2, 3, 4, 5}
	if err := b.Analyze(times, fluxesFromMags([]float64{0, 1, 0, 1, 0, 1})); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	dir := t.TempDir()
	if err := b.WriteAuxFiles(dir); err != nil {
		t.Fatalf("write aux files: %v", err)
	}

	c1Path := filepath.Join(dir, b.c1.FileStem()+auxExt)
	data, err := os.ReadFile(c1Path)
	if err != nil {
		t.Fatalf("read %s: %v", c1Path, err)
	}
	if len(strings.Split(strings.TrimSpace(string(data)), "\n")) != 1 {
		t.Fatalf("expected one line in %s, got %q", c1Path, data)
	}

	plotPath := filepath.Join(dir, b.peakPlot.FileStem()+auxExt)
	data, err = os.ReadFile(plotPath)
	if err != nil {
		t.Fatalf("read %s: %v", plotPath, err)
	}
	if len(strings.Split(strings.TrimSpace(string(data)), "\n")) != 2 {
		t.Fatalf("expected two lines per curve in %s, got %q", plotPath, data)
	}
}

func TestFamilySummaries(t *testing.T) {
	families := stats.NewFamilySet(stats.FamilyC1, stats.FamilyPeakCut)
	b := New(testIdentity(), families, nil, 1)
	times := []float64{0, 1, 2, 3, 4, 5}
	if err := b.Analyze(times, fluxesFromMags([]float64{0, 1, 0, 1, 0, 1})); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	summaries := b.FamilySummaries()
	if len(summaries) != 4 { // C1 plus three peak cuts
		t.Fatalf("expected 4 summaries, got %d", len(summaries))
	}
	if summaries[0].Family != stats.FamilyC1 || summaries[0].Name != "C1" {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	for _, s := range summaries {
		if s.Summary.DefinedFraction != 1 {
			t.Fatalf("%s: expected fully defined, got %v", s.Name, s.Summary.DefinedFraction)
		}
	}
}
