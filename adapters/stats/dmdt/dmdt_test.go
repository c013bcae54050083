package dmdt

import (
	"math"
	"testing"

	"lcmonte/domain/core"
)

func TestDeltas(t *testing.T) {
	t.Run("sorted absolute pairwise differences", func(t *testing.T) {
		times := []float64{0, 1, 3}
		mags := []float64{0, -1, 2}

		deltaT, deltaM, err := Deltas(times, mags)
		if err != nil {
			t.Fatalf("deltas: %v", err)
		}
		wantT := []float64{1, 2, 3}
		wantM := []float64{1, 3, 2}
		for i := range wantT {
			if deltaT[i] != wantT[i] || deltaM[i] != wantM[i] {
				t.Fatalf("pair %d: expected (%v, %v), got (%v, %v)",
					i, wantT[i], wantM[i], deltaT[i], deltaM[i])
			}
		}
	})

	t.Run("fewer than two samples rejected", func(t *testing.T) {
		if _, _, err := Deltas([]float64{1}, []float64{1}); !core.IsNotEnoughData(err) {
			t.Fatalf("expected not-enough-data error, got %v", err)
		}
	})
}

func TestBinEdges(t *testing.T) {
	edges := BinEdges(1.0)
	if len(edges) < 2 {
		t.Fatalf("expected multiple edges, got %v", edges)
	}
	if math.Abs(edges[0]-math.Pow(10, -1.97)) > 1e-12 {
		t.Fatalf("unexpected first edge %v", edges[0])
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			t.Fatalf("edges not increasing at %d: %v", i, edges)
		}
	}
	if edges[len(edges)-1] < 1.0 {
		t.Fatalf("last edge %v does not cover span", edges[len(edges)-1])
	}
	if edges[len(edges)-2] >= 1.0 {
		t.Fatalf("grid extends past span: %v", edges)
	}
}

func TestBinQuantile(t *testing.T) {
	t.Run("boundary pairs land in the right bin", func(t *testing.T) {
		deltaT := []float64{0.1, 0.1, 5, 5}
		deltaM := []float64{1, 2, 3, 4}
		edges := []float64{0, 1, 10}

		got, err := BinQuantile(deltaT, deltaM, edges, 0.5)
		if err != nil {
			t.Fatalf("bin quantile: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 bins, got %v", got)
		}
		if got[0] != 2 || got[1] != 4 {
			t.Fatalf("expected [2 4], got %v", got)
		}
	})

	t.Run("empty bin yields NaN", func(t *testing.T) {
		got, err := BinQuantile([]float64{5}, []float64{1}, []float64{0, 1, 10}, 0.5)
		if err != nil {
			t.Fatalf("bin quantile: %v", err)
		}
		if !math.IsNaN(got[0]) {
			t.Fatalf("expected NaN for empty bin, got %v", got[0])
		}
		if got[1] != 1 {
			t.Fatalf("expected 1 in populated bin, got %v", got[1])
		}
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		_, err := BinQuantile([]float64{1, 2}, []float64{1}, []float64{0, 10}, 0.5)
		if !core.IsInvalidInput(err) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})
}

func TestCurve(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}
	mags := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}

	lags, quantiles, err := Curve(times, mags, 0.5)
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	if len(lags) != len(quantiles) || len(lags) == 0 {
		t.Fatalf("unbalanced curve: %d lags, %d quantiles", len(lags), len(quantiles))
	}
}

func TestTimescaleCuts(t *testing.T) {
	t.Run("ramp crosses the lower cut no later than the upper", func(t *testing.T) {
		times := make([]float64, 11)
		mags := make([]float64, 11)
		for i := range times {
			times[i] = float64(i)
			mags[i] = 0.1 * float64(i)
		}

		got, err := TimescaleCuts(times, mags)
		if err != nil {
			t.Fatalf("timescale cuts: %v", err)
		}
		if math.IsNaN(got.M50Amp3) || math.IsNaN(got.M50Amp2) {
			t.Fatalf("expected finite median cuts, got %+v", got)
		}
		if got.M50Amp3 > got.M50Amp2 {
			t.Fatalf("amp/3 cut %v after amp/2 cut %v", got.M50Amp3, got.M50Amp2)
		}
		if got.M90Amp3 > got.M50Amp3 {
			t.Fatalf("p90 cut %v after p50 cut %v", got.M90Amp3, got.M50Amp3)
		}
	})

	t.Run("zero amplitude is undefined, not fatal", func(t *testing.T) {
		_, err := TimescaleCuts([]float64{0, 1, 2}, []float64{4, 4, 4})
		if !core.IsUndefined(err) {
			t.Fatalf("expected undefined error, got %v", err)
		}
		if core.IsNotEnoughData(err) {
			t.Fatalf("zero amplitude must not be reported as not-enough-data")
		}
	})
}
