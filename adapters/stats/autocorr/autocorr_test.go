package autocorr

import (
	"math"
	"testing"

	"lcmonte/domain/core"
)

func TestFFTAndDirectAgree(t *testing.T) {
	values := []float64{1, 2, 1, 3, 2, 4, 1, 2.5}

	fft, err := FFT(values, 6)
	if err != nil {
		t.Fatalf("fft: %v", err)
	}
	direct, err := Direct(values, 6)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	for k := range fft {
		if math.Abs(fft[k]-direct[k]) > 1e-9 {
			t.Fatalf("lag %d: fft %v != direct %v", k, fft[k], direct[k])
		}
	}
}

func TestCompute(t *testing.T) {
	t.Run("lag zero is exactly one", func(t *testing.T) {
		acf, err := FFT([]float64{0.3, -1.2, 0.8, 0.1, -0.4}, 3)
		if err != nil {
			t.Fatalf("fft: %v", err)
		}
		if math.Abs(acf[0]-1.0) > 1e-12 {
			t.Fatalf("expected acf[0] == 1, got %v", acf[0])
		}
	})

	t.Run("lags beyond the series stay zero", func(t *testing.T) {
		acf, err := Direct([]float64{1, 2, 4}, 10)
		if err != nil {
			t.Fatalf("direct: %v", err)
		}
		for k := 3; k < 10; k++ {
			if acf[k] != 0 {
				t.Fatalf("lag %d: expected 0, got %v", k, acf[k])
			}
		}
	})

	t.Run("constant series is undefined", func(t *testing.T) {
		if _, err := FFT([]float64{2, 2, 2, 2}, 3); !core.IsUndefined(err) {
			t.Fatalf("expected undefined error, got %v", err)
		}
	})

	t.Run("single sample is not enough data", func(t *testing.T) {
		if _, err := Direct([]float64{1}, 3); !core.IsNotEnoughData(err) {
			t.Fatalf("expected not-enough-data error, got %v", err)
		}
	})

	t.Run("NaN input rejected", func(t *testing.T) {
		_, err := FFT([]float64{1, math.NaN(), 2}, 2)
		if !core.IsInvalidInput(err) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})
}

func TestGridStep(t *testing.T) {
	t.Run("coarse sampling keeps the fixed step", func(t *testing.T) {
		if got := GridStep(100, 11); got != 0.1 {
			t.Fatalf("expected 0.1, got %v", got)
		}
	})
	t.Run("dense sampling follows the mean cadence", func(t *testing.T) {
		if got := GridStep(1, 101); math.Abs(got-0.01) > 1e-12 {
			t.Fatalf("expected 0.01, got %v", got)
		}
	})
}

func TestInterpolated(t *testing.T) {
	t.Run("regular grid reproduces the plain estimator", func(t *testing.T) {
		times := make([]float64, 20)
		values := make([]float64, 20)
		for i := range times {
			times[i] = float64(i) * 0.5
			values[i] = math.Sin(float64(i))
		}

		viaGrid, err := Interpolated(times, values, 0.5, 10, MethodDirect)
		if err != nil {
			t.Fatalf("interpolated: %v", err)
		}
		plain, err := Direct(values, 10)
		if err != nil {
			t.Fatalf("direct: %v", err)
		}
		for k := range plain {
			if math.Abs(viaGrid[k]-plain[k]) > 1e-9 {
				t.Fatalf("lag %d: %v != %v", k, viaGrid[k], plain[k])
			}
		}
	})

	t.Run("irregular sampling is interpolated, not dropped", func(t *testing.T) {
		times := []float64{0, 0.7, 1.1, 2.4, 3.0, 4.2, 5.0}
		values := []float64{0, 1, 0.2, -0.5, 0.9, -1.1, 0.4}

		acf, err := Interpolated(times, values, 0.5, 8, MethodFFT)
		if err != nil {
			t.Fatalf("interpolated: %v", err)
		}
		if math.Abs(acf[0]-1.0) > 1e-12 {
			t.Fatalf("expected acf[0] == 1, got %v", acf[0])
		}
	})

	t.Run("non-positive step rejected", func(t *testing.T) {
		_, err := Interpolated([]float64{0, 1}, []float64{1, 2}, 0, 4, MethodFFT)
		if !core.IsInvalidInput(err) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})
}

func TestLogSubsample(t *testing.T) {
	lags := Lags(0.1, 200)
	acf := make([]float64, len(lags))
	for i := range acf {
		acf[i] = 1.0 / float64(i+1)
	}

	outLags, outACF, err := LogSubsample(lags, acf)
	if err != nil {
		t.Fatalf("subsample: %v", err)
	}
	if len(outLags) != len(outACF) {
		t.Fatalf("unbalanced output: %d lags, %d acf", len(outLags), len(outACF))
	}
	if len(outLags) >= len(lags) {
		t.Fatalf("expected compression, got %d of %d", len(outLags), len(lags))
	}
	if outLags[0] != 0 {
		t.Fatalf("expected lag 0 retained, got %v", outLags[0])
	}
	for i := 2; i < len(outLags); i++ {
		if outLags[i] <= outLags[i-1]*1.05 {
			t.Fatalf("retained lag %v too close to %v", outLags[i], outLags[i-1])
		}
	}
}

func TestTimescaleCuts(t *testing.T) {
	lags := []float64{0, 1, 2, 3}
	acf := []float64{1.0, 0.6, 0.3, 0.05}

	got, err := TimescaleCuts(lags, acf)
	if err != nil {
		t.Fatalf("timescale cuts: %v", err)
	}
	if got.Lag2 != 2 {
		t.Fatalf("expected half-decay at lag 2, got %v", got.Lag2)
	}
	if got.Lag4 != 3 {
		t.Fatalf("expected quarter-decay at lag 3, got %v", got.Lag4)
	}
	if got.Lag9 != 3 {
		t.Fatalf("expected ninth-decay at lag 3, got %v", got.Lag9)
	}

	t.Run("never decaying yields NaN cuts", func(t *testing.T) {
		got, err := TimescaleCuts([]float64{0, 1}, []float64{1, 0.9})
		if err != nil {
			t.Fatalf("timescale cuts: %v", err)
		}
		if !math.IsNaN(got.Lag2) || !math.IsNaN(got.Lag4) || !math.IsNaN(got.Lag9) {
			t.Fatalf("expected NaN cuts, got %+v", got)
		}
	})
}
