// Package autocorr estimates the autocorrelation function of an irregularly
// sampled series on a uniform lag grid. Two estimators are provided: an
// FFT-based one (statistical convention, normalized by the total sum of
// squared deviations) and a direct lag-sum one. Irregular sampling is
// handled by linear interpolation onto an even time grid.
package autocorr

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"lcmonte/adapters/stats/cuts"
	"lcmonte/domain/core"
)

// Method selects the ACF estimator.
type Method int

const (
	// MethodFFT computes the ACF via zero-padded circular correlation:
	// forward transform, squared spectrum, inverse transform. O(n log n).
	MethodFFT Method = iota
	// MethodDirect computes each lag as an explicit sum. O(n * nLags).
	MethodDirect
)

// defaultGridStep is the fixed resampling step used when the series is
// sampled more coarsely than it.
const defaultGridStep = 0.1

// GridStep returns the uniform resampling step for a series of n points over
// span: the smaller of the fixed default and the mean cadence.
func GridStep(span float64, n int) float64 {
	if n < 2 {
		return defaultGridStep
	}
	mean := span / float64(n-1)
	return math.Min(defaultGridStep, mean)
}

// FFT computes the statistical-convention ACF of an evenly sampled series
// for lags 0..nLags-1. acf[0] is exactly 1; lags at or beyond the series
// length are 0. A constant series is undefined (zero variance).
func FFT(values []float64, nLags int) ([]float64, error) {
	return compute(values, nLags, MethodFFT)
}

// Direct is the explicit-sum counterpart of FFT with identical semantics.
func Direct(values []float64, nLags int) ([]float64, error) {
	return compute(values, nLags, MethodDirect)
}

func compute(values []float64, nLags int, method Method) ([]float64, error) {
	if nLags <= 0 {
		return nil, core.NewInvalidInputError("number of lags must be positive")
	}
	n := len(values)
	if n < 2 {
		return nil, core.NewNotEnoughDataError("autocorrelation", n, 2)
	}

	mean := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, core.NewInvalidInputError("NaN in autocorrelation input")
		}
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	ss := 0.0
	for i, v := range values {
		centered[i] = v - mean
		ss += centered[i] * centered[i]
	}
	if ss == 0 {
		return nil, core.NewUndefinedError("autocorrelation", "constant series")
	}

	acf := make([]float64, nLags)
	switch method {
	case MethodDirect:
		for k := 0; k < nLags && k < n; k++ {
			sum := 0.0
			for i := k; i < n; i++ {
				sum += centered[i] * centered[i-k]
			}
			acf[k] = sum / ss
		}
	default:
		// Pad to at least n+nLags so the circular correlation does not
		// alias the lags we read back.
		padN := nextPow2(n + nLags)
		padded := make([]float64, padN)
		copy(padded, centered)

		fft := fourier.NewFFT(padN)
		coeff := fft.Coefficients(nil, padded)
		for i, c := range coeff {
			re := real(c)
			im := imag(c)
			coeff[i] = complex(re*re+im*im, 0)
		}
		seq := fft.Sequence(nil, coeff)

		// seq[k] is the lag-k autocovariance sum up to a common scale
		// factor, so normalizing by seq[0] lands on the statistical
		// convention with acf[0] == 1.
		for k := 0; k < nLags && k < n; k++ {
			acf[k] = seq[k] / seq[0]
		}
	}
	// Lags beyond the observed span stay exactly 0.
	return acf, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Interpolated resamples an irregularly sampled series onto an even grid of
// step deltaT by linear interpolation, then computes its ACF for lags
// 0..nLags-1 with the given estimator. Lags beyond the resampled span are
// zero-filled rather than extrapolated.
func Interpolated(times, values []float64, deltaT float64, nLags int, method Method) ([]float64, error) {
	if len(times) != len(values) {
		return nil, core.NewLengthMismatchError("times/values", len(times), len(values))
	}
	if deltaT <= 0 {
		return nil, core.NewInvalidInputError("grid step must be positive")
	}
	if nLags <= 0 {
		return nil, core.NewInvalidInputError("number of lags must be positive")
	}
	if len(times) < 2 {
		return nil, core.NewNotEnoughDataError("interpolated autocorrelation", len(times), 2)
	}

	grid := resample(times, values, deltaT)
	if len(grid) < 2 {
		return nil, core.NewNotEnoughDataError("interpolated autocorrelation", len(grid), 2)
	}
	return compute(grid, nLags, method)
}

// resample linearly interpolates (times, values) onto t[0] + i*deltaT.
func resample(times, values []float64, deltaT float64) []float64 {
	span := times[len(times)-1] - times[0]
	m := int(math.Floor(span/deltaT)) + 1
	out := make([]float64, m)
	j := 0
	for i := 0; i < m; i++ {
		t := times[0] + float64(i)*deltaT
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		t0, t1 := times[j], times[j+1]
		if t1 == t0 {
			out[i] = values[j]
			continue
		}
		frac := (t - t0) / (t1 - t0)
		out[i] = values[j] + frac*(values[j+1]-values[j])
	}
	return out
}

// logGrowth is the subsampling growth factor: a lag is retained only once it
// exceeds the previously stored lag by this factor.
const logGrowth = 1.05

// LogSubsample compresses a full uniform lag grid into the compact
// logarithmically spaced representation used for storage.
func LogSubsample(lags, acf []float64) ([]float64, []float64, error) {
	if len(lags) != len(acf) {
		return nil, nil, core.NewLengthMismatchError("lags/acf", len(lags), len(acf))
	}
	if len(lags) == 0 {
		return []float64{}, []float64{}, nil
	}
	outLags := []float64{lags[0]}
	outACF := []float64{acf[0]}
	prev := lags[0]
	for i := 1; i < len(lags); i++ {
		if lags[i] > prev*logGrowth {
			outLags = append(outLags, lags[i])
			outACF = append(outACF, acf[i])
			prev = lags[i]
		}
	}
	return outLags, outACF, nil
}

// Cuts are the ACF decay timescales: the first lag at which the ACF drops
// below 1/9, 1/4 and 1/2.
type Cuts struct {
	Lag9 float64
	Lag4 float64
	Lag2 float64
}

// TimescaleCuts computes the three decay cuts from a lag grid and its ACF.
func TimescaleCuts(lags, acf []float64) (Cuts, error) {
	var result Cuts
	var err error
	if result.Lag9, err = cuts.Forward(lags, acf, cuts.LessThan(1.0/9.0)); err != nil {
		return Cuts{}, err
	}
	if result.Lag4, err = cuts.Forward(lags, acf, cuts.LessThan(0.25)); err != nil {
		return Cuts{}, err
	}
	if result.Lag2, err = cuts.Forward(lags, acf, cuts.LessThan(0.5)); err != nil {
		return Cuts{}, err
	}
	return result, nil
}

// Lags returns the uniform lag grid 0, deltaT, ..., (nLags-1)*deltaT.
func Lags(deltaT float64, nLags int) []float64 {
	out := make([]float64, nLags)
	for i := range out {
		out[i] = float64(i) * deltaT
	}
	return out
}
