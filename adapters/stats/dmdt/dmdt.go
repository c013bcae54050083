// Package dmdt bins the pairwise (time difference, magnitude difference)
// set of a light curve by time lag and computes per-bin quantiles of the
// magnitude change, the basis of the delta-m delta-t timescale cuts.
package dmdt

import (
	"math"
	"sort"

	"lcmonte/adapters/stats/cuts"
	"lcmonte/adapters/stats/numeric"
	"lcmonte/domain/core"
	"lcmonte/domain/lightcurve"
)

// firstEdge and edgeStep define the conventional log-spaced lag grid:
// edges at 10^-1.97, 10^-1.82, ... up to the light curve's span.
const (
	firstEdgeExp = -1.97
	edgeStepExp  = 0.15
)

// Deltas expands a magnitude series into its full pairwise set: deltaT holds
// every time difference t_j - t_i (i < j) sorted ascending, deltaM the
// matching absolute magnitude differences.
func Deltas(times, mags []float64) ([]float64, []float64, error) {
	if len(times) != len(mags) {
		return nil, nil, core.NewLengthMismatchError("times/mags", len(times), len(mags))
	}
	if len(times) < 2 {
		return nil, nil, core.NewNotEnoughDataError("pairwise deltas", len(times), 2)
	}

	n := len(times)
	count := n * (n - 1) / 2
	type pair struct{ dt, dm float64 }
	pairs := make([]pair, 0, count)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{times[j] - times[i], math.Abs(mags[j] - mags[i])})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].dt < pairs[b].dt })

	deltaT := make([]float64, count)
	deltaM := make([]float64, count)
	for i, p := range pairs {
		deltaT[i] = p.dt
		deltaM[i] = p.dm
	}
	return deltaT, deltaM, nil
}

// BinEdges returns the log-spaced lag-bin edges covering (0, span]. The last
// edge is the first grid point at or beyond span so the final half-open bin
// still contains the longest lag.
func BinEdges(span float64) []float64 {
	edges := []float64{}
	for k := 0; ; k++ {
		edge := math.Pow(10, firstEdgeExp+edgeStepExp*float64(k))
		edges = append(edges, edge)
		if edge >= span {
			break
		}
	}
	return edges
}

// BinQuantile computes, for each bin [edge_i, edge_i+1), the q-quantile of
// the deltaM values whose deltaT falls in that bin. deltaT must be sorted
// ascending; bin membership is located by binary search. Empty bins yield
// NaN. The result has len(binEdges)-1 entries.
func BinQuantile(deltaT, deltaM, binEdges []float64, q float64) ([]float64, error) {
	if len(deltaT) != len(deltaM) {
		return nil, core.NewLengthMismatchError("deltaT/deltaM", len(deltaT), len(deltaM))
	}
	if len(binEdges) < 2 {
		return nil, core.NewInvalidInputError("need at least two bin edges")
	}
	if q < 0 || q > 1 {
		return nil, core.NewInvalidInputError("quantile must be in [0,1]")
	}

	out := make([]float64, len(binEdges)-1)
	for i := 0; i < len(binEdges)-1; i++ {
		lo := sort.SearchFloat64s(deltaT, binEdges[i])
		hi := sort.SearchFloat64s(deltaT, binEdges[i+1])
		if lo == hi {
			out[i] = math.NaN()
			continue
		}
		value, err := numeric.Quantile(deltaM[lo:hi], q)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

// Curve returns the q-quantile delta-m curve over the default lag grid,
// as (leading bin edges, quantiles). This is what the plot family stores.
func Curve(times, mags []float64, q float64) ([]float64, []float64, error) {
	deltaT, deltaM, err := Deltas(times, mags)
	if err != nil {
		return nil, nil, err
	}
	span := times[len(times)-1] - times[0]
	edges := BinEdges(span)
	quantiles, err := BinQuantile(deltaT, deltaM, edges, q)
	if err != nil {
		return nil, nil, err
	}
	return edges[:len(quantiles)], quantiles, nil
}

// Cuts are the four delta-m delta-t timescale statistics for one trial: the
// first lag at which the 50th (90th) percentile delta-m curve exceeds one
// third (one half) of the curve's 5-95 percentile amplitude.
type Cuts struct {
	M50Amp3 float64
	M50Amp2 float64
	M90Amp3 float64
	M90Amp2 float64
}

// TimescaleCuts computes the four cut statistics. A zero-amplitude light
// curve makes every cut undefined; that is reported as ErrUndefined so the
// driver records nulls and keeps going.
func TimescaleCuts(times, mags []float64) (Cuts, error) {
	amplitude := lightcurve.Amplitude(mags)
	if math.IsNaN(amplitude) {
		return Cuts{}, core.NewNotEnoughDataError("dmdt cuts", 0, 2)
	}
	if amplitude == 0 {
		return Cuts{}, core.NewUndefinedError("dmdt cuts", "zero amplitude")
	}

	deltaT, deltaM, err := Deltas(times, mags)
	if err != nil {
		return Cuts{}, err
	}
	span := times[len(times)-1] - times[0]
	edges := BinEdges(span)

	p50, err := BinQuantile(deltaT, deltaM, edges, 0.50)
	if err != nil {
		return Cuts{}, err
	}
	p90, err := BinQuantile(deltaT, deltaM, edges, 0.90)
	if err != nil {
		return Cuts{}, err
	}

	positions := edges[:len(p50)]
	var result Cuts
	if result.M50Amp3, err = cuts.Forward(positions, p50, cuts.MoreThan(amplitude/3)); err != nil {
		return Cuts{}, err
	}
	if result.M50Amp2, err = cuts.Forward(positions, p50, cuts.MoreThan(amplitude/2)); err != nil {
		return Cuts{}, err
	}
	if result.M90Amp3, err = cuts.Forward(positions, p90, cuts.MoreThan(amplitude/3)); err != nil {
		return Cuts{}, err
	}
	if result.M90Amp2, err = cuts.Forward(positions, p90, cuts.MoreThan(amplitude/2)); err != nil {
		return Cuts{}, err
	}
	return result, nil
}
