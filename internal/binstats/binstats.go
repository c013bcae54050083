// Package binstats hosts the per-bin driver: for every simulated trial it
// dispatches the enabled statistic families to their engines, reclassifies
// partial failures, and accumulates one outcome per trial per collection.
package binstats

import (
	"math"
	"math/rand"

	"lcmonte/adapters/stats/autocorr"
	"lcmonte/adapters/stats/dmdt"
	"lcmonte/adapters/stats/peaks"
	"lcmonte/adapters/stats/periodogram"
	"lcmonte/domain/core"
	"lcmonte/domain/lightcurve"
	"lcmonte/domain/stats"
	"lcmonte/internal"
	"lcmonte/internal/collect"
)

// peakAmplitudeFractions are the three threshold sweep points of the peak
// cut family, as fractions of each trial's 5-95 percentile amplitude.
var peakAmplitudeFractions = []float64{1.0 / 3.0, 1.0 / 2.0, 4.0 / 5.0}

// LcBinStats accumulates statistics for one bin: one light-curve model, one
// parameter range, one noise level. It is owned by exactly one simulation
// loop; nothing here is safe for concurrent use.
type LcBinStats struct {
	id       stats.BinIdentity
	families stats.FamilySet
	log      *internal.Logger
	fap      *periodogram.FAPCache
	rng      *rand.Rand

	trials int

	c1        *collect.ScalarCollection
	period    *collect.ScalarCollection
	pgramPlot *collect.PairCollection
	dmdtCuts  []*collect.ScalarCollection
	dmdtPlot  *collect.PairCollection
	iacfCuts  []*collect.ScalarCollection
	sacfCuts  []*collect.ScalarCollection
	acfPlot   *collect.PairCollection
	peakCuts  []*collect.ScalarCollection
	peakPlot  *collect.PairCollection
}

// New creates a driver for one bin with the given enabled families. The
// seed feeds the false-alarm-probability bootstrap only; engines themselves
// are deterministic.
func New(id stats.BinIdentity, families stats.FamilySet, logger *internal.Logger, seed int64) *LcBinStats {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	stem := id.FileStem()
	b := &LcBinStats{
		id:       id,
		families: families,
		log:      logger,
		fap:      periodogram.NewFAPCache(0, 0),
		rng:      rand.New(rand.NewSource(seed)),

		c1:        collect.NewScalar("C1", stem+"_c1"),
		period:    collect.NewScalar("Period", stem+"_period"),
		pgramPlot: collect.NewPair("Periodograms", stem+"_pgram"),
		dmdtCuts: []*collect.ScalarCollection{
			collect.NewScalar("50% cut at 1/3", stem+"_dmdt50_3"),
			collect.NewScalar("50% cut at 1/2", stem+"_dmdt50_2"),
			collect.NewScalar("90% cut at 1/3", stem+"_dmdt90_3"),
			collect.NewScalar("90% cut at 1/2", stem+"_dmdt90_2"),
		},
		dmdtPlot: collect.NewPair("dmdt medians", stem+"_dmdtmed"),
		iacfCuts: []*collect.ScalarCollection{
			collect.NewScalar("iACF cut at 1/9", stem+"_iacf9"),
			collect.NewScalar("iACF cut at 1/4", stem+"_iacf4"),
			collect.NewScalar("iACF cut at 1/2", stem+"_iacf2"),
		},
		sacfCuts: []*collect.ScalarCollection{
			collect.NewScalar("sACF cut at 1/9", stem+"_sacf9"),
			collect.NewScalar("sACF cut at 1/4", stem+"_sacf4"),
			collect.NewScalar("sACF cut at 1/2", stem+"_sacf2"),
		},
		acfPlot: collect.NewPair("ACFs", stem+"_acf"),
		peakCuts: []*collect.ScalarCollection{
			collect.NewScalar("Peak cut at 1/3", stem+"_peak3"),
			collect.NewScalar("Peak cut at 1/2", stem+"_peak2"),
			collect.NewScalar("Peak cut at 4/5", stem+"_peak45"),
		},
		peakPlot: collect.NewPair("Peak curves", stem+"_peaks"),
	}
	return b
}

// Identity returns the bin identity.
func (b *LcBinStats) Identity() stats.BinIdentity { return b.id }

// Trials returns the number of trials recorded since the last Clear.
func (b *LcBinStats) Trials() int { return b.trials }

// Analyze runs every enabled statistic family over one trial's light curve.
//
// Outcomes per family follow the three-way contract: success appends real
// values to every collection the family owns; an undefined statistic is
// absorbed by appending nulls (scalar families) or skipping (plot
// families); not-enough-data propagates out immediately and the whole trial
// contributes nothing. Invalid input from shape mismatches surfaces
// uncaught, since it indicates a caller bug.
func (b *LcBinStats) Analyze(times, fluxes []float64) error {
	if len(times) != len(fluxes) {
		return core.NewLengthMismatchError("times/fluxes", len(times), len(fluxes))
	}

	mags := lightcurve.ToMagnitudes(fluxes)
	cleanT, cleanM, err := lightcurve.StripNaNs(times, mags)
	if err != nil {
		return err
	}
	// The length check happens before any family runs so a too-short trial
	// leaves every collection untouched, not just the family that noticed.
	if len(cleanT) < 2 {
		return core.NewNotEnoughDataError("light curve", len(cleanT), 2)
	}

	if err := b.analyzeC1(cleanM); err != nil {
		return err
	}
	if err := b.analyzePeriodogram(cleanT, cleanM); err != nil {
		return err
	}
	if err := b.analyzeDmdt(cleanT, cleanM); err != nil {
		return err
	}
	if err := b.analyzeACF(cleanT, cleanM); err != nil {
		return err
	}
	if err := b.analyzePeaks(cleanT, cleanM); err != nil {
		return err
	}

	b.trials++
	return nil
}

// recordScalars applies the three-way failure contract for a batch of
// sibling scalar collections. All values are computed before any append, so
// the siblings stay in lockstep.
func (b *LcBinStats) recordScalars(cols []*collect.ScalarCollection, values []float64, err error) error {
	switch {
	case err == nil:
		return collect.AppendAll(cols, values)
	case core.IsNotEnoughData(err):
		return err
	case core.IsUndefined(err):
		b.log.Debug("bin %s: %v", b.id.Label(), err)
		collect.AppendNulls(cols...)
		return nil
	default:
		return err
	}
}

// recordPair applies the same contract for a plot family, which has no null
// marker: an undefined trial simply records nothing.
func (b *LcBinStats) recordPair(col *collect.PairCollection, x, y []float64, err error) error {
	switch {
	case err == nil:
		return col.Add(x, y)
	case core.IsNotEnoughData(err):
		return err
	case core.IsUndefined(err):
		b.log.Debug("bin %s: %v", b.id.Label(), err)
		return nil
	default:
		return err
	}
}

func (b *LcBinStats) analyzeC1(mags []float64) error {
	if !b.families.Enabled(stats.FamilyC1) {
		return nil
	}
	value, err := lightcurve.C1(mags)
	return b.recordScalars([]*collect.ScalarCollection{b.c1}, []float64{value}, err)
}

func (b *LcBinStats) analyzePeriodogram(times, mags []float64) error {
	wantPeriod := b.families.Enabled(stats.FamilyPeriod)
	wantPlot := b.families.Enabled(stats.FamilyPeriodogram)
	if !wantPeriod && !wantPlot {
		return nil
	}

	freqs, err := periodogram.FreqGrid(times)
	var powers []float64
	if err == nil {
		powers, err = periodogram.Power(times, mags, freqs)
	}

	if wantPlot {
		if recErr := b.recordPair(b.pgramPlot, freqs, powers, err); recErr != nil {
			return recErr
		}
	}
	if !wantPeriod {
		return nil
	}

	best := math.NaN()
	if err == nil {
		var threshold float64
		threshold, err = b.fap.Threshold(times, mags, freqs, b.rng)
		if err == nil {
			best, err = periodogram.BestPeriod(freqs, powers, threshold)
		}
	}
	return b.recordScalars([]*collect.ScalarCollection{b.period}, []float64{best}, err)
}

func (b *LcBinStats) analyzeDmdt(times, mags []float64) error {
	if b.families.Enabled(stats.FamilyDmdtCut) {
		c, err := dmdt.TimescaleCuts(times, mags)
		values := []float64{c.M50Amp3, c.M50Amp2, c.M90Amp3, c.M90Amp2}
		if recErr := b.recordScalars(b.dmdtCuts, values, err); recErr != nil {
			return recErr
		}
	}
	if b.families.Enabled(stats.FamilyDmdtPlot) {
		lags, medians, err := dmdt.Curve(times, mags, 0.50)
		if recErr := b.recordPair(b.dmdtPlot, lags, medians, err); recErr != nil {
			return recErr
		}
	}
	return nil
}

func (b *LcBinStats) analyzeACF(times, mags []float64) error {
	wantIACF := b.families.Enabled(stats.FamilyIACFCut)
	wantSACF := b.families.Enabled(stats.FamilySACFCut)
	wantPlot := b.families.Enabled(stats.FamilyACFPlot)
	if !wantIACF && !wantSACF && !wantPlot {
		return nil
	}

	span := times[len(times)-1] - times[0]
	deltaT := autocorr.GridStep(span, len(times))
	nLags := int(math.Floor(span/deltaT)) + 1
	lags := autocorr.Lags(deltaT, nLags)

	if wantIACF || wantPlot {
		acf, err := autocorr.Interpolated(times, mags, deltaT, nLags, autocorr.MethodFFT)
		if wantIACF {
			values, cutErr := acfCutValues(lags, acf, err)
			if recErr := b.recordScalars(b.iacfCuts, values, cutErr); recErr != nil {
				return recErr
			}
		}
		if wantPlot {
			var subLags, subACF []float64
			plotErr := err
			if plotErr == nil {
				subLags, subACF, plotErr = autocorr.LogSubsample(lags, acf)
			}
			if recErr := b.recordPair(b.acfPlot, subLags, subACF, plotErr); recErr != nil {
				return recErr
			}
		}
	}
	if wantSACF {
		acf, err := autocorr.Interpolated(times, mags, deltaT, nLags, autocorr.MethodDirect)
		values, cutErr := acfCutValues(lags, acf, err)
		if recErr := b.recordScalars(b.sacfCuts, values, cutErr); recErr != nil {
			return recErr
		}
	}
	return nil
}

func acfCutValues(lags, acf []float64, err error) ([]float64, error) {
	if err != nil {
		return []float64{math.NaN(), math.NaN(), math.NaN()}, err
	}
	c, err := autocorr.TimescaleCuts(lags, acf)
	return []float64{c.Lag9, c.Lag4, c.Lag2}, err
}

func (b *LcBinStats) analyzePeaks(times, mags []float64) error {
	wantCut := b.families.Enabled(stats.FamilyPeakCut)
	wantPlot := b.families.Enabled(stats.FamilyPeakPlot)
	if !wantCut && !wantPlot {
		return nil
	}

	amplitude := lightcurve.Amplitude(mags)
	if amplitude == 0 {
		err := core.NewUndefinedError("peak finding", "zero amplitude")
		if wantCut {
			nans := []float64{math.NaN(), math.NaN(), math.NaN()}
			if recErr := b.recordScalars(b.peakCuts, nans, err); recErr != nil {
				return recErr
			}
		}
		if wantPlot {
			if recErr := b.recordPair(b.peakPlot, nil, nil, err); recErr != nil {
				return recErr
			}
		}
		return nil
	}

	if wantCut {
		thresholds := make([]float64, len(peakAmplitudeFractions))
		for i, f := range peakAmplitudeFractions {
			thresholds[i] = f * amplitude
		}
		values, err := peaks.Timescales(times, mags, thresholds)
		if recErr := b.recordScalars(b.peakCuts, values, err); recErr != nil {
			return recErr
		}
	}
	if wantPlot {
		peakT, peakV, err := peaks.Find(times, mags, amplitude/2)
		if recErr := b.recordPair(b.peakPlot, peakT, peakV, err); recErr != nil {
			return recErr
		}
	}
	return nil
}

// Clear resets every collection and the trial counter; the bin can then be
// reused for another simulation run. The FAP threshold cache survives since
// it is keyed by cadence, not by accumulated data.
func (b *LcBinStats) Clear() {
	for _, c := range b.scalarCollections() {
		c.Clear()
	}
	for _, c := range b.pairCollections() {
		c.Clear()
	}
	b.trials = 0
}

// enabledFamilies lists the enabled families in canonical output order.
func (b *LcBinStats) enabledFamilies() []stats.Family {
	out := []stats.Family{}
	for _, f := range stats.AllFamilies {
		if b.families.Enabled(f) {
			out = append(out, f)
		}
	}
	return out
}

// familyScalars returns the scalar collections a family owns, nil for plot
// families.
func (b *LcBinStats) familyScalars(f stats.Family) []*collect.ScalarCollection {
	switch f {
	case stats.FamilyC1:
		return []*collect.ScalarCollection{b.c1}
	case stats.FamilyPeriod:
		return []*collect.ScalarCollection{b.period}
	case stats.FamilyDmdtCut:
		return b.dmdtCuts
	case stats.FamilyIACFCut:
		return b.iacfCuts
	case stats.FamilySACFCut:
		return b.sacfCuts
	case stats.FamilyPeakCut:
		return b.peakCuts
	}
	return nil
}

// familyPair returns the pair collection a family owns, nil for scalar
// families.
func (b *LcBinStats) familyPair(f stats.Family) *collect.PairCollection {
	switch f {
	case stats.FamilyPeriodogram:
		return b.pgramPlot
	case stats.FamilyDmdtPlot:
		return b.dmdtPlot
	case stats.FamilyACFPlot:
		return b.acfPlot
	case stats.FamilyPeakPlot:
		return b.peakPlot
	}
	return nil
}

func (b *LcBinStats) scalarCollections() []*collect.ScalarCollection {
	out := []*collect.ScalarCollection{b.c1, b.period}
	out = append(out, b.dmdtCuts...)
	out = append(out, b.iacfCuts...)
	out = append(out, b.sacfCuts...)
	out = append(out, b.peakCuts...)
	return out
}

func (b *LcBinStats) pairCollections() []*collect.PairCollection {
	return []*collect.PairCollection{b.pgramPlot, b.dmdtPlot, b.acfPlot, b.peakPlot}
}
