// Package stats defines the statistic-family vocabulary and the summary
// types shared by the accumulation framework and the bin driver.
package stats

// Family identifies one statistic computation dispatched per trial. Each
// family maps to exactly one engine and one or more named sub-statistics.
type Family string

const (
	FamilyC1          Family = "C1"
	FamilyPeriod      Family = "PERIOD"
	FamilyPeriodogram Family = "PERIODOGRAM"
	FamilyDmdtCut     Family = "DMDT_CUT"
	FamilyDmdtPlot    Family = "DMDT_PLOT"
	FamilyIACFCut     Family = "IACF_CUT"
	FamilySACFCut     Family = "SACF_CUT"
	FamilyACFPlot     Family = "ACF_PLOT"
	FamilyPeakCut     Family = "PEAK_CUT"
	FamilyPeakPlot    Family = "PEAK_PLOT"
)

// AllFamilies lists every known family in canonical output order.
var AllFamilies = []Family{
	FamilyC1,
	FamilyPeriod,
	FamilyPeriodogram,
	FamilyDmdtCut,
	FamilyDmdtPlot,
	FamilyIACFCut,
	FamilySACFCut,
	FamilyACFPlot,
	FamilyPeakCut,
	FamilyPeakPlot,
}

// IsValid reports whether f names a known family.
func (f Family) IsValid() bool {
	for _, known := range AllFamilies {
		if f == known {
			return true
		}
	}
	return false
}

// FamilySet is the enabled-family configuration for one bin driver.
type FamilySet map[Family]bool

// NewFamilySet builds a set from a list of families.
func NewFamilySet(families ...Family) FamilySet {
	set := make(FamilySet, len(families))
	for _, f := range families {
		set[f] = true
	}
	return set
}

// Enabled reports whether f is in the set.
func (s FamilySet) Enabled(f Family) bool {
	return s[f]
}

// Summary is the per-collection aggregate over all accumulated trials:
// NaN-aware mean and standard deviation, plus the fraction of entries that
// are finite (0 when no trials were recorded).
type Summary struct {
	Mean            float64
	StdDev          float64
	DefinedFraction float64
}
