// Package collect implements the per-statistic accumulation framework:
// append-only collections that record one outcome per trial and later
// summarize themselves into one output field group.
package collect

import (
	"fmt"
	"io"
	"math"

	"lcmonte/adapters/stats/numeric"
	"lcmonte/domain/core"
	"lcmonte/domain/stats"
)

// ScalarCollection accumulates one float64 per trial. A NaN entry is the
// canonical "statistic undefined for this trial" marker. After N trials in
// which its family was enabled (and not aborted), Len() is exactly N.
type ScalarCollection struct {
	name     string
	fileStem string
	values   []float64
}

// NewScalar creates an empty scalar collection with a display name and an
// output-file-name stem.
func NewScalar(name, fileStem string) *ScalarCollection {
	return &ScalarCollection{name: name, fileStem: fileStem}
}

// Name returns the display name.
func (c *ScalarCollection) Name() string { return c.name }

// FileStem returns the auxiliary-file stem.
func (c *ScalarCollection) FileStem() string { return c.fileStem }

// Add appends one real observation.
func (c *ScalarCollection) Add(v float64) {
	c.values = append(c.values, v)
}

// AddNull appends the undefined-for-this-trial marker.
func (c *ScalarCollection) AddNull() {
	c.values = append(c.values, math.NaN())
}

// Len returns the number of recorded trials, nulls included.
func (c *ScalarCollection) Len() int { return len(c.values) }

// Values returns a copy of the accumulated entries.
func (c *ScalarCollection) Values() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// Summarize aggregates all entries, nulls included, into the summary
// triple. A fresh or cleared collection summarizes to (NaN, NaN, 0).
func (c *ScalarCollection) Summarize() stats.Summary {
	return stats.Summary{
		Mean:            numeric.MeanNoNaN(c.values),
		StdDev:          numeric.StdDevNoNaN(c.values),
		DefinedFraction: numeric.DefinedFraction(c.values),
	}
}

// Clear resets the collection to its freshly constructed state.
func (c *ScalarCollection) Clear() {
	c.values = nil
}

// WriteTo emits the distribution file body: one value per line, 3-decimal
// fixed format.
func (c *ScalarCollection) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, v := range c.values {
		n, err := fmt.Fprintf(w, "%.3f\n", v)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// PairCollection accumulates one full (x, y) curve per successful trial,
// e.g. one periodogram or one ACF. There is no null variant: on a soft
// failure nothing is appended, so a pair collection may legitimately be
// shorter than its sibling scalar collections. Downstream consumers must
// tolerate that asymmetry; the sibling cut collections carry the
// undefined-trial signal.
type PairCollection struct {
	name     string
	fileStem string
	xs       [][]float64
	ys       [][]float64
}

// NewPair creates an empty pair collection.
func NewPair(name, fileStem string) *PairCollection {
	return &PairCollection{name: name, fileStem: fileStem}
}

// Name returns the display name.
func (c *PairCollection) Name() string { return c.name }

// FileStem returns the auxiliary-file stem.
func (c *PairCollection) FileStem() string { return c.fileStem }

// Add appends one trial's curve. The two slices must have equal length;
// both are copied.
func (c *PairCollection) Add(x, y []float64) error {
	if len(x) != len(y) {
		return core.NewLengthMismatchError("x/y", len(x), len(y))
	}
	xc := make([]float64, len(x))
	yc := make([]float64, len(y))
	copy(xc, x)
	copy(yc, y)
	c.xs = append(c.xs, xc)
	c.ys = append(c.ys, yc)
	return nil
}

// Len returns the number of recorded curves.
func (c *PairCollection) Len() int { return len(c.xs) }

// At returns copies of the i-th curve.
func (c *PairCollection) At(i int) ([]float64, []float64) {
	x := make([]float64, len(c.xs[i]))
	y := make([]float64, len(c.ys[i]))
	copy(x, c.xs[i])
	copy(y, c.ys[i])
	return x, y
}

// Clear resets the collection to its freshly constructed state.
func (c *PairCollection) Clear() {
	c.xs = nil
	c.ys = nil
}

// WriteTo emits the curve file body: per trial, the x values on one line
// and the y values on the next, space-separated, 3-decimal fixed format.
func (c *PairCollection) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range c.xs {
		n, err := writeLine(w, c.xs[i])
		total += n
		if err != nil {
			return total, err
		}
		n, err = writeLine(w, c.ys[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeLine(w io.Writer, values []float64) (int64, error) {
	var total int64
	for i, v := range values {
		sep := " "
		if i == 0 {
			sep = ""
		}
		n, err := fmt.Fprintf(w, "%s%.3f", sep, v)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := fmt.Fprintln(w)
	return total + int64(n), err
}
