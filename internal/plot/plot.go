// Package plot renders diagnostic PNGs of individual light curves and the
// derived curves (ACF, periodogram) for eyeballing a run.
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lcmonte/domain/core"
)

// LightCurve renders magnitude against time with the magnitude axis
// inverted, astronomical convention (brighter is up).
func LightCurve(path, title string, times, mags []float64) error {
	if len(times) != len(mags) {
		return core.NewLengthMismatchError("times/mags", len(times), len(mags))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time"
	p.Y.Label.Text = "magnitude"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	scatter, err := plotter.NewScatter(toXYs(times, mags))
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	p.Add(scatter)
	return save(p, path)
}

// Curve renders a generic (x, y) line, used for ACFs.
func Curve(path, title, xLabel, yLabel string, x, y []float64) error {
	if len(x) != len(y) {
		return core.NewLengthMismatchError("x/y", len(x), len(y))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	line, err := plotter.NewLine(toXYs(x, y))
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	p.Add(line)
	return save(p, path)
}

// Periodogram renders power against frequency on a log-log scale.
func Periodogram(path, title string, freqs, powers []float64) error {
	if len(freqs) != len(powers) {
		return core.NewLengthMismatchError("freqs/powers", len(freqs), len(powers))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frequency"
	p.Y.Label.Text = "power"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.Y.Tick.Marker = plot.LogTicks{}

	line, err := plotter.NewLine(toXYs(freqs, powers))
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	p.Add(line)
	return save(p, path)
}

func toXYs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
