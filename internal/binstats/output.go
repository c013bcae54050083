package binstats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lcmonte/domain/stats"
)

// auxExt is the extension of every auxiliary distribution file.
const auxExt = ".dat"

// OutputRow formats the bin's aggregate results as one tab-delimited line:
// the bin identity fields, then per enabled family either
// "mean±stddev<TAB>definedFraction<TAB>auxFile" per scalar collection or
// just "auxFile" for plot families.
func (b *LcBinStats) OutputRow() string {
	fields := []string{b.id.Model}
	for _, p := range b.id.Params {
		fields = append(fields, fmt.Sprintf("%g-%g", p.Min, p.Max))
	}
	fields = append(fields, fmt.Sprintf("%g", b.id.Noise))

	for _, f := range b.enabledFamilies() {
		for _, c := range b.familyScalars(f) {
			s := c.Summarize()
			fields = append(fields,
				fmt.Sprintf("%.4g±%.4g", s.Mean, s.StdDev),
				fmt.Sprintf("%.3f", s.DefinedFraction),
				c.FileStem()+auxExt,
			)
		}
		if c := b.familyPair(f); c != nil {
			fields = append(fields, c.FileStem()+auxExt)
		}
	}
	return strings.Join(fields, "\t")
}

// HeaderRow returns the column labels matching OutputRow for the same
// enabled-family set, so header and data rows always agree in column count
// and order.
func (b *LcBinStats) HeaderRow() string {
	fields := []string{"LCType"}
	for _, p := range b.id.Params {
		fields = append(fields, p.Name)
	}
	fields = append(fields, "Noise")

	for _, f := range b.enabledFamilies() {
		for _, c := range b.familyScalars(f) {
			fields = append(fields,
				c.Name(),
				c.Name()+" Finite",
				c.Name()+" Distribution",
			)
		}
		if c := b.familyPair(f); c != nil {
			fields = append(fields, c.Name()+" File")
		}
	}
	return strings.Join(fields, "\t")
}

// WriteAuxFiles writes the per-statistic distribution files for every
// enabled family into dir: one value per line for scalar collections, two
// lines per trial for curve collections.
func (b *LcBinStats) WriteAuxFiles(dir string) error {
	for _, f := range b.enabledFamilies() {
		for _, c := range b.familyScalars(f) {
			if err := writeAux(filepath.Join(dir, c.FileStem()+auxExt), c); err != nil {
				return err
			}
		}
		if c := b.familyPair(f); c != nil {
			if err := writeAux(filepath.Join(dir, c.FileStem()+auxExt), c); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeAux(path string, src io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := src.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FamilySummaries returns, per enabled scalar collection, its display name
// and summary triple. The persistence and report layers consume this.
func (b *LcBinStats) FamilySummaries() []NamedSummary {
	out := []NamedSummary{}
	for _, f := range b.enabledFamilies() {
		for _, c := range b.familyScalars(f) {
			out = append(out, NamedSummary{
				Family:  f,
				Name:    c.Name(),
				Summary: c.Summarize(),
			})
		}
	}
	return out
}

// NamedSummary pairs one scalar collection's summary with its family and
// display name.
type NamedSummary struct {
	Family  stats.Family
	Name    string
	Summary stats.Summary
}
