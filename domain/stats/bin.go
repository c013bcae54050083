package stats

import (
	"fmt"
	"strings"
)

// ParamRange is one generator parameter interval contributing to a bin's
// identity, e.g. period in [0.5, 2.0] days.
type ParamRange struct {
	Name string
	Min  float64
	Max  float64
}

// BinIdentity names one aggregate-output row: one light-curve model, one
// parameter bin, one noise level. Derived deterministically so that the
// human-readable label and the filesystem stem always agree.
type BinIdentity struct {
	Model  string
	Params []ParamRange
	Noise  float64
}

// Label returns the human-readable bin name used as the row prefix.
func (b BinIdentity) Label() string {
	var sb strings.Builder
	sb.WriteString(b.Model)
	for _, p := range b.Params {
		fmt.Fprintf(&sb, " %s=[%g,%g]", p.Name, p.Min, p.Max)
	}
	fmt.Fprintf(&sb, " noise=%g", b.Noise)
	return sb.String()
}

// FileStem returns a filesystem-safe stem for auxiliary output files.
func (b BinIdentity) FileStem() string {
	var sb strings.Builder
	sb.WriteString(sanitize(b.Model))
	for _, p := range b.Params {
		fmt.Fprintf(&sb, "_%s_%g_%g", sanitize(p.Name), p.Min, p.Max)
	}
	fmt.Fprintf(&sb, "_n%g", b.Noise)
	return sanitize(sb.String())
}

// sanitize keeps letters, digits, underscore, dash and dot; everything else
// becomes an underscore.
func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
