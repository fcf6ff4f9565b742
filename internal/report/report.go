// Package report renders metric reports as fixed-width text. Rounding
// happens here and nowhere earlier.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/radlab-data/chexbench/internal/eval"
)

// Write prints one line per finding with the measured AUC next to the
// reference value, left-padded columns keyed by finding name, followed by
// the mean over evaluated findings. references may be nil.
func Write(w io.Writer, rep *eval.Report, references map[string]float64) error {
	width := len("Mean AUC")
	for _, res := range rep.Results {
		if len(res.Finding) > width {
			width = len(res.Finding)
		}
	}

	if _, err := fmt.Fprintf(w, "Study-level AUC over %d studies\n", rep.Studies); err != nil {
		return err
	}
	for _, res := range rep.Results {
		line := fmt.Sprintf("%-*s  ", width, res.Finding)
		if res.Degenerate {
			line += "   n/a  (constant ground truth)"
		} else {
			line += fmt.Sprintf("%6.3f", res.AUC)
			if ref, ok := references[res.Finding]; ok {
				line += fmt.Sprintf("  reference %6.3f  delta %+6.3f", ref, res.AUC-ref)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("-", width+8)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%-*s  %6.3f\n", width, "Mean AUC", rep.MeanAUC)
	return err
}

// Render returns the formatted report as a string.
func Render(rep *eval.Report, references map[string]float64) string {
	var sb strings.Builder
	// strings.Builder writes never fail.
	_ = Write(&sb, rep, references)
	return sb.String()
}
