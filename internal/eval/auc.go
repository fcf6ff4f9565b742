package eval

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// DegenerateLabelError reports a finding whose aggregated ground truth is
// constant across the study population. AUC is undefined there; callers must
// decide to skip or abort, never fabricate a score.
type DegenerateLabelError struct {
	Finding   string
	Positives int
	Negatives int
}

func (e *DegenerateLabelError) Error() string {
	return fmt.Sprintf("AUC undefined for %q: %d positive and %d negative studies", e.Finding, e.Positives, e.Negatives)
}

// AUC computes the area under the ROC curve for one finding. classes marks
// the positive studies, scores the predicted values. Ties in scores are
// handled by the ROC convention, matching the rank-based definition with
// averaged ranks.
func AUC(finding string, classes []bool, scores []float64) (float64, error) {
	if len(classes) != len(scores) {
		return 0, fmt.Errorf("class/score length mismatch: %d vs %d", len(classes), len(scores))
	}
	pos, neg := 0, 0
	for _, c := range classes {
		if c {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, &DegenerateLabelError{Finding: finding, Positives: pos, Negatives: neg}
	}

	// stat.ROC requires scores sorted ascending; sort copies so callers keep
	// their row order.
	y := append([]float64(nil), scores...)
	cls := append([]bool(nil), classes...)
	stat.SortWeightedLabeled(y, cls, nil)
	tpr, fpr, _ := stat.ROC(nil, y, cls, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// ROCCurve returns the (fpr, tpr) points of one finding's ROC curve, for
// plotting. Same degenerate rules as AUC.
func ROCCurve(finding string, classes []bool, scores []float64) (fpr, tpr []float64, err error) {
	if _, err := AUC(finding, classes, scores); err != nil {
		return nil, nil, err
	}
	y := append([]float64(nil), scores...)
	cls := append([]bool(nil), classes...)
	stat.SortWeightedLabeled(y, cls, nil)
	tpr, fpr, _ = stat.ROC(nil, y, cls, nil)
	return fpr, tpr, nil
}
