package eval

import (
	"errors"
	"fmt"
	"math"
)

// FindingResult is one finding's score in a metric report.
type FindingResult struct {
	Finding    string  `json:"finding"`
	AUC        float64 `json:"auc"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// Report maps findings to study-level AUC for one evaluation invocation.
// MeanAUC is the simple average over the evaluated (non-degenerate)
// findings; no rounding is applied here.
type Report struct {
	Results []FindingResult `json:"results"`
	MeanAUC float64         `json:"mean_auc"`
	Studies int             `json:"studies"`
}

// Degenerate lists the findings that were skipped because their ground truth
// was constant.
func (r *Report) Degenerate() []string {
	var out []string
	for _, res := range r.Results {
		if res.Degenerate {
			out = append(out, res.Finding)
		}
	}
	return out
}

// Evaluate computes per-finding AUC between aggregated ground truth and
// aggregated prediction scores. Both tables must describe the same findings
// and the same study population. Findings with constant ground truth are
// skipped from the mean and flagged degenerate; the evaluation only fails
// outright when no finding has a defined AUC.
func Evaluate(truth, pred *StudyTable) (*Report, error) {
	if err := sameShape(truth, pred); err != nil {
		return nil, err
	}

	report := &Report{Studies: len(truth.Keys)}
	var sum float64
	var evaluated int
	for j, finding := range truth.Findings {
		classes := make([]bool, len(truth.Values))
		scores := make([]float64, len(pred.Values))
		for i := range truth.Values {
			classes[i] = truth.Values[i][j] > 0.5
			scores[i] = pred.Values[i][j]
		}

		auc, err := AUC(finding, classes, scores)
		var degen *DegenerateLabelError
		if errors.As(err, &degen) {
			report.Results = append(report.Results, FindingResult{
				Finding:    finding,
				AUC:        math.NaN(),
				Degenerate: true,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, FindingResult{Finding: finding, AUC: auc})
		sum += auc
		evaluated++
	}

	if evaluated == 0 {
		return nil, fmt.Errorf("all %d findings have constant ground truth, nothing to evaluate", len(truth.Findings))
	}
	report.MeanAUC = sum / float64(evaluated)
	return report, nil
}

func sameShape(truth, pred *StudyTable) error {
	if len(truth.Findings) != len(pred.Findings) {
		return fmt.Errorf("finding count mismatch: truth has %d, predictions have %d", len(truth.Findings), len(pred.Findings))
	}
	for j := range truth.Findings {
		if truth.Findings[j] != pred.Findings[j] {
			return fmt.Errorf("finding mismatch at column %d: %q vs %q", j, truth.Findings[j], pred.Findings[j])
		}
	}
	if len(truth.Keys) != len(pred.Keys) {
		return fmt.Errorf("study count mismatch: truth has %d, predictions have %d", len(truth.Keys), len(pred.Keys))
	}
	for i := range truth.Keys {
		if truth.Keys[i] != pred.Keys[i] {
			return fmt.Errorf("study mismatch at row %d: %s vs %s", i, truth.Keys[i], pred.Keys[i])
		}
	}
	return nil
}
