// Package benchmark carries the published reference AUC values that
// evaluation reports print alongside measured scores.
package benchmark

// CompetitionFindings are the five CheXpert evaluation categories, in the
// order reports present them.
var CompetitionFindings = []string{
	"Atelectasis",
	"Cardiomegaly",
	"Consolidation",
	"Edema",
	"Pleural Effusion",
}

// Reference holds the validation AUCs reported in Irvin et al. (2019) for
// the per-category best uncertainty policy. Configuration data, never
// recomputed.
var Reference = map[string]float64{
	"Atelectasis":      0.858,
	"Cardiomegaly":     0.854,
	"Consolidation":    0.939,
	"Edema":            0.941,
	"Pleural Effusion": 0.936,
}
