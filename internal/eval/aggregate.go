// Package eval rolls per-image predictions up to per-study scores and
// measures ranking quality (AUC) per finding against ground truth.
package eval

import (
	"fmt"
	"sort"

	"github.com/radlab-data/chexbench/internal/dataset"
)

// StudyKey identifies one imaging encounter. A patient may have several
// studies and a study several images; rows sharing a key aggregate together.
type StudyKey struct {
	Patient string `json:"patient"`
	Study   string `json:"study"`
}

func (k StudyKey) String() string {
	return k.Patient + "/" + k.Study
}

// StudyTable holds one row per study, one column per finding, sorted by key.
// The sort makes aggregation output deterministic regardless of input row
// order: group membership, not arrival order, determines the aggregate.
type StudyTable struct {
	Findings []string
	Keys     []StudyKey
	Values   [][]float64
}

// AggregateMax groups rows by study key and takes the element-wise maximum
// per finding column. The same code path serves binary ground-truth
// indicators and continuous prediction scores. Aggregating an already
// aggregated table is a no-op.
func AggregateMax(findings []string, keys []StudyKey, rows [][]float64) (*StudyTable, error) {
	if len(keys) != len(rows) {
		return nil, fmt.Errorf("key/row length mismatch: %d vs %d", len(keys), len(rows))
	}

	idx := make(map[StudyKey]int)
	table := &StudyTable{Findings: findings}
	for i, key := range keys {
		row := rows[i]
		if len(row) != len(findings) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(findings))
		}
		at, ok := idx[key]
		if !ok {
			idx[key] = len(table.Keys)
			table.Keys = append(table.Keys, key)
			table.Values = append(table.Values, append([]float64(nil), row...))
			continue
		}
		agg := table.Values[at]
		for j, v := range row {
			if v > agg[j] {
				agg[j] = v
			}
		}
	}

	sort.Sort(byKey{table})
	return table, nil
}

type byKey struct{ t *StudyTable }

func (b byKey) Len() int { return len(b.t.Keys) }
func (b byKey) Less(i, j int) bool {
	ki, kj := b.t.Keys[i], b.t.Keys[j]
	if ki.Patient != kj.Patient {
		return ki.Patient < kj.Patient
	}
	return ki.Study < kj.Study
}
func (b byKey) Swap(i, j int) {
	b.t.Keys[i], b.t.Keys[j] = b.t.Keys[j], b.t.Keys[i]
	b.t.Values[i], b.t.Values[j] = b.t.Values[j], b.t.Values[i]
}

// Column returns the values of one finding across all studies.
func (t *StudyTable) Column(finding string) ([]float64, error) {
	for j, f := range t.Findings {
		if f == finding {
			out := make([]float64, len(t.Values))
			for i, row := range t.Values {
				out[i] = row[j]
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("no finding %q in table", finding)
}

// BuildTruth converts observation records into per-image binary indicator
// rows for the given findings: Positive maps to 1, Negative and Absent to 0.
// Uncertain labels have no defined binary value and are rejected; ground
// truth tables must be fully resolved.
func BuildTruth(findings []string, recs []dataset.Record) ([]StudyKey, [][]float64, error) {
	keys := Keys(recs)
	rows := make([][]float64, len(recs))
	for i, rec := range recs {
		row := make([]float64, len(findings))
		for j, f := range findings {
			switch rec.Labels[f] {
			case dataset.Positive:
				row[j] = 1
			case dataset.Uncertain:
				return nil, nil, fmt.Errorf("uncertain label for %q in ground truth row %s", f, rec.Path)
			}
		}
		rows[i] = row
	}
	return keys, rows, nil
}

// Keys extracts study keys from records, parallel to the record slice.
func Keys(recs []dataset.Record) []StudyKey {
	keys := make([]StudyKey, len(recs))
	for i, rec := range recs {
		keys[i] = StudyKey{Patient: rec.PatientID, Study: rec.StudyID}
	}
	return keys
}
