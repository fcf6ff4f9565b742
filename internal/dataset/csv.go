package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Fixed metadata columns that precede the finding columns in CheXpert tables.
var metadataColumns = map[string]bool{
	"Path":            true,
	"Sex":             true,
	"Age":             true,
	"Frontal/Lateral": true,
	"AP/PA":           true,
}

// ReadCSV parses an observation table. The first column must be Path; every
// non-metadata column is treated as a finding. Patient, study and split
// identifiers are derived from the path on every row.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) == 0 || header[0] != "Path" {
		return nil, fmt.Errorf("first column must be Path, got %q", headerName(header))
	}

	colIdx := make(map[string]int, len(header))
	var findings []string
	for i, name := range header {
		colIdx[name] = i
		if !metadataColumns[name] {
			findings = append(findings, name)
		}
	}

	ds := &Dataset{Findings: findings}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line++

		rec := Record{
			Path:   row[0],
			Labels: make(map[string]Label, len(findings)),
		}
		if i, ok := colIdx["Sex"]; ok {
			rec.Sex = row[i]
		}
		if i, ok := colIdx["Age"]; ok {
			rec.Age = row[i]
		}
		if i, ok := colIdx["Frontal/Lateral"]; ok {
			rec.View = row[i]
		}

		split, patient, study, err := ParsePath(rec.Path)
		if err != nil {
			return nil, err
		}
		rec.Split = split
		rec.PatientID = patient
		rec.StudyID = study

		for _, f := range findings {
			label, err := ParseLabel(row[colIdx[f]])
			if err != nil {
				var lerr *InvalidLabelValueError
				if errors.As(err, &lerr) {
					lerr.Column = f
					lerr.Line = line
				}
				return nil, err
			}
			rec.Labels[f] = label
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// Load reads an observation table from disk.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ds, nil
}

// WriteLabeled emits the two-column table the training framework consumes:
// image path plus the derived multi-label target string. labels must be
// parallel to recs; an empty derived set is written as the empty string, not
// omitted.
func WriteLabeled(w io.Writer, recs []Record, labels []string) error {
	if len(recs) != len(labels) {
		return fmt.Errorf("record/label length mismatch: %d vs %d", len(recs), len(labels))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Path", "Labels"}); err != nil {
		return err
	}
	for i, rec := range recs {
		if err := cw.Write([]string{rec.Path, labels[i]}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadScores parses a per-image prediction matrix: a CSV with one column per
// requested finding, one row per image, aligned by row order to the table
// the scores were predicted for. Returns rows of scores in finding order.
func ReadScores(r io.Reader, findings []string) ([][]float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read scores header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, f := range findings {
		if _, ok := colIdx[f]; !ok {
			return nil, fmt.Errorf("scores file missing column %q", f)
		}
	}

	var rows [][]float64
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read scores row: %w", err)
		}
		line++

		scores := make([]float64, len(findings))
		for j, f := range findings {
			v, err := strconv.ParseFloat(row[colIdx[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid score %q in column %q on line %d: %w", row[colIdx[f]], f, line, err)
			}
			scores[j] = v
		}
		rows = append(rows, scores)
	}
	return rows, nil
}

func headerName(header []string) string {
	if len(header) == 0 {
		return ""
	}
	return header[0]
}
