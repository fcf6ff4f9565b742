// Package dataset loads CheXpert-style observation tables: one row per
// radiographic image, fixed metadata columns, then one tri-state label
// column per clinical finding.
package dataset

import (
	"fmt"
	"strings"
)

// Label is the raw per-finding annotation for one image. Absent (the column
// was blank) is distinct from Negative: a finding that was never recorded
// must not be coerced to a negative observation.
type Label uint8

const (
	Absent Label = iota
	Negative
	Positive
	Uncertain
)

func (l Label) String() string {
	switch l {
	case Absent:
		return "absent"
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	case Uncertain:
		return "uncertain"
	default:
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
}

// ParseLabel converts a raw CSV cell into a Label. CheXpert writes labels as
// "1.0", "0.0", "-1.0" or leaves the cell blank; bare integers are accepted
// too. Any other value is an InvalidLabelValueError.
func ParseLabel(s string) (Label, error) {
	switch strings.TrimSpace(s) {
	case "":
		return Absent, nil
	case "0", "0.0":
		return Negative, nil
	case "1", "1.0":
		return Positive, nil
	case "-1", "-1.0":
		return Uncertain, nil
	default:
		return Absent, &InvalidLabelValueError{Value: s}
	}
}

// Split marks which partition of the dataset a row belongs to.
type Split string

const (
	Train Split = "train"
	Valid Split = "valid"
)

// Record is one observation row: a single image with its identifiers and the
// raw label for every finding column present in the source table.
type Record struct {
	Path      string           `json:"path"`
	Sex       string           `json:"sex,omitempty"`
	Age       string           `json:"age,omitempty"`
	View      string           `json:"view,omitempty"`
	PatientID string           `json:"patient_id"`
	StudyID   string           `json:"study_id"`
	Split     Split            `json:"split"`
	Labels    map[string]Label `json:"-"`
}

// Dataset is an in-memory observation table. Findings preserves the column
// order of the source file.
type Dataset struct {
	Findings []string
	Records  []Record
}

// Subset returns the records belonging to the given split. Row order is
// preserved so prediction matrices aligned by row order stay aligned.
func (d *Dataset) Subset(split Split) []Record {
	var out []Record
	for _, r := range d.Records {
		if r.Split == split {
			out = append(out, r)
		}
	}
	return out
}

// ParsePath extracts split, patient and study identifiers from an image path
// like "CheXpert-v1.0-small/train/patient00001/study1/view1_frontal.jpg".
// The layout is positional: segment 2 is the split, 3 the patient, 4 the
// study. Anything shorter or with empty segments is a PathParseError.
func ParsePath(path string) (split Split, patient, study string, err error) {
	segments := strings.Split(path, "/")
	if len(segments) < 5 {
		return "", "", "", &PathParseError{Path: path, Reason: fmt.Sprintf("want at least 5 path segments, got %d", len(segments))}
	}
	split = Split(segments[1])
	patient = segments[2]
	study = segments[3]
	if split != Train && split != Valid {
		return "", "", "", &PathParseError{Path: path, Reason: fmt.Sprintf("unknown split segment %q", segments[1])}
	}
	if patient == "" || study == "" {
		return "", "", "", &PathParseError{Path: path, Reason: "empty patient or study segment"}
	}
	return split, patient, study, nil
}
