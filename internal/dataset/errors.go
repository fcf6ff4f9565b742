package dataset

import "fmt"

// PathParseError reports an image path that does not follow the fixed
// split/patient/study segment layout.
type PathParseError struct {
	Path   string
	Reason string
}

func (e *PathParseError) Error() string {
	return fmt.Sprintf("cannot parse identifiers from path %q: %s", e.Path, e.Reason)
}

// InvalidLabelValueError reports a label cell outside {-1, 0, 1, blank}.
// Column and Line are filled in by the CSV reader when available.
type InvalidLabelValueError struct {
	Column string
	Line   int
	Value  string
}

func (e *InvalidLabelValueError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("invalid label value %q", e.Value)
	}
	return fmt.Sprintf("invalid label value %q in column %q on line %d", e.Value, e.Column, e.Line)
}
