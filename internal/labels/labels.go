// Package labels derives multi-label training targets from uncertainty-
// annotated finding labels. Each target finding is governed by one of two
// fixed rules decided ahead of time: uncertain counts as positive (u-ones)
// or uncertain counts as negative (u-zeros).
package labels

import (
	"fmt"
	"strings"

	"github.com/radlab-data/chexbench/internal/dataset"
)

// Delimiter separates finding names in a serialized label set.
const Delimiter = ";"

// Policy assigns every target finding to exactly one uncertainty rule. It is
// an immutable configuration value passed in at call time; nothing here is
// recomputed from the data.
type Policy struct {
	// UncertainPositive lists findings where an uncertain annotation is
	// treated as a positive training target (u-ones).
	UncertainPositive []string

	// UncertainNegative lists findings where only a definite positive
	// annotation counts (u-zeros).
	UncertainNegative []string
}

// DefaultPolicy returns the CheXpert competition split: u-ones for
// Atelectasis and Edema, u-zeros for the remaining three evaluation
// categories. This follows the per-category best policies reported in
// Irvin et al. (2019).
func DefaultPolicy() Policy {
	return Policy{
		UncertainPositive: []string{"Atelectasis", "Edema"},
		UncertainNegative: []string{"Cardiomegaly", "Consolidation", "Pleural Effusion"},
	}
}

// Validate checks that the policy assigns each finding to exactly one rule.
func (p Policy) Validate() error {
	if len(p.UncertainPositive) == 0 && len(p.UncertainNegative) == 0 {
		return fmt.Errorf("policy governs no findings")
	}
	seen := make(map[string]bool)
	for _, f := range p.Findings() {
		if f == "" {
			return fmt.Errorf("policy contains an empty finding name")
		}
		if seen[f] {
			return fmt.Errorf("finding %q assigned to more than one rule", f)
		}
		seen[f] = true
	}
	return nil
}

// Findings returns all governed findings, u-ones first, preserving list
// order. This order fixes the serialization order of derived label sets.
func (p Policy) Findings() []string {
	out := make([]string, 0, len(p.UncertainPositive)+len(p.UncertainNegative))
	out = append(out, p.UncertainPositive...)
	out = append(out, p.UncertainNegative...)
	return out
}

// Derive produces the set of findings that count as positive for one
// observation row under the policy. Absent values are excluded under both
// rules, and findings the policy does not govern are excluded regardless of
// their raw value. Pure function of its inputs.
func (p Policy) Derive(raw map[string]dataset.Label) []string {
	var out []string
	for _, f := range p.UncertainPositive {
		switch raw[f] {
		case dataset.Positive, dataset.Uncertain:
			out = append(out, f)
		}
	}
	for _, f := range p.UncertainNegative {
		if raw[f] == dataset.Positive {
			out = append(out, f)
		}
	}
	return out
}

// DeriveString is Derive followed by Join.
func (p Policy) DeriveString(raw map[string]dataset.Label) string {
	return Join(p.Derive(raw))
}

// Join serializes a derived label set. The empty set serializes to the empty
// string rather than a missing value, so downstream consumers never see
// null.
func Join(findings []string) string {
	return strings.Join(findings, Delimiter)
}

// ParseList splits a comma-separated list of finding names, trimming
// whitespace and dropping empty entries. Used for policy flags.
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
