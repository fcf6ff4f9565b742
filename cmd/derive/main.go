// derive converts an uncertainty-annotated observation table into the
// labeled two-column table the training framework consumes.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/radlab-data/chexbench/internal/dataset"
	"github.com/radlab-data/chexbench/internal/labels"
)

var (
	input  = flag.String("input", "", "Observation table CSV (required)")
	output = flag.String("output", "", "Labeled output CSV (required)")
	split  = flag.String("split", "train", "Which split to emit: train, valid or all")
	uOnes  = flag.String("u-ones", strings.Join(labels.DefaultPolicy().UncertainPositive, ","),
		"Comma-separated findings where uncertain counts as positive")
	uZeros = flag.String("u-zeros", strings.Join(labels.DefaultPolicy().UncertainNegative, ","),
		"Comma-separated findings where uncertain counts as negative")
)

func main() {
	flag.Parse()
	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	policy := labels.Policy{
		UncertainPositive: labels.ParseList(*uOnes),
		UncertainNegative: labels.ParseList(*uZeros),
	}
	if err := policy.Validate(); err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	ds, err := dataset.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	recs := ds.Records
	switch *split {
	case "all":
	case string(dataset.Train):
		recs = ds.Subset(dataset.Train)
	case string(dataset.Valid):
		recs = ds.Subset(dataset.Valid)
	default:
		log.Fatalf("Unknown split %q (want train, valid or all)", *split)
	}
	if len(recs) == 0 {
		log.Fatalf("No %s rows in %s", *split, *input)
	}

	derived := make([]string, len(recs))
	counts := make(map[string]int)
	empty := 0
	for i, rec := range recs {
		set := policy.Derive(rec.Labels)
		derived[i] = labels.Join(set)
		if len(set) == 0 {
			empty++
		}
		for _, f := range set {
			counts[f]++
		}
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	defer out.Close()
	if err := dataset.WriteLabeled(out, recs, derived); err != nil {
		log.Fatalf("Failed to write labeled table: %v", err)
	}

	log.Printf("Wrote %d labeled rows to %s (%d with empty label set)", len(recs), *output, empty)
	for _, f := range policy.Findings() {
		log.Printf("  %-20s %6d positive", f, counts[f])
	}
}
