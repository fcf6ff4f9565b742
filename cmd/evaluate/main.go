// evaluate scores a model's per-image predictions against a validation
// table at the study level and prints per-finding AUC next to the published
// reference values. Optionally records the run, renders ROC plots and an
// HTML comparison chart.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/radlab-data/chexbench/internal/benchmark"
	"github.com/radlab-data/chexbench/internal/chart"
	"github.com/radlab-data/chexbench/internal/dataset"
	"github.com/radlab-data/chexbench/internal/db"
	"github.com/radlab-data/chexbench/internal/eval"
	"github.com/radlab-data/chexbench/internal/labels"
	"github.com/radlab-data/chexbench/internal/report"
)

var (
	truthPath = flag.String("truth", "", "Validation table CSV with ground truth labels (required)")
	predPath  = flag.String("pred", "", "Per-image prediction scores CSV, row-aligned to the truth table (required)")
	findings  = flag.String("findings", strings.Join(benchmark.CompetitionFindings, ","),
		"Comma-separated findings to evaluate")
	dbPath     = flag.String("db", "", "Record the run in this SQLite database")
	runName    = flag.String("name", "evaluation", "Run name for the record")
	checkpoint = flag.String("checkpoint", "", "Model checkpoint identifier for the record")
	plotDir    = flag.String("plots", "", "Write per-finding ROC curve PNGs to this directory")
	chartPath  = flag.String("chart", "", "Write an AUC comparison chart (HTML) to this path")
)

func main() {
	flag.Parse()
	if *truthPath == "" || *predPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	targets := labels.ParseList(*findings)
	if len(targets) == 0 {
		log.Fatal("No findings to evaluate")
	}

	ds, err := dataset.Load(*truthPath)
	if err != nil {
		log.Fatalf("Failed to load ground truth: %v", err)
	}

	keys, truthRows, err := eval.BuildTruth(targets, ds.Records)
	if err != nil {
		log.Fatalf("Failed to build ground truth indicators: %v", err)
	}

	predFile, err := os.Open(*predPath)
	if err != nil {
		log.Fatalf("Failed to open predictions: %v", err)
	}
	scoreRows, err := dataset.ReadScores(predFile, targets)
	predFile.Close()
	if err != nil {
		log.Fatalf("Failed to read predictions: %v", err)
	}
	if len(scoreRows) != len(keys) {
		log.Fatalf("Prediction rows (%d) do not align with truth rows (%d)", len(scoreRows), len(keys))
	}

	truth, err := eval.AggregateMax(targets, keys, truthRows)
	if err != nil {
		log.Fatalf("Failed to aggregate ground truth: %v", err)
	}
	pred, err := eval.AggregateMax(targets, keys, scoreRows)
	if err != nil {
		log.Fatalf("Failed to aggregate predictions: %v", err)
	}

	rep, err := eval.Evaluate(truth, pred)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	if skipped := rep.Degenerate(); len(skipped) > 0 {
		log.Printf("Skipped %d degenerate finding(s): %s", len(skipped), strings.Join(skipped, ", "))
	}

	if err := report.Write(os.Stdout, rep, benchmark.Reference); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if *plotDir != "" {
		writeROCPlots(*plotDir, truth, pred, rep)
	}

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		if err := chart.RenderAUCBar(f, *runName, rep, benchmark.Reference); err != nil {
			log.Fatalf("Failed to render chart: %v", err)
		}
		f.Close()
		log.Printf("Wrote chart to %s", *chartPath)
	}

	if *dbPath != "" {
		recordRun(*dbPath, rep)
	}
}

func writeROCPlots(dir string, truth, pred *eval.StudyTable, rep *eval.Report) {
	for _, res := range rep.Results {
		if res.Degenerate {
			continue
		}
		truthCol, err := truth.Column(res.Finding)
		if err != nil {
			log.Fatalf("Failed to read truth column: %v", err)
		}
		predCol, err := pred.Column(res.Finding)
		if err != nil {
			log.Fatalf("Failed to read prediction column: %v", err)
		}
		classes := make([]bool, len(truthCol))
		for i, v := range truthCol {
			classes[i] = v > 0.5
		}
		fpr, tpr, err := eval.ROCCurve(res.Finding, classes, predCol)
		if err != nil {
			log.Fatalf("Failed to compute ROC curve for %s: %v", res.Finding, err)
		}
		path, err := chart.SaveROCPlot(dir, res.Finding, fpr, tpr, res.AUC)
		if err != nil {
			log.Fatalf("Failed to plot ROC curve for %s: %v", res.Finding, err)
		}
		log.Printf("Wrote %s", path)
	}
}

func recordRun(path string, rep *eval.Report) {
	database, err := db.NewDB(path)
	if err != nil {
		log.Fatalf("Failed to open run database: %v", err)
	}
	defer database.Close()

	run := &db.Run{
		Name:       *runName,
		Checkpoint: *checkpoint,
		Policy:     *findings,
		MeanAUC:    rep.MeanAUC,
		Studies:    rep.Studies,
	}
	metrics := make([]db.RunMetric, 0, len(rep.Results))
	for _, res := range rep.Results {
		metrics = append(metrics, db.RunMetric{
			Finding:    res.Finding,
			AUC:        res.AUC,
			Reference:  benchmark.Reference[res.Finding],
			Degenerate: res.Degenerate,
		})
	}
	if err := database.InsertRun(run, metrics); err != nil {
		log.Fatalf("Failed to record run: %v", err)
	}
	fmt.Printf("Recorded run %s\n", run.RunID)
}
