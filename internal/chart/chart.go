// Package chart renders evaluation results as charts: a go-echarts HTML bar
// chart comparing measured AUC against the paper reference, and gonum/plot
// ROC curve images.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/radlab-data/chexbench/internal/eval"
)

// RenderAUCBar writes an HTML bar chart of per-finding AUC next to the
// reference values. Degenerate findings are omitted; they have no score to
// plot.
func RenderAUCBar(w io.Writer, title string, rep *eval.Report, references map[string]float64) error {
	var findings []string
	var measured, reference []opts.BarData
	for _, res := range rep.Results {
		if res.Degenerate {
			continue
		}
		findings = append(findings, res.Finding)
		measured = append(measured, opts.BarData{Value: res.AUC})
		if ref, ok := references[res.Finding]; ok {
			reference = append(reference, opts.BarData{Value: ref})
		} else {
			reference = append(reference, opts.BarData{Value: nil})
		}
	}
	if len(findings) == 0 {
		return fmt.Errorf("no evaluated findings to chart")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("mean AUC %.3f over %d studies", rep.MeanAUC, rep.Studies)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0.5, Max: 1.0, Name: "AUC"}),
	)
	bar.SetXAxis(findings).
		AddSeries("model", measured).
		AddSeries("reference", reference)

	return bar.Render(w)
}
