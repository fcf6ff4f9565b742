package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveROCPlot writes one finding's ROC curve to a PNG in outputDir, with the
// chance diagonal for reference. Returns the written path.
func SaveROCPlot(outputDir, finding string, fpr, tpr []float64, auc float64) (string, error) {
	if len(fpr) != len(tpr) {
		return "", fmt.Errorf("fpr/tpr length mismatch: %d vs %d", len(fpr), len(tpr))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plot directory: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (AUC %.3f)", finding, auc)
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	curve := make(plotter.XYs, len(fpr))
	for i := range fpr {
		curve[i].X = fpr[i]
		curve[i].Y = tpr[i]
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return "", fmt.Errorf("failed to build ROC line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return "", fmt.Errorf("failed to build diagonal: %w", err)
	}
	diag.Color = color.Gray{Y: 160}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	out := filepath.Join(outputDir, plotFilename(finding))
	if err := p.Save(5*vg.Inch, 5*vg.Inch, out); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", out, err)
	}
	return out, nil
}

func plotFilename(finding string) string {
	name := strings.ToLower(finding)
	name = strings.ReplaceAll(name, " ", "_")
	return "roc_" + name + ".png"
}
