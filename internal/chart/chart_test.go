package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radlab-data/chexbench/internal/eval"
)

func sampleReport() *eval.Report {
	return &eval.Report{
		Results: []eval.FindingResult{
			{Finding: "Atelectasis", AUC: 0.84},
			{Finding: "Edema", AUC: 0.91},
			{Finding: "Fracture", AUC: math.NaN(), Degenerate: true},
		},
		MeanAUC: 0.875,
		Studies: 200,
	}
}

func TestRenderAUCBar(t *testing.T) {
	var buf bytes.Buffer
	refs := map[string]float64{"Atelectasis": 0.858, "Edema": 0.941}
	err := RenderAUCBar(&buf, "resnet50 epoch 3", sampleReport(), refs)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Atelectasis")
	assert.Contains(t, html, "Edema")
	assert.Contains(t, html, "reference")
	// Degenerate findings have no bar.
	assert.NotContains(t, html, "Fracture")
}

func TestRenderAUCBarNothingToChart(t *testing.T) {
	var buf bytes.Buffer
	rep := &eval.Report{
		Results: []eval.FindingResult{
			{Finding: "Fracture", AUC: math.NaN(), Degenerate: true},
		},
	}
	err := RenderAUCBar(&buf, "x", rep, nil)
	assert.Error(t, err)
}

func TestSaveROCPlot(t *testing.T) {
	dir := t.TempDir()
	fpr := []float64{0, 0, 0.5, 1}
	tpr := []float64{0, 1, 1, 1}

	path, err := SaveROCPlot(dir, "Pleural Effusion", fpr, tpr, 0.97)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "roc_pleural_effusion.png"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveROCPlotLengthMismatch(t *testing.T) {
	_, err := SaveROCPlot(t.TempDir(), "Edema", []float64{0}, []float64{0, 1}, 0.5)
	assert.Error(t, err)
}
