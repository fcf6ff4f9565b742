package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUCPerfectPredictor(t *testing.T) {
	t.Parallel()
	classes := []bool{true, true, false, false}
	scores := []float64{0.9, 0.8, 0.3, 0.1}
	auc, err := AUC("Edema", classes, scores)
	require.NoError(t, err)
	assert.Equal(t, 1.0, auc)
}

func TestAUCConstantScores(t *testing.T) {
	t.Parallel()
	classes := []bool{true, false, true, false}
	scores := []float64{0.5, 0.5, 0.5, 0.5}
	auc, err := AUC("Edema", classes, scores)
	require.NoError(t, err)
	assert.Equal(t, 0.5, auc)
}

func TestAUCKnownValue(t *testing.T) {
	t.Parallel()
	// Of the four positive/negative pairs, three are ranked correctly.
	classes := []bool{true, true, false, false}
	scores := []float64{0.9, 0.4, 0.6, 0.2}
	auc, err := AUC("Edema", classes, scores)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-12)
}

func TestAUCTieAveraging(t *testing.T) {
	t.Parallel()
	// One positive and one negative with identical scores: the tied pair
	// contributes half a win under the average-rank convention.
	classes := []bool{true, false}
	scores := []float64{0.7, 0.7}
	auc, err := AUC("Edema", classes, scores)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)
}

func TestAUCInputOrderIndependent(t *testing.T) {
	t.Parallel()
	classes := []bool{false, true, false, true, true}
	scores := []float64{0.2, 0.9, 0.6, 0.4, 0.8}
	a, err := AUC("Edema", classes, scores)
	require.NoError(t, err)

	rc := []bool{true, true, false, true, false}
	rs := []float64{0.8, 0.4, 0.6, 0.9, 0.2}
	b, err := AUC("Edema", rc, rs)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// AUC must not mutate its inputs.
	assert.Equal(t, []float64{0.2, 0.9, 0.6, 0.4, 0.8}, scores)
	assert.Equal(t, []bool{false, true, false, true, true}, classes)
}

func TestAUCDegenerate(t *testing.T) {
	t.Parallel()

	t.Run("all positive", func(t *testing.T) {
		_, err := AUC("Edema", []bool{true, true}, []float64{0.1, 0.2})
		var derr *DegenerateLabelError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "Edema", derr.Finding)
		assert.Equal(t, 2, derr.Positives)
		assert.Equal(t, 0, derr.Negatives)
	})

	t.Run("all negative", func(t *testing.T) {
		_, err := AUC("Edema", []bool{false, false}, []float64{0.1, 0.2})
		var derr *DegenerateLabelError
		require.ErrorAs(t, err, &derr)
	})
}

func TestAUCLengthMismatch(t *testing.T) {
	t.Parallel()
	_, err := AUC("Edema", []bool{true}, []float64{0.1, 0.2})
	require.Error(t, err)
	var derr *DegenerateLabelError
	assert.False(t, errors.As(err, &derr))
}

func TestROCCurve(t *testing.T) {
	t.Parallel()
	classes := []bool{true, true, false, false}
	scores := []float64{0.9, 0.8, 0.3, 0.1}
	fpr, tpr, err := ROCCurve("Edema", classes, scores)
	require.NoError(t, err)
	require.Equal(t, len(fpr), len(tpr))
	require.NotEmpty(t, fpr)

	// Curve spans the unit square corners.
	assert.Equal(t, 0.0, fpr[0])
	assert.Equal(t, 0.0, tpr[0])
	assert.Equal(t, 1.0, fpr[len(fpr)-1])
	assert.Equal(t, 1.0, tpr[len(tpr)-1])

	_, _, err = ROCCurve("Edema", []bool{true}, []float64{0.5})
	assert.Error(t, err)
}
