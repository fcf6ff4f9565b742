package db

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "chexbench_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	db := testDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Down then up again round-trips.
	require.NoError(t, db.MigrateDown())
	require.NoError(t, db.MigrateUp())
}

func TestInsertAndGetRun(t *testing.T) {
	db := testDB(t)

	run := &Run{
		Name:       "resnet50 epoch 3",
		Checkpoint: "ckpt/resnet50-e3.pth",
		Policy:     "Atelectasis,Edema",
		MeanAUC:    0.885,
		Studies:    200,
	}
	metrics := []RunMetric{
		{Finding: "Atelectasis", AUC: 0.842, Reference: 0.858},
		{Finding: "Edema", AUC: 0.928, Reference: 0.941},
		{Finding: "Fracture", AUC: math.NaN(), Degenerate: true},
	}
	require.NoError(t, db.InsertRun(run, metrics))
	assert.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.CreatedAt)

	got, gotMetrics, err := db.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.Name, got.Name)
	assert.Equal(t, run.Checkpoint, got.Checkpoint)
	assert.Equal(t, run.MeanAUC, got.MeanAUC)
	assert.Equal(t, run.Studies, got.Studies)

	require.Len(t, gotMetrics, 3)
	// Metrics come back sorted by finding.
	assert.Equal(t, "Atelectasis", gotMetrics[0].Finding)
	assert.Equal(t, 0.842, gotMetrics[0].AUC)
	assert.Equal(t, 0.858, gotMetrics[0].Reference)

	fracture := gotMetrics[2]
	assert.True(t, fracture.Degenerate)
	assert.True(t, math.IsNaN(fracture.AUC))
}

func TestGetRunNotFound(t *testing.T) {
	db := testDB(t)
	_, _, err := db.GetRun("no-such-run")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRuns(t *testing.T) {
	db := testDB(t)

	for i, name := range []string{"first", "second", "third"} {
		run := &Run{Name: name, MeanAUC: 0.8, Studies: 10, CreatedAt: int64(1000 + i)}
		require.NoError(t, db.InsertRun(run, nil))
	}

	runs, err := db.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first.
	assert.Equal(t, "third", runs[0].Name)
	assert.Equal(t, "second", runs[1].Name)

	all, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInsertRunKeepsExplicitID(t *testing.T) {
	db := testDB(t)
	run := &Run{RunID: "run-42", Name: "explicit", MeanAUC: 0.7, Studies: 5}
	require.NoError(t, db.InsertRun(run, nil))
	assert.Equal(t, "run-42", run.RunID)

	got, _, err := db.GetRun("run-42")
	require.NoError(t, err)
	assert.Equal(t, "explicit", got.Name)
}
