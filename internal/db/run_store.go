package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Run is one persisted evaluation invocation: a model checkpoint scored
// against a validation table.
type Run struct {
	RunID      string  `json:"run_id"`
	Name       string  `json:"name"`
	Checkpoint string  `json:"checkpoint,omitempty"`
	Policy     string  `json:"policy,omitempty"`
	MeanAUC    float64 `json:"mean_auc"`
	Studies    int     `json:"studies"`
	CreatedAt  int64   `json:"created_at"`
}

// RunMetric is one finding's score within a run. AUC is NaN when the finding
// was degenerate (stored as NULL).
type RunMetric struct {
	RunID      string  `json:"run_id"`
	Finding    string  `json:"finding"`
	AUC        float64 `json:"auc"`
	Reference  float64 `json:"reference_auc,omitempty"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// InsertRun persists a run and its per-finding metrics in one transaction.
// If RunID is empty a UUID is generated.
func (db *DB) InsertRun(run *Run, metrics []RunMetric) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, name, checkpoint, policy, mean_auc, studies, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Name, run.Checkpoint, run.Policy, run.MeanAUC, run.Studies, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, m := range metrics {
		var auc interface{}
		if !m.Degenerate && !math.IsNaN(m.AUC) {
			auc = m.AUC
		}
		var ref interface{}
		if m.Reference != 0 {
			ref = m.Reference
		}
		_, err = tx.Exec(
			`INSERT INTO run_metrics (run_id, finding, auc, reference_auc, degenerate)
			 VALUES (?, ?, ?, ?, ?)`,
			run.RunID, m.Finding, auc, ref, boolToInt(m.Degenerate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert metric for %q: %w", m.Finding, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT run_id, name, checkpoint, policy, mean_auc, studies, created_at
		 FROM runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var checkpoint, policy sql.NullString
		if err := rows.Scan(&r.RunID, &r.Name, &checkpoint, &policy, &r.MeanAUC, &r.Studies, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Checkpoint = checkpoint.String
		r.Policy = policy.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run and its metrics. Returns sql.ErrNoRows if the run
// does not exist.
func (db *DB) GetRun(runID string) (*Run, []RunMetric, error) {
	var r Run
	var checkpoint, policy sql.NullString
	err := db.QueryRow(
		`SELECT run_id, name, checkpoint, policy, mean_auc, studies, created_at
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.Name, &checkpoint, &policy, &r.MeanAUC, &r.Studies, &r.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	r.Checkpoint = checkpoint.String
	r.Policy = policy.String

	rows, err := db.Query(
		`SELECT finding, auc, reference_auc, degenerate
		 FROM run_metrics WHERE run_id = ? ORDER BY finding`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var metrics []RunMetric
	for rows.Next() {
		m := RunMetric{RunID: runID}
		var auc, ref sql.NullFloat64
		var degenerate int
		if err := rows.Scan(&m.Finding, &auc, &ref, &degenerate); err != nil {
			return nil, nil, err
		}
		if auc.Valid {
			m.AUC = auc.Float64
		} else {
			m.AUC = math.NaN()
		}
		m.Reference = ref.Float64
		m.Degenerate = degenerate != 0
		metrics = append(metrics, m)
	}
	return &r, metrics, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
