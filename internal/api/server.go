// Package api serves evaluation runs over HTTP: run listings, per-run
// metric reports, and AUC comparison charts.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/radlab-data/chexbench/internal/benchmark"
	"github.com/radlab-data/chexbench/internal/chart"
	"github.com/radlab-data/chexbench/internal/db"
	"github.com/radlab-data/chexbench/internal/eval"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db *db.DB
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/runs", s.listRuns)
	mux.HandleFunc("/run", s.showRun)
	mux.HandleFunc("/run/chart", s.showRunChart)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("failed to encode json error response: %v", err)
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.db.ListRuns(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	if err := json.NewEncoder(w).Encode(runs); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to write runs")
	}
}

// runResponse shapes a run with its metrics for JSON output. Degenerate
// findings report a null AUC instead of NaN, which JSON cannot carry.
type runResponse struct {
	Run     db.Run        `json:"run"`
	Metrics []metricEntry `json:"metrics"`
}

type metricEntry struct {
	Finding    string   `json:"finding"`
	AUC        *float64 `json:"auc"`
	Reference  float64  `json:"reference_auc,omitempty"`
	Degenerate bool     `json:"degenerate,omitempty"`
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*db.Run, []db.RunMetric, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'id' parameter")
		return nil, nil, false
	}
	run, metrics, err := s.db.GetRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no run %q", id))
		return nil, nil, false
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load run: %v", err))
		return nil, nil, false
	}
	return run, metrics, true
}

func (s *Server) showRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	run, metrics, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	resp := runResponse{Run: *run}
	for _, m := range metrics {
		entry := metricEntry{Finding: m.Finding, Reference: m.Reference, Degenerate: m.Degenerate}
		if !m.Degenerate && !math.IsNaN(m.AUC) {
			auc := m.AUC
			entry.AUC = &auc
		}
		resp.Metrics = append(resp.Metrics, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to write run")
	}
}

func (s *Server) showRunChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	run, metrics, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	rep := &eval.Report{MeanAUC: run.MeanAUC, Studies: run.Studies}
	refs := make(map[string]float64)
	for _, m := range metrics {
		rep.Results = append(rep.Results, eval.FindingResult{
			Finding:    m.Finding,
			AUC:        m.AUC,
			Degenerate: m.Degenerate,
		})
		if m.Reference != 0 {
			refs[m.Finding] = m.Reference
		} else if ref, ok := benchmark.Reference[m.Finding]; ok {
			refs[m.Finding] = ref
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderAUCBar(w, run.Name, rep, refs); err != nil {
		log.Printf("failed to render chart for run %s: %v", run.RunID, err)
	}
}
