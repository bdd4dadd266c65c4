/*
handlers.go - HTTP handler implementations for the run-trigger API

PURPOSE:
  Implements the thin HTTP surface that triggers a scheduling pipeline run
  and lets a caller poll its result. This package intentionally knows
  nothing about availability, cooldown, scoring, or assignment — all of
  that lives in pipeline.Run. A handler's only job is request decoding,
  calling pipeline.Run, and response encoding.

RUN LIFECYCLE:
  POST /api/runs executes the pipeline synchronously and stores the
  result in an in-memory RunStore keyed by RunID, so a later
  GET /api/runs/{id} can retrieve it without re-running anything.

SEE ALSO:
  - server.go: route wiring
  - pipeline/pipeline.go: Run, the function this handler calls
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/pipeline"
	"github.com/aininja-pro/media-scheduler/provider"
)

// RunStore holds completed run results in memory, keyed by RunID. A real
// deployment could back this with store/sqlite instead; an in-memory map
// is sufficient for the trigger boundary this package implements.
type RunStore struct {
	mu      sync.RWMutex
	results map[string]pipeline.Result
}

func NewRunStore() *RunStore {
	return &RunStore{results: make(map[string]pipeline.Result)}
}

func (rs *RunStore) Put(result pipeline.Result) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results[result.RunID] = result
}

func (rs *RunStore) Get(runID string) (pipeline.Result, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	result, ok := rs.results[runID]
	return result, ok
}

// Handler holds the dependencies every HTTP handler needs.
type Handler struct {
	DataProvider  provider.DataProvider
	Runs          *RunStore
	ConfigDefault func(office string, weekStart domain.Date) pipeline.Config
	Logger        *zap.SugaredLogger
}

// NewHandler constructs a Handler with pipeline.DefaultConfig as the
// default config factory.
func NewHandler(dp provider.DataProvider, runs *RunStore, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		DataProvider:  dp,
		Runs:          runs,
		ConfigDefault: pipeline.DefaultConfig,
		Logger:        logger,
	}
}

// CreateRun handles POST /api/runs: executes one pipeline pass and
// returns its result. The run is also stored for later retrieval by ID.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Office == "" {
		writeError(w, http.StatusBadRequest, "office is required")
		return
	}
	weekStart, ok := domain.ParseDate(req.WeekStart)
	if !ok {
		writeError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	cfg := h.ConfigDefault(req.Office, weekStart)
	result, err := pipeline.Run(r.Context(), h.DataProvider, cfg)
	if err != nil {
		h.Logger.Errorw("pipeline run failed",
			"office", req.Office, "week_start", weekStart.String(), "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, RunDTO{
			Office:    req.Office,
			WeekStart: weekStart.String(),
			Status:    "failed",
			Error:     err.Error(),
		})
		return
	}

	h.Runs.Put(result)
	writeJSON(w, http.StatusCreated, toRunDTO(result))
}

// GetRun handles GET /api/runs/{id}: returns a previously computed run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	result, ok := h.Runs.Get(runID)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(result))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
