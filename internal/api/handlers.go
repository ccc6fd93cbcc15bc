package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brightloop/screener/internal/orchestrator"
)

var startTime = time.Now()

// Handler serves the administrative HTTP surface.
type Handler struct {
	orchestrator *orchestrator.Orchestrator
}

// NewHandler builds a Handler wrapping the process-wide Orchestrator.
// orchestrator may be nil; Healthz still responds, Runs returns 503.
func NewHandler(o *orchestrator.Orchestrator) *Handler {
	return &Handler{orchestrator: o}
}

// HealthResponse is the GET /healthz response body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    formatDuration(time.Since(startTime)),
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunsResponse is the POST /runs response body.
type RunsResponse struct {
	RunID        string `json:"run_id"`
	UniverseSize int    `json:"universe_size"`
	ResultCount  int    `json:"result_count"`
	Results      any    `json:"results"`
}

// Runs handles POST /runs: it synchronously executes one screening pass
// against the process-wide Orchestrator and returns the result set.
// There is no request body; an in-flight run blocks the caller for the
// duration of the pass.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.orchestrator == nil {
		writeError(w, http.StatusServiceUnavailable, "orchestrator not configured")
		return
	}

	result, err := h.orchestrator.Run(r.Context(), orchestrator.RunOptions{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RunsResponse{
		RunID:        result.RunID,
		UniverseSize: result.UniverseSize,
		ResultCount:  len(result.Stocks),
		Results:      result.Stocks,
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
