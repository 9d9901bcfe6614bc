package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/cuistot/cuistot/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	outcomes := make([]string, 0, len(snap.GenerationOutcomes))
	for outcome := range snap.GenerationOutcomes {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		writeMetric(w, "cuistot_generations_total{outcome=%q} %d\n", outcome, snap.GenerationOutcomes[outcome])
	}

	writeMetric(w, "cuistot_generation_duration_seconds_count %d\n", snap.GenerationDurationCount)
	writeMetric(w, "cuistot_generation_duration_seconds_sum %.6f\n", float64(snap.GenerationDurationTotalNs)/1e9)

	writeMetric(w, "cuistot_recipes_saved_total %d\n", snap.RecipesSaved)
	writeMetric(w, "cuistot_recipes_deleted_total %d\n", snap.RecipesDeleted)

	writeMetric(w, "cuistot_sessions_issued_total %d\n", snap.SessionsIssued)
	writeMetric(w, "cuistot_sessions_revoked_total %d\n", snap.SessionsRevoked)
	writeMetric(w, "cuistot_auth_denied_total %d\n", snap.AuthDenied)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
