package analytics

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// maxTopPairs caps the ?top= parameter of the query stats endpoint.
const maxTopPairs = 100

// Handler serves the aggregated keyword-pair query statistics.
type Handler struct {
	aggregator *Aggregator
	logger     *slog.Logger
}

func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     slog.Default().With("component", "query-stats"),
	}
}

// Stats answers GET /api/v1/analytics/stats. ?top=N sizes the most queried
// and zero-result pair lists (default 10, at most 100).
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	top := DefaultTopPairs
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopPairs {
			h.write(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("top must be an integer between 1 and %d", maxTopPairs),
			})
			return
		}
		top = n
	}
	stats := h.aggregator.StatsTop(top)
	h.logger.Debug("query stats served",
		"top", top,
		"total_searches", stats.TotalSearches,
		"pairs", len(stats.TopPairs),
	)
	h.write(w, http.StatusOK, stats)
}

func (h *Handler) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write query stats response", "error", err)
	}
}
