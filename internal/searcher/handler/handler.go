package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/middleware"
)

type SearchExecutor interface {
	Execute(ctx context.Context, kw1, kw2 string) (*executor.SearchResult, error)
	K() int
}

// IndexInfo describes the index being served.
type IndexInfo interface {
	Len() int
	DocCount() int
	BuiltAt() time.Time
}

type IndexStats struct {
	Keywords  int       `json:"keywords"`
	Documents int       `json:"documents"`
	BuiltAt   time.Time `json:"built_at"`
	TopK      int       `json:"top_k"`
}

type Handler struct {
	executor  SearchExecutor
	index     IndexInfo
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler. queryCache, collector and m may be nil.
func New(exec SearchExecutor, idx IndexInfo, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		executor:  exec,
		index:     idx,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Routes registers the handler's endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search answers GET /api/v1/search?kw1=..&kw2=.. or, equivalently,
// ?q=kw1+kw2.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query, err := parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var result *executor.SearchResult
	cacheHit := false
	k := h.executor.K()
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query.Keyword1, query.Keyword2, k, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, query.Keyword1, query.Keyword2)
		})
	} else {
		result, err = h.executor.Execute(ctx, query.Keyword1, query.Keyword2)
	}
	if err != nil {
		log.Error("search execution failed", "kw1", query.Keyword1, "kw2", query.Keyword2, "error", err)
		h.writeError(w, err)
		return
	}

	latency := time.Since(start)
	if h.metrics != nil {
		status := "miss"
		switch {
		case h.cache == nil:
			status = "disabled"
		case cacheHit:
			status = "hit"
		}
		h.metrics.SearchLatency.WithLabelValues(status).Observe(latency.Seconds())
	}
	log.Info("search completed",
		"kw1", query.Keyword1,
		"kw2", query.Keyword2,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	if h.collector != nil {
		eventType := analytics.EventCacheMiss
		switch {
		case len(result.Results) == 0:
			eventType = analytics.EventZeroResult
		case cacheHit:
			eventType = analytics.EventCacheHit
		}
		h.collector.Track(analytics.SearchEvent{
			Type:      eventType,
			Keyword1:  query.Keyword1,
			Keyword2:  query.Keyword2,
			Returned:  len(result.Results),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

func parseRequest(r *http.Request) (*parser.Query, error) {
	params := r.URL.Query()
	if q := params.Get("q"); q != "" {
		return parser.Parse(q)
	}
	return parser.FromPair(params.Get("kw1"), params.Get("kw2"))
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		h.writeError(w, apperrors.ErrIndexNotReady)
		return
	}
	h.writeJSON(w, http.StatusOK, IndexStats{
		Keywords:  h.index.Len(),
		Documents: h.index.DocCount(),
		BuiltAt:   h.index.BuiltAt().UTC(),
		TopK:      h.executor.K(),
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "caching is disabled"})
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, fmt.Errorf("%w: %w", apperrors.ErrInternal, err))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps err to a status code. Only AppError messages reach the
// client; everything else is reported by its sentinel.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	message := "internal error"
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case errors.Is(err, apperrors.ErrIndexNotReady):
		message = apperrors.ErrIndexNotReady.Error()
	case errors.Is(err, apperrors.ErrTimeout):
		message = apperrors.ErrTimeout.Error()
	}
	h.writeJSON(w, apperrors.HTTPStatusCode(err), map[string]string{"error": message})
}
