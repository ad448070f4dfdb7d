package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/topk"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/metrics"
)

// SearchResult is the answer to one two-keyword query.
type SearchResult struct {
	Keywords []string `json:"keywords"`
	Results  []string `json:"results"`
	Matched  bool     `json:"matched"`
}

// Index is what the executor needs from a built index.
type Index interface {
	topk.Reader
	BuiltAt() time.Time
}

type Executor struct {
	idx     Index
	k       int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Executor returning at most k ids per query. m may be nil.
func New(idx Index, k int, m *metrics.Metrics) *Executor {
	if k <= 0 {
		k = topk.DefaultK
	}
	return &Executor{
		idx:     idx,
		k:       k,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

// K returns the result cap.
func (e *Executor) K() int {
	return e.k
}

// Generation identifies the index being served. It changes whenever the
// index is rebuilt.
func (e *Executor) Generation() int64 {
	if e.idx == nil {
		return 0
	}
	return e.idx.BuiltAt().UnixNano()
}

func (e *Executor) Execute(ctx context.Context, kw1, kw2 string) (*SearchResult, error) {
	if e.idx == nil {
		return nil, apperrors.ErrIndexNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTimeout, err)
	}
	kw1, kw2 = strings.ToLower(kw1), strings.ToLower(kw2)

	ids, outcome := topk.Search(e.idx, kw1, kw2, e.k)
	if e.metrics != nil {
		e.metrics.SearchQueriesTotal.WithLabelValues(string(outcome)).Inc()
		e.metrics.SearchResultsCount.Observe(float64(len(ids)))
	}
	e.logger.Debug("query executed",
		"kw1", kw1,
		"kw2", kw2,
		"outcome", outcome,
		"results", len(ids),
	)
	return &SearchResult{
		Keywords: []string{kw1, kw2},
		Results:  ids,
		Matched:  len(ids) > 0,
	}, nil
}
