package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/keyword"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/metrics"
)

// BuildStats summarises a completed build.
type BuildStats struct {
	Documents  int
	Skipped    int
	Keywords   int
	NoiseWords int
	Tokens     int
	Rejected   int
	Duration   time.Duration
}

// Builder builds a sealed MemoryIndex from a document source and a noise
// source. A build is sequential: documents are processed one at a time in
// the order the source lists them.
type Builder struct {
	cfg     config.IndexerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a Builder. m may be nil.
func NewBuilder(cfg config.IndexerConfig, m *metrics.Metrics) *Builder {
	return &Builder{
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// Build reads the noise words once, then loads and merges every document.
// Any source failure aborts the build and no index is returned.
func (b *Builder) Build(ctx context.Context, docs source.DocumentSource, noise source.NoiseSource) (*index.MemoryIndex, error) {
	idx, _, err := b.BuildWithStats(ctx, docs, noise)
	return idx, err
}

// BuildWithStats is Build that also returns the build summary.
func (b *Builder) BuildWithStats(ctx context.Context, docs source.DocumentSource, noise source.NoiseSource) (*index.MemoryIndex, BuildStats, error) {
	start := time.Now()
	idx, stats, err := b.build(ctx, docs, noise)
	stats.Duration = time.Since(start)
	if err != nil {
		b.observeBuild("failed", stats)
		b.logger.Error("index build failed", "error", err, "documents_done", stats.Documents)
		return nil, stats, err
	}
	b.observeBuild("ok", stats)
	if b.metrics != nil {
		b.metrics.IndexKeywords.Set(float64(stats.Keywords))
		b.metrics.IndexDocuments.Set(float64(stats.Documents))
	}
	b.logger.Info("index built",
		"documents", stats.Documents,
		"skipped", stats.Skipped,
		"keywords", stats.Keywords,
		"noise_words", stats.NoiseWords,
		"tokens", stats.Tokens,
		"rejected", stats.Rejected,
		"duration", stats.Duration,
	)
	return idx, stats, nil
}

func (b *Builder) build(ctx context.Context, docs source.DocumentSource, noise source.NoiseSource) (*index.MemoryIndex, BuildStats, error) {
	var stats BuildStats

	words, err := noise.NoiseWords(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("loading noise words: %w", err)
	}
	noiseSet := keyword.NewNoiseSet(words)
	stats.NoiseWords = noiseSet.Len()

	ids, err := docs.Documents(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("listing documents: %w", err)
	}

	idx := index.NewMemoryIndex()
	for _, docID := range ids {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("index build interrupted: %w", err)
		}
		tokens, err := docs.Tokens(ctx, docID)
		if err != nil {
			return nil, stats, fmt.Errorf("loading document %s: %w", docID, err)
		}
		kws, load := index.LoadKeywordsWithStats(tokens, docID, noiseSet)
		results, err := idx.Merge(docID, kws)
		if errors.Is(err, index.ErrDuplicateDocument) {
			b.logger.Warn("document listed twice, keeping first", "doc_id", docID)
			stats.Skipped++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("merging document %s: %w", docID, err)
		}
		if b.cfg.VerifyOrder {
			b.verify(idx, docID, results)
		}

		stats.Documents++
		stats.Tokens += load.Tokens
		stats.Rejected += load.Rejected
		b.observeDocument(load, results)
		b.logger.Debug("document indexed",
			"doc_id", docID,
			"tokens", load.Tokens,
			"keywords", len(kws),
			"rejected", load.Rejected,
		)
	}
	idx.Seal()
	stats.Keywords = idx.Len()
	return idx, stats, nil
}

// verify panics if a posting list touched by the last merge lost its
// descending order. Only one element is ever appended before InsertLast, so
// a failure here is a bug in the insertion, not bad input.
func (b *Builder) verify(idx *index.MemoryIndex, docID string, results []index.MergeResult) {
	for _, r := range results {
		postings, _ := idx.Postings(r.Keyword)
		if !index.IsSorted(postings) {
			panic(fmt.Sprintf("indexer: posting list of %q out of order after merging %s: %v", r.Keyword, docID, postings))
		}
	}
}

func (b *Builder) observeDocument(load index.LoadStats, results []index.MergeResult) {
	if b.metrics == nil {
		return
	}
	b.metrics.DocsIndexedTotal.Inc()
	b.metrics.TokensTotal.WithLabelValues("accepted").Add(float64(load.Accepted))
	b.metrics.TokensTotal.WithLabelValues("rejected").Add(float64(load.Rejected))
	for _, r := range results {
		if r.Probes != nil {
			b.metrics.InsertProbes.Observe(float64(len(r.Probes)))
		}
	}
}

func (b *Builder) observeBuild(status string, stats BuildStats) {
	if b.metrics == nil {
		return
	}
	b.metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
	b.metrics.IndexBuildDuration.Observe(stats.Duration.Seconds())
}
