// Package source defines where the index builder gets its input from and
// opens the configured implementation.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/boltsource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/filesource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/pgsource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/resilience"
)

// DocumentSource lists documents and hands out their whitespace-split tokens.
type DocumentSource interface {
	Documents(ctx context.Context) ([]string, error)
	Tokens(ctx context.Context, docID string) ([]string, error)
}

// NoiseSource hands out the noise words, already split on whitespace.
type NoiseSource interface {
	NoiseWords(ctx context.Context) ([]string, error)
}

// Source is both a DocumentSource and a NoiseSource.
type Source interface {
	DocumentSource
	NoiseSource
}

// Memory is a static in-process Source. Document content is split with
// strings.Fields.
type Memory struct {
	order    []string
	contents map[string]string
	noise    []string
}

func NewMemory(noise ...string) *Memory {
	return &Memory{
		contents: make(map[string]string),
		noise:    noise,
	}
}

// Add appends a document. Adding an existing id replaces its content and
// keeps its position.
func (m *Memory) Add(id, content string) *Memory {
	if _, ok := m.contents[id]; !ok {
		m.order = append(m.order, id)
	}
	m.contents[id] = content
	return m
}

func (m *Memory) Documents(ctx context.Context) ([]string, error) {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}

func (m *Memory) Tokens(ctx context.Context, docID string) ([]string, error) {
	content, ok := m.contents[docID]
	if !ok {
		return nil, apperrors.Unavailable(docID, fmt.Errorf("no such document"))
	}
	return strings.Fields(content), nil
}

func (m *Memory) NoiseWords(ctx context.Context) ([]string, error) {
	out := make([]string, len(m.noise))
	copy(out, m.noise)
	return out, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the Source selected by cfg.Indexer.Source. The returned closer
// releases any connection or file handle held by the source.
func Open(ctx context.Context, cfg *config.Config) (Source, io.Closer, error) {
	switch cfg.Indexer.Source {
	case config.SourceFile:
		return filesource.New(cfg.Indexer.DocsFile, cfg.Indexer.NoiseFile), nopCloser{}, nil
	case config.SourcePostgres:
		db, err := connectPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return pgsource.New(db), db, nil
	case config.SourceBolt:
		src, err := boltsource.Open(cfg.Indexer.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown source %q", apperrors.ErrInvalidInput, cfg.Indexer.Source)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*postgres.Client, error) {
	var db *postgres.Client
	retry := resilience.RetryConfig{IsRetryable: postgres.IsTransient}
	err := resilience.Retry(ctx, "postgres connect", retry, func(ctx context.Context) error {
		var err error
		db, err = postgres.New(ctx, cfg.Postgres)
		return err
	})
	if err != nil {
		return nil, apperrors.Unavailable("postgres", err)
	}
	return db, nil
}
