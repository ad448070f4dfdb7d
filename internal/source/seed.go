package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/boltsource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/pgsource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
)

// SeedStats summarises a Seed run.
type SeedStats struct {
	Documents  int
	Duplicates int
	NoiseWords int
}

type document struct {
	id      string
	content string
}

// Seed copies every document and noise word of from into the store selected
// by cfg.Indexer.Source, creating the postgres tables first. Content is
// stored as the document's tokens joined by single spaces. A document id
// listed twice keeps its first content, as it does in a build.
func Seed(ctx context.Context, cfg *config.Config, from Source) (SeedStats, error) {
	log := logger.WithComponent("seeder")

	docs, noise, stats, err := readAll(ctx, from)
	if err != nil {
		return stats, err
	}

	switch cfg.Indexer.Source {
	case config.SourcePostgres:
		db, err := connectPostgres(ctx, cfg)
		if err != nil {
			return stats, err
		}
		defer db.Close()
		dst := pgsource.New(db)
		if err := dst.EnsureSchema(ctx); err != nil {
			return stats, apperrors.Unavailable("postgres", err)
		}
		rows := make([]pgsource.Document, len(docs))
		for i, d := range docs {
			rows[i] = pgsource.Document{ID: d.id, Content: d.content}
		}
		if err := dst.Seed(ctx, rows, noise); err != nil {
			return stats, apperrors.Unavailable("postgres", err)
		}
	case config.SourceBolt:
		dst, err := boltsource.Open(cfg.Indexer.BoltPath)
		if err != nil {
			return stats, err
		}
		defer dst.Close()
		entries := make([]boltsource.Document, len(docs))
		for i, d := range docs {
			entries[i] = boltsource.Document{ID: d.id, Content: d.content}
		}
		if err := dst.Seed(ctx, entries, noise); err != nil {
			return stats, err
		}
	default:
		return stats, fmt.Errorf("%w: source %q cannot be seeded", apperrors.ErrInvalidInput, cfg.Indexer.Source)
	}

	log.Info("store seeded",
		"target", cfg.Indexer.Source,
		"documents", stats.Documents,
		"duplicates", stats.Duplicates,
		"noise_words", stats.NoiseWords,
	)
	return stats, nil
}

func readAll(ctx context.Context, from Source) ([]document, []string, SeedStats, error) {
	var stats SeedStats
	noise, err := from.NoiseWords(ctx)
	if err != nil {
		return nil, nil, stats, fmt.Errorf("reading noise words: %w", err)
	}
	stats.NoiseWords = len(noise)

	ids, err := from.Documents(ctx)
	if err != nil {
		return nil, nil, stats, fmt.Errorf("listing documents: %w", err)
	}
	seen := make(map[string]struct{}, len(ids))
	docs := make([]document, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		tokens, err := from.Tokens(ctx, id)
		if err != nil {
			return nil, nil, stats, fmt.Errorf("reading document %s: %w", id, err)
		}
		docs = append(docs, document{id: id, content: strings.Join(tokens, " ")})
	}
	stats.Documents = len(docs)
	return docs, noise, stats, nil
}
