// Package pgsource reads documents and noise words from PostgreSQL. Document
// order is the insertion order recorded in documents.position.
package pgsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id       TEXT PRIMARY KEY,
	content  TEXT NOT NULL,
	position BIGSERIAL
);
CREATE TABLE IF NOT EXISTS noise_words (
	word TEXT PRIMARY KEY
);`

// Document is a row of the documents table.
type Document struct {
	ID      string
	Content string
}

type Source struct {
	db     *postgres.Client
	logger *slog.Logger
}

func New(db *postgres.Client) *Source {
	return &Source{
		db:     db,
		logger: slog.Default().With("component", "pg-source"),
	}
}

// EnsureSchema creates the documents and noise_words tables if missing.
func (s *Source) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Seed inserts documents and noise words in one transaction. Existing rows
// with the same key are left untouched.
func (s *Source) Seed(ctx context.Context, docs []Document, noise []string) error {
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		for _, d := range docs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (id, content) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
				d.ID, d.Content); err != nil {
				return fmt.Errorf("inserting document %s: %w", d.ID, err)
			}
		}
		for _, w := range noise {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO noise_words (word) VALUES ($1) ON CONFLICT (word) DO NOTHING`, w); err != nil {
				return fmt.Errorf("inserting noise word %s: %w", w, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding source: %w", err)
	}
	s.logger.Info("source seeded", "documents", len(docs), "noise_words", len(noise))
	return nil
}

func (s *Source) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx, `SELECT id FROM documents ORDER BY position, id`)
	if err != nil {
		return nil, apperrors.Unavailable("documents", err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Unavailable("documents", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("documents", err)
	}
	return ids, nil
}

func (s *Source) Tokens(ctx context.Context, docID string) ([]string, error) {
	var content string
	err := s.db.DB.QueryRowContext(ctx, `SELECT content FROM documents WHERE id = $1`, docID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Unavailable("document "+docID, fmt.Errorf("no such document: %w", err))
	}
	if err != nil {
		return nil, apperrors.Unavailable("document "+docID, err)
	}
	return strings.Fields(content), nil
}

func (s *Source) NoiseWords(ctx context.Context) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx, `SELECT word FROM noise_words ORDER BY word`)
	if err != nil {
		return nil, apperrors.Unavailable("noise_words", err)
	}
	defer rows.Close()
	words := make([]string, 0)
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, apperrors.Unavailable("noise_words", err)
		}
		words = append(words, strings.Fields(w)...)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("noise_words", err)
	}
	return words, nil
}
