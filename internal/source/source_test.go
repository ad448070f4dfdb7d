package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("the").
		Add("d1", "cat cat dog").
		Add("d2", "dog\tdog  dog").
		Add("d1", "bird")

	ids, err := m.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, ids)

	tokens, err := m.Tokens(ctx, "d2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "dog", "dog"}, tokens)

	tokens, err = m.Tokens(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bird"}, tokens)

	_, err = m.Tokens(ctx, "d3")
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)

	noise, err := m.NoiseWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"the"}, noise)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs.txt")
	require.NoError(t, os.WriteFile(docs, []byte("a.txt"), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Indexer.DocsFile = docs
	cfg.Indexer.NoiseFile = docs

	src, closer, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closer.Close()

	ids, err := src.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, ids)
}

func TestOpenBolt(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Indexer.Source = config.SourceBolt
	cfg.Indexer.BoltPath = filepath.Join(t.TempDir(), "docs.db")

	src, closer, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closer.Close()

	ids, err := src.Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOpenUnknown(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Indexer.Source = "ftp"

	_, _, err = Open(context.Background(), cfg)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

type relisted struct {
	*Memory
	ids []string
}

func (r relisted) Documents(context.Context) ([]string, error) { return r.ids, nil }

func TestSeedBolt(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Indexer.Source = config.SourceBolt
	cfg.Indexer.BoltPath = filepath.Join(t.TempDir(), "docs.db")

	from := relisted{
		Memory: NewMemory("the").Add("d2", "dog\tdog\ndog").Add("d1", "the cat"),
		ids:    []string{"d2", "d1", "d2"},
	}
	stats, err := Seed(ctx, cfg, from)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Documents: 2, Duplicates: 1, NoiseWords: 1}, stats)

	src, closer, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer closer.Close()

	ids, err := src.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d1"}, ids)

	tokens, err := src.Tokens(ctx, "d2")
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "dog", "dog"}, tokens)

	noise, err := src.NoiseWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"the"}, noise)
}

func TestSeedRejectsFileTarget(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	_, err = Seed(context.Background(), cfg, NewMemory().Add("d1", "cat"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSeedFailsOnUnreadableDocument(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Indexer.Source = config.SourceBolt
	cfg.Indexer.BoltPath = filepath.Join(t.TempDir(), "docs.db")

	from := relisted{Memory: NewMemory().Add("d1", "cat"), ids: []string{"d1", "ghost"}}
	_, err = Seed(context.Background(), cfg, from)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	assert.NoFileExists(t, cfg.Indexer.BoltPath)
}
