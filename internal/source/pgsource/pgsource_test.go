package pgsource

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(context.Background(), testPostgresConfig())
	if err != nil {
		t.Skipf("skipping: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPostgresConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "keywordindex_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "keywordindex"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func TestSourceRoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	_, err := db.DB.ExecContext(ctx, `DROP TABLE IF EXISTS documents, noise_words`)
	require.NoError(t, err)

	src := New(db)
	require.NoError(t, src.EnsureSchema(ctx))

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	first, second := "a-"+suffix, "b-"+suffix
	require.NoError(t, src.Seed(ctx, []Document{
		{ID: second, Content: "dog dog\ndog"},
		{ID: first, Content: "cat cat dog"},
	}, []string{"the", "is"}))

	ids, err := src.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{second, first}, ids)

	tokens, err := src.Tokens(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "cat", "dog"}, tokens)

	words, err := src.NoiseWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"is", "the"}, words)

	_, err = src.Tokens(ctx, "missing-"+suffix)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}
