package parser

import (
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query   string
		kw1     string
		kw2     string
		wantErr bool
	}{
		{query: "cat dog", kw1: "cat", kw2: "dog"},
		{query: "  Cat   DOG ", kw1: "cat", kw2: "dog"},
		{query: "cat OR dog", kw1: "cat", kw2: "dog"},
		{query: "cat or dog", wantErr: true},
		{query: "OR dog", kw1: "or", kw2: "dog"},
		{query: "cat. dog!", kw1: "cat.", kw2: "dog!"},
		{query: "cat", wantErr: true},
		{query: "", wantErr: true},
		{query: "cat dog bird", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := Parse(tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kw1, q.Keyword1)
			assert.Equal(t, tt.kw2, q.Keyword2)
			assert.Equal(t, tt.query, q.RawQuery)
		})
	}
}

func TestFromPair(t *testing.T) {
	q, err := FromPair("Cat", " dog ")
	require.NoError(t, err)
	assert.Equal(t, "cat", q.Keyword1)
	assert.Equal(t, "dog", q.Keyword2)

	_, err = FromPair("cat", "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
