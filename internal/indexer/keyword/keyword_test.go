package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	noise := NewNoiseSet([]string{"the", "is"})

	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"plain", "dog", "dog", true},
		{"uppercase", "DoG", "dog", true},
		{"single trailing period", "dog.", "dog", true},
		{"mixed trailing punctuation", "dog.,!", "dog", true},
		{"all six marks", "word?:;!,.", "word", true},
		{"apostrophe", "don't", "", false},
		{"only punctuation", "...", "", false},
		{"empty", "", "", false},
		{"leading punctuation", ".dog", "", false},
		{"inner punctuation", "do.g", "", false},
		{"digits", "abc123", "", false},
		{"hyphen", "well-known", "", false},
		{"trailing quote stops stripping", "dog.\"", "", false},
		{"noise word", "the", "", false},
		{"noise word case folded", "The", "", false},
		{"noise word with punctuation", "is?", "", false},
		{"non ascii letter", "café", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, noise)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	noise := NewNoiseSet([]string{"a"})
	inputs := []string{"Dog.", "CAT!!", "bird", "Hello,", "x", "A", "mixed.,?"}
	for _, in := range inputs {
		first, ok := Normalize(in, noise)
		if !ok {
			continue
		}
		second, ok := Normalize(first, noise)
		assert.True(t, ok, in)
		assert.Equal(t, first, second, in)
	}
}

func TestNormalizeNilNoiseSet(t *testing.T) {
	got, ok := Normalize("The", nil)
	assert.True(t, ok)
	assert.Equal(t, "the", got)
}

func TestNoiseSetIsVerbatim(t *testing.T) {
	// Noise words are not normalized, so a capitalised entry never matches.
	noise := NewNoiseSet([]string{"The", "and", "and"})
	assert.Equal(t, 2, noise.Len())

	got, ok := Normalize("the", noise)
	assert.True(t, ok)
	assert.Equal(t, "the", got)

	_, ok = Normalize("AND", noise)
	assert.False(t, ok)
}
