package index

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeywords(t *testing.T) {
	noise := keyword.NewNoiseSet([]string{"the", "is"})
	tokens := []string{"The", "cat", "is", "a", "Cat.", "cat's", "dog!", "42", "..."}

	kws, stats := LoadKeywordsWithStats(tokens, "d1", noise)

	require.Len(t, kws, 3)
	assert.Equal(t, Occurrence{DocID: "d1", Frequency: 2}, *kws["cat"])
	assert.Equal(t, Occurrence{DocID: "d1", Frequency: 1}, *kws["a"])
	assert.Equal(t, Occurrence{DocID: "d1", Frequency: 1}, *kws["dog"])
	assert.Equal(t, LoadStats{Tokens: 9, Accepted: 4, Rejected: 5}, stats)
}

func TestLoadKeywordsEmptyDocument(t *testing.T) {
	assert.Empty(t, LoadKeywords(nil, "d1", nil))
}

func TestMemoryIndexMerge(t *testing.T) {
	m := NewMemoryIndex()

	_, err := m.Merge("d1", LoadKeywords([]string{"cat", "cat", "dog"}, "d1", nil))
	require.NoError(t, err)
	results, err := m.Merge("d2", LoadKeywords([]string{"dog", "dog", "dog"}, "d2", nil))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, MergeResult{Keyword: "dog", Probes: []int{0}, Rank: 0}, results[0])

	cat, ok := m.Postings("cat")
	require.True(t, ok)
	assert.Equal(t, PostingList{{DocID: "d1", Frequency: 2}}, cat)

	dog, ok := m.Postings("dog")
	require.True(t, ok)
	assert.Equal(t, PostingList{{DocID: "d2", Frequency: 3}, {DocID: "d1", Frequency: 1}}, dog)

	_, ok = m.Postings("bird")
	assert.False(t, ok)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.DocCount())
	assert.Equal(t, []string{"cat", "dog"}, keywordsOf(m))
}

func TestMemoryIndexMergeRejectsDuplicateDocument(t *testing.T) {
	m := NewMemoryIndex()
	_, err := m.Merge("d1", LoadKeywords([]string{"cat"}, "d1", nil))
	require.NoError(t, err)

	_, err = m.Merge("d1", LoadKeywords([]string{"cat"}, "d1", nil))
	assert.ErrorIs(t, err, ErrDuplicateDocument)

	cat, _ := m.Postings("cat")
	assert.Len(t, cat, 1)
}

func TestMemoryIndexMergeRejectsForeignOccurrence(t *testing.T) {
	m := NewMemoryIndex()
	_, err := m.Merge("d1", map[string]*Occurrence{"cat": {DocID: "d2", Frequency: 1}})
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.HasDocument("d1"))
}

func TestMemoryIndexSeal(t *testing.T) {
	m := NewMemoryIndex()
	assert.True(t, m.BuiltAt().IsZero())
	m.Seal()
	assert.True(t, m.Sealed())
	assert.False(t, m.BuiltAt().IsZero())

	_, err := m.Merge("d1", LoadKeywords([]string{"cat"}, "d1", nil))
	assert.ErrorIs(t, err, ErrSealed)
}

func TestMemoryIndexStaysSorted(t *testing.T) {
	m := NewMemoryIndex()
	for i := 0; i < 50; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		tokens := make([]string, 0, i%7+1)
		for j := 0; j < i%7+1; j++ {
			tokens = append(tokens, "shared")
		}
		tokens = append(tokens, "unique")
		_, err := m.Merge(docID, LoadKeywords(tokens, docID, nil))
		require.NoError(t, err)
	}

	m.Each(func(kw string, postings PostingList) bool {
		assert.True(t, IsSorted(postings), kw)
		assert.Len(t, postings, 50, kw)
		return true
	})
}

func TestMemoryIndexEachStops(t *testing.T) {
	m := NewMemoryIndex()
	_, err := m.Merge("d1", LoadKeywords([]string{"a", "b", "c"}, "d1", nil))
	require.NoError(t, err)

	var seen []string
	m.Each(func(kw string, _ PostingList) bool {
		seen = append(seen, kw)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func keywordsOf(m *MemoryIndex) []string {
	var out []string
	m.Each(func(kw string, _ PostingList) bool {
		out = append(out, kw)
		return true
	})
	return out
}
