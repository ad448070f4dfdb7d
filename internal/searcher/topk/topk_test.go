package topk

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]index.PostingList

func (m mapReader) Postings(kw string) (index.PostingList, bool) {
	p, ok := m[kw]
	return p, ok
}

func pl(pairs ...any) index.PostingList {
	out := make(index.PostingList, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, index.Occurrence{DocID: pairs[i].(string), Frequency: pairs[i+1].(int)})
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b index.PostingList
		k    int
		want []string
	}{
		{
			name: "higher frequency in second list leads",
			a:    pl("d1", 2),
			b:    pl("d2", 3, "d1", 1),
			k:    5,
			want: []string{"d2", "d1"},
		},
		{
			name: "tie favours first list",
			a:    pl("a1", 4),
			b:    pl("b1", 4),
			k:    5,
			want: []string{"a1", "b1"},
		},
		{
			name: "run of ties interleaves without skipping",
			a:    pl("a1", 3, "a2", 3, "a3", 1),
			b:    pl("b1", 3, "b2", 2),
			k:    5,
			want: []string{"a1", "a2", "b1", "b2", "a3"},
		},
		{
			name: "second list strictly greater advances second cursor",
			a:    pl("a1", 1),
			b:    pl("b1", 9, "b2", 8, "b3", 7),
			k:    5,
			want: []string{"b1", "b2", "b3", "a1"},
		},
		{
			name: "shared document appears once at first reach",
			a:    pl("x", 5, "a1", 2),
			b:    pl("b1", 6, "x", 1),
			k:    5,
			want: []string{"b1", "x", "a1"},
		},
		{
			name: "duplicates do not count toward k",
			a:    pl("d1", 9, "d2", 8, "d3", 7),
			b:    pl("d1", 6, "d2", 5, "d4", 4, "d5", 3, "d6", 2),
			k:    5,
			want: []string{"d1", "d2", "d3", "d4", "d5"},
		},
		{
			name: "cap",
			a:    pl("a1", 9, "a2", 8, "a3", 7, "a4", 6),
			b:    pl("b1", 9, "b2", 8, "b3", 7, "b4", 6),
			k:    5,
			want: []string{"a1", "b1", "a2", "b2", "a3"},
		},
		{
			name: "k defaults to five",
			a:    pl("a1", 9, "a2", 8, "a3", 7),
			b:    pl("b1", 1, "b2", 1, "b3", 1),
			k:    0,
			want: []string{"a1", "a2", "a3", "b1", "b2"},
		},
		{
			name: "huge k returns every distinct id",
			a:    pl("d1", 2),
			b:    pl("d2", 3, "d1", 1),
			k:    1 << 62,
			want: []string{"d2", "d1"},
		},
		{
			name: "smaller k",
			a:    pl("a1", 1),
			b:    pl("b1", 2),
			k:    1,
			want: []string{"b1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			require.NotPanics(t, func() { got = Merge(tt.a, tt.b, tt.k) })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopKLookups(t *testing.T) {
	idx := mapReader{
		"cat":   pl("d1", 7, "d2", 6, "d3", 5, "d4", 4, "d5", 3, "d6", 2),
		"dog":   pl("d9", 1),
		"empty": index.PostingList{},
	}

	ids, outcome := Search(idx, "CAT", "unicorn", 5)
	assert.Equal(t, OutcomeSingle, outcome)
	assert.Equal(t, []string{"d1", "d2", "d3", "d4", "d5"}, ids)

	ids, outcome = Search(idx, "unicorn", "Dog", 5)
	assert.Equal(t, OutcomeSingle, outcome)
	assert.Equal(t, []string{"d9"}, ids)

	ids, outcome = Search(idx, "unicorn", "griffin", 5)
	assert.Equal(t, OutcomeNone, outcome)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	ids, outcome = Search(idx, "empty", "dog", 5)
	assert.Equal(t, OutcomeSingle, outcome)
	assert.Equal(t, []string{"d9"}, ids)

	ids, outcome = Search(idx, "empty", "empty", 5)
	assert.Equal(t, OutcomeNone, outcome)
	assert.Empty(t, ids)
}

func TestTopKLargeK(t *testing.T) {
	idx := mapReader{"cat": pl("d1", 3, "d2", 2), "dog": pl("d3", 1)}
	assert.Equal(t, []string{"d1", "d2", "d3"}, TopK(idx, "cat", "dog", 1<<62))
	assert.Equal(t, []string{"d1", "d2"}, TopK(idx, "cat", "fish", 1<<62))
}

func TestTopKSameKeywordTwice(t *testing.T) {
	idx := mapReader{"cat": pl("d1", 3, "d2", 2)}
	assert.Equal(t, []string{"d1", "d2"}, TopK(idx, "cat", "CAT", 5))
}

func TestTopKQueryKeywordsAreNotStripped(t *testing.T) {
	idx := mapReader{"cat": pl("d1", 3)}
	assert.Empty(t, TopK(idx, "cat.", "cat!", 5))
}

func TestTopKOverBuiltIndex(t *testing.T) {
	src := source.NewMemory().
		Add("d1", "cat cat dog").
		Add("d2", "dog dog dog")
	idx, err := indexer.NewBuilder(config.IndexerConfig{}, nil).Build(context.Background(), src, src)
	require.NoError(t, err)

	assert.Equal(t, []string{"d2", "d1"}, TopK(idx, "cat", "dog", 5))
	assert.Equal(t, []string{"d1"}, TopK(idx, "cat", "fish", 5))
	assert.Empty(t, TopK(idx, "fish", "bird", 5))
}

func TestTopKConcurrentReaders(t *testing.T) {
	src := source.NewMemory()
	for i := 0; i < 30; i++ {
		src.Add(fmt.Sprintf("d%02d", i), fmt.Sprintf("%s %s", repeat("red", i%6+1), repeat("blue", i%4+1)))
	}
	idx, err := indexer.NewBuilder(config.IndexerConfig{}, nil).Build(context.Background(), src, src)
	require.NoError(t, err)
	want := TopK(idx, "red", "blue", 5)
	require.Len(t, want, 5)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				assert.Equal(t, want, TopK(idx, "red", "blue", 5))
			}
		}()
	}
	wg.Wait()
}

func repeat(word string, n int) string {
	out := word
	for i := 1; i < n; i++ {
		out += " " + word
	}
	return out
}
