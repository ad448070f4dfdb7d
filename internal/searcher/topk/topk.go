// Package topk answers two-keyword disjunctive queries over a built index by
// merging the two frequency-ordered posting lists into a deduplicated,
// rank-ordered list of at most k document ids.
package topk

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/index"
)

// DefaultK is the result cap used when k <= 0.
const DefaultK = 5

// Reader is the read side of an index.
type Reader interface {
	Postings(keyword string) (index.PostingList, bool)
}

// Outcome says which of the two keywords had postings.
type Outcome string

const (
	OutcomeNone   Outcome = "none"
	OutcomeSingle Outcome = "single"
	OutcomeBoth   Outcome = "both"
)

// TopK returns the ids of the documents containing kw1 or kw2, highest
// frequency first, at most k of them. Keywords are only lower-cased. The
// result is empty, never nil, when neither keyword is indexed.
func TopK(idx Reader, kw1, kw2 string, k int) []string {
	ids, _ := Search(idx, kw1, kw2, k)
	return ids
}

// Search is TopK that also reports the outcome of the lookups.
func Search(idx Reader, kw1, kw2 string, k int) ([]string, Outcome) {
	if k <= 0 {
		k = DefaultK
	}
	a := lookup(idx, kw1)
	b := lookup(idx, kw2)
	switch {
	case a == nil && b == nil:
		return []string{}, OutcomeNone
	case b == nil:
		return a.DocIDs(k), OutcomeSingle
	case a == nil:
		return b.DocIDs(k), OutcomeSingle
	}
	return Merge(a, b, k), OutcomeBoth
}

// lookup treats a present but empty posting list as absent.
func lookup(idx Reader, kw string) index.PostingList {
	postings, ok := idx.Postings(strings.ToLower(kw))
	if !ok || len(postings) == 0 {
		return nil
	}
	return postings
}

// Merge walks a and b with one cursor each, always taking the occurrence
// with the higher frequency and a's on a tie. Only the cursor that produced
// the candidate advances. Ids already in the result are skipped.
func Merge(a, b index.PostingList, k int) []string {
	if k <= 0 {
		k = DefaultK
	}
	size := min(k, len(a)+len(b))
	result := make([]string, 0, size)
	seen := make(map[string]struct{}, size)
	i, j := 0, 0
	for len(result) < k && (i < len(a) || j < len(b)) {
		var candidate string
		switch {
		case i >= len(a):
			candidate = b[j].DocID
			j++
		case j >= len(b):
			candidate = a[i].DocID
			i++
		case a[i].Frequency >= b[j].Frequency:
			candidate = a[i].DocID
			i++
		default:
			candidate = b[j].DocID
			j++
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		result = append(result, candidate)
	}
	return result
}
