package index

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/huandu/skiplist"
)

var (
	// ErrSealed is returned when merging into an index that has been sealed.
	ErrSealed = errors.New("index is sealed")
	// ErrDuplicateDocument is returned when a document id is merged twice.
	ErrDuplicateDocument = errors.New("document already indexed")
)

// MemoryIndex maps keywords to posting lists. Keys are kept in a skip list
// ordered by keyword. It is built by a single writer; once sealed it is
// read-only and safe for concurrent readers.
type MemoryIndex struct {
	keywords *skiplist.SkipList
	docs     map[string]struct{}
	sealed   bool
	builtAt  time.Time
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		keywords: skiplist.New(skiplist.String),
		docs:     make(map[string]struct{}),
	}
}

// MergeResult describes how one occurrence landed in its posting list.
type MergeResult struct {
	Keyword string
	Probes  []int
	Rank    int
}

// Merge folds the keyword occurrences of one document into the index. Each
// occurrence is appended to its keyword's posting list and moved to its rank
// with InsertLast. Keywords are merged in lexical order.
func (m *MemoryIndex) Merge(docID string, kws map[string]*Occurrence) ([]MergeResult, error) {
	if m.sealed {
		return nil, ErrSealed
	}
	if m.HasDocument(docID) {
		return nil, fmt.Errorf("merging %q: %w", docID, ErrDuplicateDocument)
	}
	words := make([]string, 0, len(kws))
	for kw, occ := range kws {
		if occ == nil {
			continue
		}
		if occ.DocID != docID {
			return nil, fmt.Errorf("occurrence of %q belongs to %q, not %q", kw, occ.DocID, docID)
		}
		words = append(words, kw)
	}
	sort.Strings(words)

	results := make([]MergeResult, 0, len(words))
	for _, kw := range words {
		results = append(results, m.add(kw, *kws[kw]))
	}
	m.docs[docID] = struct{}{}
	return results, nil
}

func (m *MemoryIndex) add(kw string, occ Occurrence) MergeResult {
	elem := m.keywords.Get(kw)
	if elem == nil {
		m.keywords.Set(kw, PostingList{occ})
		return MergeResult{Keyword: kw}
	}
	list := append(elem.Value.(PostingList), occ)
	probes := InsertLast(list)
	elem.Value = list
	rank := len(list) - 1
	for i := range list {
		if list[i].DocID == occ.DocID {
			rank = i
			break
		}
	}
	return MergeResult{Keyword: kw, Probes: probes, Rank: rank}
}

// Seal freezes the index. Later merges fail with ErrSealed.
func (m *MemoryIndex) Seal() {
	if m.sealed {
		return
	}
	m.sealed = true
	m.builtAt = time.Now().UTC()
}

func (m *MemoryIndex) Sealed() bool {
	return m.sealed
}

// BuiltAt returns the time the index was sealed, or the zero time.
func (m *MemoryIndex) BuiltAt() time.Time {
	return m.builtAt
}

// Postings returns the posting list of kw. The list is shared with the index
// and must not be modified.
func (m *MemoryIndex) Postings(kw string) (PostingList, bool) {
	elem := m.keywords.Get(kw)
	if elem == nil {
		return nil, false
	}
	return elem.Value.(PostingList), true
}

// Len returns the number of distinct keywords.
func (m *MemoryIndex) Len() int {
	return m.keywords.Len()
}

// HasDocument reports whether docID has been merged.
func (m *MemoryIndex) HasDocument(docID string) bool {
	_, ok := m.docs[docID]
	return ok
}

// DocCount returns the number of documents merged so far.
func (m *MemoryIndex) DocCount() int {
	return len(m.docs)
}

// Each calls fn for every keyword in lexical order until fn returns false.
func (m *MemoryIndex) Each(fn func(kw string, postings PostingList) bool) {
	for elem := m.keywords.Front(); elem != nil; elem = elem.Next() {
		if !fn(elem.Key().(string), elem.Value.(PostingList)) {
			return
		}
	}
}
