package parser

import (
	"net/http"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
)

// Query is a parsed two-keyword query.
type Query struct {
	Keyword1 string
	Keyword2 string
	RawQuery string
}

// Parse splits a free-text query such as "cat dog" or "cat OR dog" into its
// two keywords. The upper-case OR between them is optional. Keywords are
// lower-cased and otherwise left as typed.
func Parse(query string) (*Query, error) {
	words := strings.Fields(query)
	terms := make([]string, 0, 2)
	for i, w := range words {
		if w == "OR" && i > 0 && i < len(words)-1 {
			continue
		}
		terms = append(terms, strings.ToLower(w))
	}
	if len(terms) != 2 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"query must name exactly two keywords, got %d", len(terms))
	}
	return &Query{
		Keyword1: terms[0],
		Keyword2: terms[1],
		RawQuery: query,
	}, nil
}

// FromPair builds a Query from separately supplied keywords. Both must be
// non-blank.
func FromPair(kw1, kw2 string) (*Query, error) {
	kw1, kw2 = strings.TrimSpace(kw1), strings.TrimSpace(kw2)
	if kw1 == "" || kw2 == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"both kw1 and kw2 are required")
	}
	return &Query{
		Keyword1: strings.ToLower(kw1),
		Keyword2: strings.ToLower(kw2),
		RawQuery: kw1 + " " + kw2,
	}, nil
}
