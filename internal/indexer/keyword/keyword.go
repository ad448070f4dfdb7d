// Package keyword turns raw whitespace-delimited tokens into canonical index
// keywords. A keyword is lower-cased, stripped of trailing punctuation, made
// only of the letters a-z, and not a noise word.
package keyword

import "strings"

// NoiseSet holds the words excluded from indexing. Words are matched exactly
// as they were supplied; a nil NoiseSet filters nothing.
type NoiseSet map[string]struct{}

// NewNoiseSet builds a NoiseSet from the given words. Duplicates collapse.
func NewNoiseSet(words []string) NoiseSet {
	set := make(NoiseSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word is a noise word.
func (s NoiseSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of distinct noise words.
func (s NoiseSet) Len() int {
	return len(s)
}

// Normalize returns the canonical keyword for raw, or false when the token is
// rejected: empty after stripping, containing anything other than a-z, or a
// noise word.
func Normalize(raw string, noise NoiseSet) (string, bool) {
	word := stripTrailingPunctuation(strings.ToLower(raw))
	if word == "" {
		return "", false
	}
	if !isAlpha(word) {
		return "", false
	}
	if noise.Contains(word) {
		return "", false
	}
	return word, true
}

func stripTrailingPunctuation(word string) string {
	end := len(word)
	for end > 0 && isPunctuation(word[end-1]) {
		end--
	}
	return word[:end]
}

func isPunctuation(c byte) bool {
	switch c {
	case '.', ',', '?', ':', ';', '!':
		return true
	}
	return false
}

func isAlpha(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}
