package index

import "github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/keyword"

// LoadStats summarises one document load.
type LoadStats struct {
	Tokens   int
	Accepted int
	Rejected int
}

// LoadKeywords counts the keywords of a single document. Every token is run
// through keyword.Normalize; rejected tokens are skipped silently. The result
// holds one Occurrence per distinct keyword, all carrying docID.
func LoadKeywords(tokens []string, docID string, noise keyword.NoiseSet) map[string]*Occurrence {
	kws, _ := LoadKeywordsWithStats(tokens, docID, noise)
	return kws
}

// LoadKeywordsWithStats is LoadKeywords that also reports token counts.
func LoadKeywordsWithStats(tokens []string, docID string, noise keyword.NoiseSet) (map[string]*Occurrence, LoadStats) {
	kws := make(map[string]*Occurrence)
	stats := LoadStats{Tokens: len(tokens)}
	for _, raw := range tokens {
		kw, ok := keyword.Normalize(raw, noise)
		if !ok {
			stats.Rejected++
			continue
		}
		stats.Accepted++
		occ, exists := kws[kw]
		if !exists {
			occ = &Occurrence{DocID: docID}
			kws[kw] = occ
		}
		occ.Frequency++
	}
	return kws, stats
}
