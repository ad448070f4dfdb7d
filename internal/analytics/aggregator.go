package analytics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// maxLatencies bounds the latency sample kept for percentiles.
const maxLatencies = 10000

// DefaultTopPairs is how many keyword pairs Stats lists.
const DefaultTopPairs = 10

type AggregatedStats struct {
	TotalSearches    int64       `json:"total_searches"`
	CacheHits        int64       `json:"cache_hits"`
	CacheMisses      int64       `json:"cache_misses"`
	ZeroResultCount  int64       `json:"zero_result_count"`
	AvgLatencyMs     float64     `json:"avg_latency_ms"`
	P50LatencyMs     int64       `json:"p50_latency_ms"`
	P95LatencyMs     int64       `json:"p95_latency_ms"`
	P99LatencyMs     int64       `json:"p99_latency_ms"`
	TopPairs         []PairCount `json:"top_pairs"`
	ZeroResultPairs  []PairCount `json:"zero_result_pairs"`
	QueriesPerMinute float64     `json:"queries_per_minute"`
}

type PairCount struct {
	Pair  string `json:"pair"`
	Count int64  `json:"count"`
}

// Aggregator keeps running totals of search events in memory.
type Aggregator struct {
	mu              sync.RWMutex
	totalSearches   atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	zeroResults     atomic.Int64
	latencies       []int64
	next            int
	pairCounts      map[string]int64
	zeroResultPairs map[string]int64
	startTime       time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:       make([]int64, 0, 1024),
		pairCounts:      make(map[string]int64),
		zeroResultPairs: make(map[string]int64),
		startTime:       time.Now(),
	}
}

func (a *Aggregator) Record(event SearchEvent) {
	a.totalSearches.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.Returned == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	if len(a.latencies) < maxLatencies {
		a.latencies = append(a.latencies, event.LatencyMs)
	} else {
		a.latencies[a.next] = event.LatencyMs
		a.next = (a.next + 1) % maxLatencies
	}
	pair := event.Pair()
	a.pairCounts[pair]++
	if event.Returned == 0 {
		a.zeroResultPairs[pair]++
	}
	a.mu.Unlock()
}

func (a *Aggregator) Stats() AggregatedStats {
	return a.StatsTop(DefaultTopPairs)
}

// StatsTop is Stats listing at most top keyword pairs in TopPairs and
// ZeroResultPairs.
func (a *Aggregator) StatsTop(top int) AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:   a.totalSearches.Load(),
		CacheHits:       a.cacheHits.Load(),
		CacheMisses:     a.cacheMisses.Load(),
		ZeroResultCount: a.zeroResults.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopPairs = topN(a.pairCounts, top)
	stats.ZeroResultPairs = topN(a.zeroResultPairs, top)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN orders by count, then by pair so equal counts list deterministically.
func topN(counts map[string]int64, n int) []PairCount {
	result := make([]PairCount, 0, len(counts))
	for pair, count := range counts {
		result = append(result, PairCount{Pair: pair, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Pair < result[j].Pair
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
