package analytics

import "time"

type EventType string

const (
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
	EventZeroResult EventType = "zero_result"
	EventIndexBuilt EventType = "index_built"
)

// SearchEvent describes one answered two-keyword query.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Keyword1  string    `json:"kw1"`
	Keyword2  string    `json:"kw2"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Pair is the key the aggregator counts queries by.
func (e SearchEvent) Pair() string {
	return e.Keyword1 + " " + e.Keyword2
}

// IndexEvent is published once when an index build finishes.
type IndexEvent struct {
	Type       EventType `json:"type"`
	Documents  int       `json:"documents"`
	Keywords   int       `json:"keywords"`
	Tokens     int       `json:"tokens"`
	Rejected   int       `json:"rejected"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
