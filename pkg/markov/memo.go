package markov

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultCacheLimit bounds the indices the cache stores. Indices at or
// above the limit are computed on every call.
const DefaultCacheLimit = 100_000_000

// pair is a cached Unpair result.
type pair struct {
	x, y uint64
}

// memoTable maps an index to a previously computed value. Entries are
// never invalidated or evicted.
type memoTable[V any] struct {
	name    string
	limit   uint64
	entries map[uint64]V

	// Counters are atomic so metric callbacks may read them while the
	// single writer is running.
	hits     atomic.Uint64
	misses   atomic.Uint64
	bypassed atomic.Uint64
	size     atomic.Uint64
}

func newMemoTable[V any](name string, limit uint64) *memoTable[V] {
	return &memoTable[V]{
		name:    name,
		limit:   limit,
		entries: make(map[uint64]V),
	}
}

func (t *memoTable[V]) load(n uint64) (V, bool) {
	if n >= t.limit {
		t.bypassed.Add(1)
		var zero V
		return zero, false
	}
	v, ok := t.entries[n]
	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return v, ok
}

func (t *memoTable[V]) store(n uint64, v V) {
	if n >= t.limit {
		return
	}
	t.entries[n] = v
	t.size.Store(uint64(len(t.entries)))
}

func (t *memoTable[V]) stats() TableStats {
	return TableStats{
		Name:     t.name,
		Entries:  t.size.Load(),
		Hits:     t.hits.Load(),
		Misses:   t.misses.Load(),
		Bypassed: t.bypassed.Load(),
	}
}

// TableStats describes one memo table.
type TableStats struct {
	Name     string
	Entries  uint64
	Hits     uint64
	Misses   uint64
	Bypassed uint64 // lookups at or above the cache limit
}

// HitRate returns hits/(hits+misses), or 0 before any cached lookup.
func (s TableStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheStats holds statistics for every table of a Cache.
type CacheStats struct {
	Pairs   TableStats
	Strings TableStats
	Rules   TableStats
}

// Tables returns the per-table statistics in a fixed order.
func (s CacheStats) Tables() []TableStats {
	return []TableStats{s.Pairs, s.Strings, s.Rules}
}

// Cache memoizes the encoder functions: one table each for Unpair,
// EncodeString and EncodeRule, keyed by input index. The alphabet is not
// part of the key, so a cache is valid for one alphabet only.
//
// Thread safety: a Cache has a single writer. Stats and the metric
// callbacks may be read from other goroutines.
type Cache struct {
	limit uint64
	pairs *memoTable[pair]
	strs  *memoTable[string]
	rules *memoTable[Rule]
}

// NewCache creates an empty cache storing indices below limit. A zero
// limit selects DefaultCacheLimit.
func NewCache(limit uint64) *Cache {
	if limit == 0 {
		limit = DefaultCacheLimit
	}
	return &Cache{
		limit: limit,
		pairs: newMemoTable[pair]("pair", limit),
		strs:  newMemoTable[string]("string", limit),
		rules: newMemoTable[Rule]("rule", limit),
	}
}

// Limit returns the exclusive upper bound on cached indices.
func (c *Cache) Limit() uint64 {
	return c.limit
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Pairs:   c.pairs.stats(),
		Strings: c.strs.stats(),
		Rules:   c.rules.stats(),
	}
}

// RegisterMetrics exposes the cache statistics as observable
// instruments on meter. Unregister the returned registration when the
// cache is discarded.
func (c *Cache) RegisterMetrics(meter metric.Meter) (metric.Registration, error) {
	hits, err := meter.Int64ObservableCounter(
		"markov_cache_hits_total",
		metric.WithDescription("Encoder memo lookups answered from the cache"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64ObservableCounter(
		"markov_cache_misses_total",
		metric.WithDescription("Encoder memo lookups that had to compute the value"),
	)
	if err != nil {
		return nil, err
	}
	bypassed, err := meter.Int64ObservableCounter(
		"markov_cache_bypassed_total",
		metric.WithDescription("Encoder lookups at or above the cache limit"),
	)
	if err != nil {
		return nil, err
	}
	entries, err := meter.Int64ObservableGauge(
		"markov_cache_entries",
		metric.WithDescription("Entries held per memo table"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, s := range c.Stats().Tables() {
			attrs := metric.WithAttributes(attribute.String("table", s.Name))
			o.ObserveInt64(hits, int64(s.Hits), attrs)
			o.ObserveInt64(misses, int64(s.Misses), attrs)
			o.ObserveInt64(bypassed, int64(s.Bypassed), attrs)
			o.ObserveInt64(entries, int64(s.Entries), attrs)
		}
		return nil
	}, hits, misses, bypassed, entries)
}
