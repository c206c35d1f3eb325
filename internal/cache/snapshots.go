package cache

import (
	"sync"
	"time"

	"chainpulse/internal/domain"
)

// SnapshotCache is the authoritative in-memory store for the latest coin
// snapshots and named index readings. All reads on the query path come from
// here; the optional Redis mirror is write-through only.
type SnapshotCache struct {
	mu      sync.RWMutex
	coins   map[string]domain.CoinSnapshot
	indexes map[string]domain.IndexSnapshot
	hits    uint64
	misses  uint64

	mirror *Mirror
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		coins:   make(map[string]domain.CoinSnapshot),
		indexes: make(map[string]domain.IndexSnapshot),
	}
}

// WithMirror attaches a Redis write-through mirror. Safe to call with nil.
func (c *SnapshotCache) WithMirror(m *Mirror) *SnapshotCache {
	c.mirror = m
	return c
}

// Set stores a coin snapshot, replacing any previous value wholesale.
func (c *SnapshotCache) Set(snap domain.CoinSnapshot) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	c.mu.Lock()
	c.coins[snap.CoinID] = snap
	c.mu.Unlock()

	if c.mirror != nil {
		c.mirror.StoreCoin(snap)
	}
}

// Get returns the snapshot for one coin. Counts a hit or miss.
func (c *SnapshotCache) Get(coinID string) (domain.CoinSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.coins[coinID]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return snap, ok
}

// GetAll returns a copy of every coin snapshot.
func (c *SnapshotCache) GetAll() []domain.CoinSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CoinSnapshot, 0, len(c.coins))
	for _, snap := range c.coins {
		out = append(out, snap)
	}
	return out
}

// Coins returns the ids currently cached.
func (c *SnapshotCache) Coins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.coins))
	for id := range c.coins {
		out = append(out, id)
	}
	return out
}

// SetIndex stores a named index reading.
func (c *SnapshotCache) SetIndex(snap domain.IndexSnapshot) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	c.mu.Lock()
	c.indexes[snap.Name] = snap
	c.mu.Unlock()

	if c.mirror != nil {
		c.mirror.StoreIndex(snap)
	}
}

// GetIndex returns a named index reading. Counts a hit or miss.
func (c *SnapshotCache) GetIndex(name string) (domain.IndexSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.indexes[name]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return snap, ok
}

// CleanupExpired drops coin snapshots and index readings not updated within
// maxAge and returns how many entries were removed.
func (c *SnapshotCache) CleanupExpired(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, snap := range c.coins {
		if snap.UpdatedAt.Before(cutoff) {
			delete(c.coins, id)
			removed++
		}
	}
	for name, snap := range c.indexes {
		if snap.UpdatedAt.Before(cutoff) {
			delete(c.indexes, name)
			removed++
		}
	}
	return removed
}

// Stats reports an advisory aggregate over the cache contents.
func (c *SnapshotCache) Stats() domain.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := domain.CacheStats{
		TotalItems: len(c.coins) + len(c.indexes),
		Hits:       c.hits,
		Misses:     c.misses,
		Sources:    make(map[string]int64),
	}
	var last time.Time
	for _, snap := range c.coins {
		stats.Sources[snap.Source]++
		if snap.UpdatedAt.After(last) {
			last = snap.UpdatedAt
		}
	}
	for _, snap := range c.indexes {
		stats.Sources[snap.Source]++
		if snap.UpdatedAt.After(last) {
			last = snap.UpdatedAt
		}
	}
	if !last.IsZero() {
		stats.LastUpdated = &last
	}
	return stats
}

// Clear drops every entry and resets the hit/miss counters.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coins = make(map[string]domain.CoinSnapshot)
	c.indexes = make(map[string]domain.IndexSnapshot)
	c.hits = 0
	c.misses = 0
}
