package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"chainpulse/internal/domain"
)

const (
	coinKeyPrefix  = "snapshot:"
	indexKeyPrefix = "index:"
)

// RedisClient is the subset of the go-redis client the mirror needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Mirror write-throughs cache entries to Redis so a restarted process can
// warm-start from the last known state. It is never read on the hot path and
// every failure is logged and swallowed.
type Mirror struct {
	client RedisClient
	ttl    time.Duration
}

func NewMirror(client RedisClient, ttl time.Duration) *Mirror {
	return &Mirror{client: client, ttl: ttl}
}

func (m *Mirror) StoreCoin(snap domain.CoinSnapshot) {
	m.store(coinKeyPrefix+snap.CoinID, snap)
}

func (m *Mirror) StoreIndex(snap domain.IndexSnapshot) {
	m.store(indexKeyPrefix+snap.Name, snap)
}

func (m *Mirror) store(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache mirror: marshal %s: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.client.Set(ctx, key, payload, m.ttl).Err(); err != nil {
		log.Printf("cache mirror: store %s: %v", key, err)
	}
}

// WarmStart loads whatever mirrored entries survive in Redis into the cache.
// Entries that fail to decode are skipped. Returns how many were loaded.
func (m *Mirror) WarmStart(ctx context.Context, c *SnapshotCache) int {
	loaded := 0
	loaded += m.scanInto(ctx, coinKeyPrefix+"*", func(payload []byte) bool {
		var snap domain.CoinSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil || snap.CoinID == "" {
			return false
		}
		c.mu.Lock()
		c.coins[snap.CoinID] = snap
		c.mu.Unlock()
		return true
	})
	loaded += m.scanInto(ctx, indexKeyPrefix+"*", func(payload []byte) bool {
		var snap domain.IndexSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil || snap.Name == "" {
			return false
		}
		c.mu.Lock()
		c.indexes[snap.Name] = snap
		c.mu.Unlock()
		return true
	})
	return loaded
}

func (m *Mirror) scanInto(ctx context.Context, pattern string, apply func([]byte) bool) int {
	loaded := 0
	var cursor uint64
	for {
		keys, next, err := m.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("cache mirror: scan %s: %v", pattern, err)
			return loaded
		}
		for _, key := range keys {
			payload, err := m.client.Get(ctx, key).Bytes()
			if err != nil {
				if !strings.Contains(err.Error(), "nil") {
					log.Printf("cache mirror: load %s: %v", key, err)
				}
				continue
			}
			if apply(payload) {
				loaded++
			}
		}
		cursor = next
		if cursor == 0 {
			return loaded
		}
	}
}
