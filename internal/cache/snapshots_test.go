package cache

import (
	"sync"
	"testing"
	"time"

	"chainpulse/internal/domain"
)

func coinSnap(id string, price float64) domain.CoinSnapshot {
	return domain.CoinSnapshot{
		CoinID:       id,
		Symbol:       "X",
		CurrentPrice: price,
		UpdatedAt:    time.Now().UTC(),
		Source:       domain.SourceCoinGecko,
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	c.Set(coinSnap("bitcoin", 50000))

	got, ok := c.Get("bitcoin")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.CurrentPrice != 50000 {
		t.Fatalf("expected 50000, got %v", got.CurrentPrice)
	}
	if _, ok := c.Get("ethereum"); ok {
		t.Fatal("expected miss")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
	if stats.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", stats.TotalItems)
	}
	if stats.Sources[domain.SourceCoinGecko] != 1 {
		t.Fatalf("unexpected sources: %+v", stats.Sources)
	}
}

func TestSnapshotCacheOverwrite(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	first := coinSnap("bitcoin", 50000)
	v := 123.0
	first.Volume24h = &v
	c.Set(first)
	c.Set(coinSnap("bitcoin", 51000))

	got, _ := c.Get("bitcoin")
	if got.CurrentPrice != 51000 {
		t.Fatalf("expected replacement, got %v", got.CurrentPrice)
	}
	if got.Volume24h != nil {
		t.Fatal("stale field survived overwrite")
	}
	if len(c.Coins()) != 1 {
		t.Fatalf("expected 1 coin, got %v", c.Coins())
	}
}

func TestSnapshotCacheIndexes(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	c.SetIndex(domain.IndexSnapshot{
		Name:           domain.IndexFearGreed,
		Value:          30,
		Classification: "Fear",
		UpdatedAt:      time.Now().UTC(),
		Source:         domain.SourceAlternativeMe,
	})

	snap, ok := c.GetIndex(domain.IndexFearGreed)
	if !ok || snap.Classification != "Fear" {
		t.Fatalf("unexpected index snapshot: %+v ok=%v", snap, ok)
	}
	if _, ok := c.GetIndex(domain.IndexAltcoinSeason); ok {
		t.Fatal("expected miss for absent index")
	}
}

func TestCleanupExpired(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	stale := coinSnap("bitcoin", 50000)
	stale.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	c.Set(stale)
	c.Set(coinSnap("ethereum", 3000))
	c.SetIndex(domain.IndexSnapshot{Name: domain.IndexFearGreed, UpdatedAt: time.Now().UTC().Add(-2 * time.Hour)})

	removed := c.CleanupExpired(30 * time.Minute)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("stale snapshot survived cleanup")
	}
	if _, ok := c.Get("ethereum"); !ok {
		t.Fatal("fresh snapshot removed")
	}

	if removed := c.CleanupExpired(24 * time.Hour); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
}

func TestClearResetsStats(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	c.Set(coinSnap("bitcoin", 50000))
	c.Get("bitcoin")
	c.Get("missing")
	c.Clear()

	stats := c.Stats()
	if stats.TotalItems != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.LastUpdated != nil {
		t.Fatal("expected nil LastUpdated after clear")
	}
}

func TestSnapshotCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(coinSnap("bitcoin", float64(n*1000+j)))
				c.Get("bitcoin")
				c.GetAll()
				c.Stats()
			}
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("bitcoin"); !ok {
		t.Fatal("snapshot lost under concurrent writes")
	}
}
