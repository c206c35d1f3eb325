// Package task defines the data collectors the scheduler drives. Each
// collector pulls from an upstream provider, refreshes the snapshot cache,
// and returns the metrics it produced for the persistence sink.
package task

import (
	"context"
	"errors"
	"time"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
	"chainpulse/internal/provider"
)

// ErrMissingDependency is returned by collector constructors when a required
// provider or coin list is absent.
var ErrMissingDependency = errors.New("missing dependency")

// Collector is one schedulable unit of data collection. Execute must be safe
// to call repeatedly and must leave the cache consistent even when it fails.
type Collector interface {
	Name() string
	Description() string

	// Interval is the collector's preferred cadence. The scheduler runs all
	// collectors on a shared tick and treats this as advisory.
	Interval() time.Duration

	Execute(ctx context.Context, c *cache.SnapshotCache) ([]domain.Metric, error)
}

// MarketProvider supplies per-coin market state and price history.
type MarketProvider interface {
	FetchMarketData(ctx context.Context, coinID string) (*domain.MarketData, error)
	FetchPriceHistory(ctx context.Context, coinID string, days int) ([]domain.PricePoint, error)
}

// PerformanceProvider supplies the top-coin performance list for the altcoin
// season index.
type PerformanceProvider interface {
	FetchTopPerformance(ctx context.Context, limit int) ([]provider.CoinPerformance, error)
}

// SentimentProvider supplies the latest fear & greed reading.
type SentimentProvider interface {
	FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error)
}
