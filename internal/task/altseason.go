package task

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
	"chainpulse/internal/ta"
)

// altseasonTopN is how many top coins by market cap feed the index,
// bitcoin included.
const altseasonTopN = 51

// AltseasonCollector computes the altcoin season index: the share of top
// coins outperforming BTC over the trailing window.
type AltseasonCollector struct {
	provider PerformanceProvider
	tracer   trace.Tracer
}

func NewAltseasonCollector(p PerformanceProvider, tracer trace.Tracer) (*AltseasonCollector, error) {
	if p == nil {
		return nil, fmt.Errorf("performance provider: %w", ErrMissingDependency)
	}
	return &AltseasonCollector{provider: p, tracer: tracer}, nil
}

func (t *AltseasonCollector) Name() string { return "altcoin-season" }

func (t *AltseasonCollector) Description() string {
	return "Computes the share of top coins outperforming BTC"
}

func (t *AltseasonCollector) Interval() time.Duration { return time.Hour }

func (t *AltseasonCollector) Execute(ctx context.Context, c *cache.SnapshotCache) ([]domain.Metric, error) {
	ctx, span := t.tracer.Start(ctx, "task.altcoin-season")
	defer span.End()

	rows, err := t.provider.FetchTopPerformance(ctx, altseasonTopN)
	if err != nil {
		return nil, fmt.Errorf("fetch top performance: %w", err)
	}

	var btcChange float64
	btcFound := false
	for _, row := range rows {
		if row.CoinID == "bitcoin" {
			btcChange = row.PriceChangePct
			btcFound = true
			break
		}
	}
	if !btcFound {
		return nil, fmt.Errorf("top performance list has no bitcoin row")
	}

	outperforming, total := 0, 0
	for _, row := range rows {
		if row.CoinID == "bitcoin" {
			continue
		}
		total++
		if row.PriceChangePct > btcChange {
			outperforming++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("top performance list has no altcoins")
	}

	value := float64(outperforming) / float64(total) * 100
	bucket := ta.ClassifyAltcoinSeason(value)
	now := time.Now().UTC()
	snap := domain.IndexSnapshot{
		Name:                    domain.IndexAltcoinSeason,
		Value:                   value,
		Classification:          bucket.Classification,
		LocalizedClassification: bucket.Localized,
		Advice:                  bucket.Advice,
		OutperformingCount:      outperforming,
		TotalCount:              total,
		Timestamp:               now,
		UpdatedAt:               now,
		Source:                  domain.SourceCoinGecko,
	}
	c.SetIndex(snap)

	metric := domain.NewMetric(domain.SourceCoinGecko, "altcoin_season_index", value, map[string]any{
		"classification": snap.Classification,
		"outperforming":  outperforming,
		"total":          total,
	})
	return []domain.Metric{metric}, nil
}
