package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
	"chainpulse/internal/ta"
)

// historyDays is the daily price history window fetched per coin. Long
// enough for the default 20-period bands and 14-period oscillator.
const historyDays = 30

// MarketDataCollector refreshes coin snapshots with current market state and
// freshly computed indicators.
type MarketDataCollector struct {
	provider MarketProvider
	coinIDs  []string
	tracer   trace.Tracer
}

func NewMarketDataCollector(p MarketProvider, coinIDs []string, tracer trace.Tracer) (*MarketDataCollector, error) {
	if p == nil {
		return nil, fmt.Errorf("market provider: %w", ErrMissingDependency)
	}
	if len(coinIDs) == 0 {
		return nil, fmt.Errorf("coin list: %w", ErrMissingDependency)
	}
	return &MarketDataCollector{provider: p, coinIDs: coinIDs, tracer: tracer}, nil
}

func (t *MarketDataCollector) Name() string { return "market-data" }

func (t *MarketDataCollector) Description() string {
	return "Fetches current market data and computes technical indicators per coin"
}

func (t *MarketDataCollector) Interval() time.Duration { return time.Minute }

// Execute refreshes every configured coin. A coin that fails to fetch is
// skipped and reported; the run only fails when no coin succeeded.
func (t *MarketDataCollector) Execute(ctx context.Context, c *cache.SnapshotCache) ([]domain.Metric, error) {
	ctx, span := t.tracer.Start(ctx, "task.market-data")
	defer span.End()

	var metrics []domain.Metric
	var failures []string

	for _, coinID := range t.coinIDs {
		snap, err := t.collectCoin(ctx, coinID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", coinID, err))
			continue
		}
		c.Set(*snap)
		metrics = append(metrics, domain.NewMetric(domain.SourceCoinGecko, "coin_market_data", snap, map[string]string{
			"coin_id": coinID,
		}))
	}

	if len(metrics) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all coins failed: %s", strings.Join(failures, "; "))
	}
	if len(failures) > 0 {
		log.Printf("market-data: %d of %d coins failed: %s", len(failures), len(t.coinIDs), strings.Join(failures, "; "))
	}
	return metrics, nil
}

func (t *MarketDataCollector) collectCoin(ctx context.Context, coinID string) (*domain.CoinSnapshot, error) {
	md, err := t.provider.FetchMarketData(ctx, coinID)
	if err != nil {
		return nil, err
	}

	snap := &domain.CoinSnapshot{
		CoinID:         md.CoinID,
		Name:           md.Name,
		Symbol:         md.Symbol,
		CurrentPrice:   md.CurrentPrice,
		Volume24h:      md.Volume24h,
		PriceChange24h: md.PriceChange24h,
		MarketCap:      md.MarketCap,
		UpdatedAt:      time.Now().UTC(),
		Source:         domain.SourceCoinGecko,
	}

	history, err := t.provider.FetchPriceHistory(ctx, coinID, historyDays)
	if err != nil {
		// Market state is still worth caching without indicators.
		log.Printf("market-data: price history for %s: %v", coinID, err)
		return snap, nil
	}
	prices := make([]float64, len(history))
	for i, pt := range history {
		prices[i] = pt.Price
	}
	snap.Indicators = computeIndicators(prices)
	return snap, nil
}

// computeIndicators derives the technical readings from a price series.
// Series too short for a given indicator simply omit it.
func computeIndicators(prices []float64) domain.Indicators {
	var ind domain.Indicators

	bands, err := ta.ComputeBands(prices, ta.DefaultBandPeriod, ta.DefaultBandMultiplier)
	switch {
	case err == nil:
		ind.Bollinger = &domain.BollingerBands{
			Upper:            bands.Upper,
			Middle:           bands.Middle,
			Lower:            bands.Lower,
			Period:           ta.DefaultBandPeriod,
			StdDevMultiplier: ta.DefaultBandMultiplier,
		}
	case !errors.Is(err, ta.ErrInsufficientData):
		log.Printf("market-data: bands: %v", err)
	}

	value, err := ta.ComputeOscillator(prices, ta.DefaultOscillatorPeriod)
	switch {
	case err == nil:
		ind.Oscillator = &domain.Oscillator{
			Value:               value,
			Period:              ta.DefaultOscillatorPeriod,
			OverboughtThreshold: ta.DefaultOverbought,
			OversoldThreshold:   ta.DefaultOversold,
			Signal:              ta.ClassifyOscillator(value, ta.DefaultOverbought, ta.DefaultOversold),
		}
	case !errors.Is(err, ta.ErrInsufficientData):
		log.Printf("market-data: oscillator: %v", err)
	}

	return ind
}
