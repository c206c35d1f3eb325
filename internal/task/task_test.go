package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
	"chainpulse/internal/provider"
)

var noopTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubMarketProvider struct {
	data    map[string]*domain.MarketData
	history map[string][]domain.PricePoint
	dataErr map[string]error
	histErr map[string]error
}

func (s *stubMarketProvider) FetchMarketData(ctx context.Context, coinID string) (*domain.MarketData, error) {
	if err := s.dataErr[coinID]; err != nil {
		return nil, err
	}
	md, ok := s.data[coinID]
	if !ok {
		return nil, errors.New("unknown coin")
	}
	return md, nil
}

func (s *stubMarketProvider) FetchPriceHistory(ctx context.Context, coinID string, days int) ([]domain.PricePoint, error) {
	if err := s.histErr[coinID]; err != nil {
		return nil, err
	}
	return s.history[coinID], nil
}

func marketData(id string, price float64) *domain.MarketData {
	return &domain.MarketData{CoinID: id, Name: id, Symbol: strings.ToUpper(id[:3]), CurrentPrice: price}
}

func risingHistory(n int) []domain.PricePoint {
	points := make([]domain.PricePoint, n)
	base := time.Now().UTC().Add(-time.Duration(n) * 24 * time.Hour)
	for i := range points {
		points[i] = domain.PricePoint{Timestamp: base.Add(time.Duration(i) * 24 * time.Hour), Price: 100 + float64(i)}
	}
	return points
}

func TestMarketDataCollectorHappyPath(t *testing.T) {
	t.Parallel()

	p := &stubMarketProvider{
		data:    map[string]*domain.MarketData{"bitcoin": marketData("bitcoin", 97000)},
		history: map[string][]domain.PricePoint{"bitcoin": risingHistory(31)},
	}
	col, err := NewMarketDataCollector(p, []string{"bitcoin"}, noopTracer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := cache.NewSnapshotCache()
	metrics, err := col.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(metrics))
	}
	if metrics[0].MetricName != "coin_market_data" || metrics[0].Source != domain.SourceCoinGecko {
		t.Fatalf("unexpected metric: %+v", metrics[0])
	}

	snap, ok := c.Get("bitcoin")
	if !ok {
		t.Fatal("snapshot not cached")
	}
	if snap.Indicators.Bollinger == nil || snap.Indicators.Oscillator == nil {
		t.Fatalf("expected indicators, got %+v", snap.Indicators)
	}
	if snap.Indicators.Oscillator.Signal != domain.SignalOverbought {
		t.Fatalf("strictly rising series should be overbought, got %s", snap.Indicators.Oscillator.Signal)
	}
}

func TestMarketDataCollectorPartialFailure(t *testing.T) {
	t.Parallel()

	p := &stubMarketProvider{
		data:    map[string]*domain.MarketData{"ethereum": marketData("ethereum", 3000)},
		history: map[string][]domain.PricePoint{"ethereum": risingHistory(31)},
		dataErr: map[string]error{"bitcoin": errors.New("upstream 500")},
	}
	col, _ := NewMarketDataCollector(p, []string{"bitcoin", "ethereum"}, noopTracer)

	c := cache.NewSnapshotCache()
	metrics, err := col.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("partial failure should not fail the run: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(metrics))
	}
	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("failed coin should not be cached")
	}
	if _, ok := c.Get("ethereum"); !ok {
		t.Fatal("healthy coin should be cached")
	}
}

func TestMarketDataCollectorAllFail(t *testing.T) {
	t.Parallel()

	p := &stubMarketProvider{
		dataErr: map[string]error{"bitcoin": errors.New("down")},
	}
	col, _ := NewMarketDataCollector(p, []string{"bitcoin"}, noopTracer)

	if _, err := col.Execute(context.Background(), cache.NewSnapshotCache()); err == nil {
		t.Fatal("expected error when every coin fails")
	}
}

func TestMarketDataCollectorShortHistorySkipsIndicators(t *testing.T) {
	t.Parallel()

	p := &stubMarketProvider{
		data:    map[string]*domain.MarketData{"bitcoin": marketData("bitcoin", 97000)},
		history: map[string][]domain.PricePoint{"bitcoin": risingHistory(5)},
	}
	col, _ := NewMarketDataCollector(p, []string{"bitcoin"}, noopTracer)

	c := cache.NewSnapshotCache()
	if _, err := col.Execute(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := c.Get("bitcoin")
	if snap.Indicators.Bollinger != nil || snap.Indicators.Oscillator != nil {
		t.Fatalf("short history should omit indicators: %+v", snap.Indicators)
	}
	if snap.CurrentPrice != 97000 {
		t.Fatal("market state should still be cached")
	}
}

func TestMarketDataCollectorHistoryFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	p := &stubMarketProvider{
		data:    map[string]*domain.MarketData{"bitcoin": marketData("bitcoin", 97000)},
		histErr: map[string]error{"bitcoin": errors.New("chart down")},
	}
	col, _ := NewMarketDataCollector(p, []string{"bitcoin"}, noopTracer)

	c := cache.NewSnapshotCache()
	metrics, err := col.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(metrics))
	}
	if _, ok := c.Get("bitcoin"); !ok {
		t.Fatal("snapshot should survive a history failure")
	}
}

func TestNewMarketDataCollectorValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewMarketDataCollector(nil, []string{"bitcoin"}, noopTracer); !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
	if _, err := NewMarketDataCollector(&stubMarketProvider{}, nil, noopTracer); !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

type stubSentimentProvider struct {
	point *provider.FearGreedPoint
	err   error
}

func (s *stubSentimentProvider) FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error) {
	return s.point, s.err
}

func TestFearGreedCollector(t *testing.T) {
	t.Parallel()

	p := &stubSentimentProvider{point: &provider.FearGreedPoint{
		Value:          85,
		Classification: "Extreme Greed",
		Timestamp:      time.Now().UTC(),
	}}
	col, err := NewFearGreedCollector(p, noopTracer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := cache.NewSnapshotCache()
	metrics, err := col.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 || metrics[0].MetricName != "fear_greed_index" {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	snap, ok := c.GetIndex(domain.IndexFearGreed)
	if !ok {
		t.Fatal("index not cached")
	}
	if snap.Value != 85 || snap.Classification != "Extreme Greed" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Advice == "" || snap.LocalizedClassification == "" {
		t.Fatalf("expected advice and localized label: %+v", snap)
	}
}

func TestFearGreedCollectorError(t *testing.T) {
	t.Parallel()

	col, _ := NewFearGreedCollector(&stubSentimentProvider{err: errors.New("down")}, noopTracer)
	c := cache.NewSnapshotCache()
	if _, err := col.Execute(context.Background(), c); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.GetIndex(domain.IndexFearGreed); ok {
		t.Fatal("failed run should not touch the cache")
	}
}

type stubPerformanceProvider struct {
	rows []provider.CoinPerformance
	err  error
}

func (s *stubPerformanceProvider) FetchTopPerformance(ctx context.Context, limit int) ([]provider.CoinPerformance, error) {
	return s.rows, s.err
}

func TestAltseasonCollector(t *testing.T) {
	t.Parallel()

	rows := []provider.CoinPerformance{
		{CoinID: "bitcoin", PriceChangePct: 10},
		{CoinID: "ethereum", PriceChangePct: 20},
		{CoinID: "solana", PriceChangePct: 30},
		{CoinID: "cardano", PriceChangePct: 5},
		{CoinID: "ripple", PriceChangePct: 15},
	}
	col, err := NewAltseasonCollector(&stubPerformanceProvider{rows: rows}, noopTracer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := cache.NewSnapshotCache()
	metrics, err := col.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 || metrics[0].MetricName != "altcoin_season_index" {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}

	snap, ok := c.GetIndex(domain.IndexAltcoinSeason)
	if !ok {
		t.Fatal("index not cached")
	}
	// 3 of 4 altcoins beat BTC.
	if snap.Value != 75 {
		t.Fatalf("expected 75, got %v", snap.Value)
	}
	if snap.Classification != "Altcoin Season" {
		t.Fatalf("unexpected classification: %s", snap.Classification)
	}
	if snap.OutperformingCount != 3 || snap.TotalCount != 4 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
}

func TestAltseasonCollectorMissingBitcoin(t *testing.T) {
	t.Parallel()

	col, _ := NewAltseasonCollector(&stubPerformanceProvider{rows: []provider.CoinPerformance{
		{CoinID: "ethereum", PriceChangePct: 20},
	}}, noopTracer)

	if _, err := col.Execute(context.Background(), cache.NewSnapshotCache()); err == nil {
		t.Fatal("expected error without a bitcoin row")
	}
}
