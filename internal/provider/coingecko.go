package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/domain"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches market data and price history from the CoinGecko
// free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a new provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchMarketData fetches the current market state of one coin.
func (p *CoinGeckoProvider) FetchMarketData(ctx context.Context, coinID string) (*domain.MarketData, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-market-data")
	defer span.End()

	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", p.baseURL, coinID)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch market data for %s: %w", coinID, err)
	}

	var rows []coinMarketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse market data for %s: %w", coinID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no market data for %s", coinID)
	}
	return rows[0].toMarketData(), nil
}

// FetchPriceHistory fetches a daily price series for one coin, ordered
// oldest to newest.
func (p *CoinGeckoProvider) FetchPriceHistory(ctx context.Context, coinID string, days int) ([]domain.PricePoint, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-price-history")
	defer span.End()

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		p.baseURL, coinID, days)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", coinID, err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse price history for %s: %w", coinID, err)
	}

	points := make([]domain.PricePoint, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 {
			continue
		}
		points = append(points, domain.PricePoint{
			Timestamp: time.UnixMilli(int64(pt[0])).UTC(),
			Price:     pt[1],
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	return points, nil
}

// CoinPerformance is one top-list row used by the altcoin season index.
type CoinPerformance struct {
	CoinID         string
	Symbol         string
	MarketCapRank  int
	PriceChangePct float64
}

// FetchTopPerformance fetches the top coins by market cap together with
// their trailing 30d price change. limit counts coins including BTC.
func (p *CoinGeckoProvider) FetchTopPerformance(ctx context.Context, limit int) ([]CoinPerformance, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-top-performance")
	defer span.End()

	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&price_change_percentage=30d",
		p.baseURL, limit)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch top performance: %w", err)
	}

	var rows []struct {
		ID               string   `json:"id"`
		Symbol           string   `json:"symbol"`
		MarketCapRank    int      `json:"market_cap_rank"`
		PriceChange30dIn *float64 `json:"price_change_percentage_30d_in_currency"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse top performance: %w", err)
	}

	out := make([]CoinPerformance, 0, len(rows))
	for _, row := range rows {
		if row.PriceChange30dIn == nil {
			continue
		}
		out = append(out, CoinPerformance{
			CoinID:         row.ID,
			Symbol:         row.Symbol,
			MarketCapRank:  row.MarketCapRank,
			PriceChangePct: *row.PriceChange30dIn,
		})
	}
	return out, nil
}

type coinMarketRow struct {
	ID             string   `json:"id"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	CurrentPrice   float64  `json:"current_price"`
	TotalVolume    *float64 `json:"total_volume"`
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
	MarketCap      *float64 `json:"market_cap"`
}

func (r coinMarketRow) toMarketData() *domain.MarketData {
	return &domain.MarketData{
		CoinID:         r.ID,
		Name:           r.Name,
		Symbol:         r.Symbol,
		CurrentPrice:   r.CurrentPrice,
		Volume24h:      r.TotalVolume,
		PriceChange24h: r.PriceChange24h,
		MarketCap:      r.MarketCap,
	}
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
