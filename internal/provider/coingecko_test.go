package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(t *testing.T, v any) *http.Response {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}
}

func testProvider(transport roundTripFunc) *CoinGeckoProvider {
	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{Transport: transport}
	p.limiter = NewRateLimiter(10, time.Millisecond)
	return p
}

func TestFetchMarketData(t *testing.T) {
	t.Parallel()

	p := testProvider(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/markets") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("ids"); got != "bitcoin" {
			t.Fatalf("unexpected ids param: %s", got)
		}
		return jsonResponse(t, []map[string]any{{
			"id":                          "bitcoin",
			"symbol":                      "btc",
			"name":                        "Bitcoin",
			"current_price":               97000.0,
			"total_volume":                45000000000.0,
			"price_change_percentage_24h": 2.34,
			"market_cap":                  1900000000000.0,
		}}), nil
	})

	md, err := p.FetchMarketData(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.CoinID != "bitcoin" || md.CurrentPrice != 97000 {
		t.Fatalf("unexpected market data: %+v", md)
	}
	if md.MarketCap == nil || *md.MarketCap != 1900000000000 {
		t.Fatalf("unexpected market cap: %+v", md.MarketCap)
	}
}

func TestFetchMarketDataEmptyResponse(t *testing.T) {
	t.Parallel()

	p := testProvider(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(t, []map[string]any{}), nil
	})

	if _, err := p.FetchMarketData(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestFetchPriceHistoryOrdersPoints(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := testProvider(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/bitcoin/market_chart") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(t, map[string]any{
			"prices": [][]float64{
				{float64(base.Add(24 * time.Hour).UnixMilli()), 101},
				{float64(base.UnixMilli()), 100},
			},
		}), nil
	})

	points, err := p.FetchPriceHistory(context.Background(), "bitcoin", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points[0].Timestamp.Before(points[1].Timestamp) {
		t.Fatal("points not ordered oldest to newest")
	}
	if points[0].Price != 100 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
}

func TestFetchTopPerformanceSkipsRowsWithoutChange(t *testing.T) {
	t.Parallel()

	p := testProvider(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(t, []map[string]any{
			{"id": "bitcoin", "symbol": "btc", "market_cap_rank": 1, "price_change_percentage_30d_in_currency": 5.0},
			{"id": "ethereum", "symbol": "eth", "market_cap_rank": 2, "price_change_percentage_30d_in_currency": 12.0},
			{"id": "stale-coin", "symbol": "stl", "market_cap_rank": 3},
		}), nil
	})

	rows, err := p.FetchTopPerformance(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].CoinID != "ethereum" || rows[1].PriceChangePct != 12 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}

func TestDoRequestPropagatesAPIError(t *testing.T) {
	t.Parallel()

	p := testProvider(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("rate limited")),
			Header:     make(http.Header),
		}, nil
	})

	_, err := p.FetchMarketData(context.Background(), "bitcoin")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected 429 error, got %v", err)
	}
}
