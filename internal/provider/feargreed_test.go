package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestFearGreedFetchLatest(t *testing.T) {
	t.Parallel()

	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/fng/" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(t, map[string]any{
				"data": []map[string]string{{
					"value":                "85",
					"value_classification": "Extreme Greed",
					"timestamp":            "1750000000",
				}},
			}), nil
		}),
	}

	point, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Value != 85 || point.Classification != "Extreme Greed" {
		t.Fatalf("unexpected point: %+v", point)
	}
	if !point.Timestamp.Equal(time.Unix(1750000000, 0).UTC()) {
		t.Fatalf("unexpected timestamp: %v", point.Timestamp)
	}
}

func TestFearGreedFetchLatestMillisecondTimestamp(t *testing.T) {
	t.Parallel()

	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, map[string]any{
				"data": []map[string]string{{
					"value":                "12",
					"value_classification": "Extreme Fear",
					"timestamp":            "1750000000000",
				}},
			}), nil
		}),
	}

	point, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !point.Timestamp.Equal(time.Unix(1750000000, 0).UTC()) {
		t.Fatalf("millisecond timestamp not normalized: %v", point.Timestamp)
	}
}

func TestFearGreedFetchLatestEmpty(t *testing.T) {
	t.Parallel()

	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, map[string]any{"data": []any{}}), nil
		}),
	}

	if _, err := p.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error for empty data")
	}
}
