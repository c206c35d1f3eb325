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

// FearGreedCollector refreshes the market-wide fear & greed index reading.
type FearGreedCollector struct {
	provider SentimentProvider
	tracer   trace.Tracer
}

func NewFearGreedCollector(p SentimentProvider, tracer trace.Tracer) (*FearGreedCollector, error) {
	if p == nil {
		return nil, fmt.Errorf("sentiment provider: %w", ErrMissingDependency)
	}
	return &FearGreedCollector{provider: p, tracer: tracer}, nil
}

func (t *FearGreedCollector) Name() string { return "fear-greed" }

func (t *FearGreedCollector) Description() string {
	return "Fetches the alternative.me fear & greed index"
}

// The upstream index updates daily; polling hourly is already generous.
func (t *FearGreedCollector) Interval() time.Duration { return time.Hour }

func (t *FearGreedCollector) Execute(ctx context.Context, c *cache.SnapshotCache) ([]domain.Metric, error) {
	ctx, span := t.tracer.Start(ctx, "task.fear-greed")
	defer span.End()

	point, err := t.provider.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch fear & greed: %w", err)
	}

	bucket := ta.ClassifyFearGreed(point.Value)
	classification := point.Classification
	if classification == "" {
		classification = bucket.Classification
	}

	snap := domain.IndexSnapshot{
		Name:                    domain.IndexFearGreed,
		Value:                   float64(point.Value),
		Classification:          classification,
		LocalizedClassification: bucket.Localized,
		Advice:                  bucket.Advice,
		Timestamp:               point.Timestamp,
		UpdatedAt:               time.Now().UTC(),
		Source:                  domain.SourceAlternativeMe,
	}
	c.SetIndex(snap)

	metric := domain.NewMetric(domain.SourceAlternativeMe, "fear_greed_index", point.Value, map[string]string{
		"classification": classification,
	})
	return []domain.Metric{metric}, nil
}
