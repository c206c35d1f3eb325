package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/domain"
)

const createMetricsTable = `
CREATE TABLE IF NOT EXISTS aggregated_metrics (
    id          UUID        PRIMARY KEY,
    source      TEXT        NOT NULL,
    metric_name TEXT        NOT NULL,
    value       JSONB       NOT NULL,
    timestamp   TIMESTAMPTZ NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL,
    metadata    JSONB
);

CREATE INDEX IF NOT EXISTS idx_metrics_source_name_time
    ON aggregated_metrics (source, metric_name, timestamp DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// MetricRepository persists collector output. The pipeline treats it as a
// best-effort sink: callers log failures and move on.
type MetricRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewMetricRepository(pool PgxPool, tracer trace.Tracer) *MetricRepository {
	return &MetricRepository{pool: pool, tracer: tracer}
}

func (r *MetricRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "metric-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createMetricsTable)
	return err
}

// StoreMetrics upserts a batch keyed by metric id.
func (r *MetricRepository) StoreMetrics(ctx context.Context, metrics []domain.Metric) error {
	if len(metrics) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "metric-repo.store-metrics")
	defer span.End()

	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(
			`INSERT INTO aggregated_metrics (id, source, metric_name, value, timestamp, created_at, updated_at, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO UPDATE SET
			     value = EXCLUDED.value,
			     timestamp = EXCLUDED.timestamp,
			     updated_at = EXCLUDED.updated_at,
			     metadata = EXCLUDED.metadata`,
			m.ID, m.Source, m.MetricName, m.Value, m.Timestamp, m.CreatedAt, m.UpdatedAt, m.Metadata,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range metrics {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetMetrics returns recent metrics, newest first. Empty source or name
// matches everything.
func (r *MetricRepository) GetMetrics(ctx context.Context, source, metricName string, limit int) ([]domain.Metric, error) {
	_, span := r.tracer.Start(ctx, "metric-repo.get-metrics")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, source, metric_name, value, timestamp, created_at, updated_at, metadata
		 FROM aggregated_metrics
		 WHERE ($1 = '' OR source = $1) AND ($2 = '' OR metric_name = $2)
		 ORDER BY timestamp DESC
		 LIMIT $3`,
		source, metricName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []domain.Metric
	for rows.Next() {
		var m domain.Metric
		if err := rows.Scan(&m.ID, &m.Source, &m.MetricName, &m.Value, &m.Timestamp, &m.CreatedAt, &m.UpdatedAt, &m.Metadata); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// DeleteOlderThan trims the table and returns how many rows were removed.
func (r *MetricRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "metric-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM aggregated_metrics WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
