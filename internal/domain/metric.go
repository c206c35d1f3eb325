package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Data source labels stamped onto metrics and snapshots.
const (
	SourceCoinGecko     = "coingecko"
	SourceAlternativeMe = "alternative.me"
)

// Metric is the unified record every collector produces. Immutable once
// built; the id exists for upsert-keyed persistence, the cache ignores it.
type Metric struct {
	ID         uuid.UUID       `json:"id"`
	Source     string          `json:"source"`
	MetricName string          `json:"metric_name"`
	Value      json.RawMessage `json:"value"`
	Timestamp  time.Time       `json:"timestamp"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// NewMetric builds a metric with a fresh id. value and metadata are
// marshalled here so collectors hand over plain Go values; a marshal
// failure degrades to JSON null rather than failing the run.
func NewMetric(source, name string, value any, metadata any) Metric {
	now := time.Now().UTC()
	m := Metric{
		ID:         uuid.New(),
		Source:     source,
		MetricName: name,
		Value:      marshalOrNull(value),
		Timestamp:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if metadata != nil {
		m.Metadata = marshalOrNull(metadata)
	}
	return m
}

func marshalOrNull(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}
