package domain

import "time"

// OscillatorSignal is the discrete reading of the momentum oscillator.
type OscillatorSignal string

const (
	SignalNormal     OscillatorSignal = "normal"
	SignalOverbought OscillatorSignal = "overbought"
	SignalOversold   OscillatorSignal = "oversold"
)

// BollingerBands is a volatility envelope around a moving average.
type BollingerBands struct {
	Upper            float64 `json:"upper"`
	Middle           float64 `json:"middle"`
	Lower            float64 `json:"lower"`
	Period           int     `json:"period"`
	StdDevMultiplier float64 `json:"std_dev_multiplier"`
}

// Oscillator is an RSI-style bounded momentum reading.
type Oscillator struct {
	Value               float64          `json:"value"`
	Period              int              `json:"period"`
	OverboughtThreshold float64          `json:"overbought_threshold"`
	OversoldThreshold   float64          `json:"oversold_threshold"`
	Signal              OscillatorSignal `json:"signal"`
}

// Indicators holds the derived technicals for one coin. Recomputed from
// scratch each run, never merged with prior values.
type Indicators struct {
	Bollinger  *BollingerBands `json:"bollinger,omitempty"`
	Oscillator *Oscillator     `json:"oscillator,omitempty"`
}

// CoinSnapshot is the latest known state of one coin. Replaced wholesale on
// every successful fetch; readers never see a partially written value.
type CoinSnapshot struct {
	CoinID         string     `json:"coin_id"`
	Name           string     `json:"name"`
	Symbol         string     `json:"symbol"`
	CurrentPrice   float64    `json:"current_price"`
	Volume24h      *float64   `json:"volume_24h,omitempty"`
	PriceChange24h *float64   `json:"price_change_24h,omitempty"`
	MarketCap      *float64   `json:"market_cap,omitempty"`
	Indicators     Indicators `json:"indicators"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Source         string     `json:"source"`
}

// IndexSnapshot is the latest reading of a named market-wide index
// (fear & greed, altcoin season). Same overwrite-wholesale lifecycle as
// CoinSnapshot, keyed by index name.
type IndexSnapshot struct {
	Name                    string    `json:"name"`
	Value                   float64   `json:"value"`
	Classification          string    `json:"classification"`
	LocalizedClassification string    `json:"localized_classification,omitempty"`
	Advice                  string    `json:"advice,omitempty"`
	OutperformingCount      int       `json:"outperforming_count,omitempty"`
	TotalCount              int       `json:"total_count,omitempty"`
	Timestamp               time.Time `json:"timestamp"`
	UpdatedAt               time.Time `json:"updated_at"`
	Source                  string    `json:"source"`
}

// CacheStats is an advisory aggregate over the snapshot cache. Only the
// monotonicity of Hits/Misses matters; nothing correctness-critical reads it.
type CacheStats struct {
	TotalItems  int              `json:"total_items"`
	Hits        uint64           `json:"hits"`
	Misses      uint64           `json:"misses"`
	LastUpdated *time.Time       `json:"last_updated,omitempty"`
	Sources     map[string]int64 `json:"sources"`
}
