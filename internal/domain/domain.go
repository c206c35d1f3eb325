package domain

import "time"

// CoinGeckoID maps internal symbols to CoinGecko API identifiers.
var CoinGeckoID = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
	"DOT":  "polkadot",
	"AVAX": "avalanche-2",
	"LINK": "chainlink",
	"HYPE": "hyperliquid",
}

// CoinGeckoIDToSymbol is the reverse mapping.
var CoinGeckoIDToSymbol map[string]string

func init() {
	CoinGeckoIDToSymbol = make(map[string]string, len(CoinGeckoID))
	for sym, id := range CoinGeckoID {
		CoinGeckoIDToSymbol[id] = sym
	}
}

// SupportedSymbols lists all tracked crypto symbols.
var SupportedSymbols = []string{
	"BTC", "ETH", "SOL", "XRP", "ADA",
	"DOGE", "DOT", "AVAX", "LINK", "HYPE",
}

// Well-known named index keys used by collectors and the query surface.
const (
	IndexFearGreed     = "fear-greed"
	IndexAltcoinSeason = "altcoin-season"
)

// PricePoint is a single point of a historical price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// MarketData is the provider-normalized current market state of one coin.
// Each provider converts its own response shape into this before anything
// downstream sees it.
type MarketData struct {
	CoinID         string   `json:"coin_id"`
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	CurrentPrice   float64  `json:"current_price"`
	Volume24h      *float64 `json:"volume_24h,omitempty"`
	PriceChange24h *float64 `json:"price_change_24h,omitempty"`
	MarketCap      *float64 `json:"market_cap,omitempty"`
}

// CollectorStatus describes where a collector is in its run lifecycle.
type CollectorStatus string

const (
	StatusIdle      CollectorStatus = "idle"
	StatusRunning   CollectorStatus = "running"
	StatusCompleted CollectorStatus = "completed"
	StatusFailed    CollectorStatus = "failed"
)

// RunResult records the outcome of one collector invocation.
// Append-only; used for observability, never for correctness.
type RunResult struct {
	CollectorName string        `json:"collector_name"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	MetricsCount  int           `json:"metrics_count"`
	Duration      time.Duration `json:"duration"`
	ExecutedAt    time.Time     `json:"executed_at"`
	SinkError     string        `json:"sink_error,omitempty"`
}
