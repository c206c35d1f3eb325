package ta

import "chainpulse/internal/domain"

// ClassifyOscillator maps an oscillator value onto a discrete signal.
func ClassifyOscillator(value, overbought, oversold float64) domain.OscillatorSignal {
	switch {
	case value >= overbought:
		return domain.SignalOverbought
	case value <= oversold:
		return domain.SignalOversold
	default:
		return domain.SignalNormal
	}
}

// FearGreedBucket is one row of the fear & greed classification table.
type FearGreedBucket struct {
	Classification string
	Localized      string
	Advice         string
}

var fearGreedBuckets = []struct {
	max    int
	bucket FearGreedBucket
}{
	{24, FearGreedBucket{"Extreme Fear", "极度恐惧", "市场极度恐惧，可能是买入机会"}},
	{44, FearGreedBucket{"Fear", "恐惧", "市场恐惧，谨慎观察"}},
	{55, FearGreedBucket{"Neutral", "中性", "市场中性，保持观望"}},
	{75, FearGreedBucket{"Greed", "贪婪", "市场贪婪，注意风险"}},
	{100, FearGreedBucket{"Extreme Greed", "极度贪婪", "市场极度贪婪，考虑获利了结"}},
}

// ClassifyFearGreed buckets a 0-100 index value. Out-of-range values are
// clamped into the nearest bucket.
func ClassifyFearGreed(value int) FearGreedBucket {
	for _, row := range fearGreedBuckets {
		if value <= row.max {
			return row.bucket
		}
	}
	return fearGreedBuckets[len(fearGreedBuckets)-1].bucket
}

// Altcoin season thresholds: the index is the percentage of the top-50
// non-BTC coins outperforming BTC over the trailing window.
const (
	AltcoinSeasonThreshold = 75.0
	BitcoinSeasonThreshold = 25.0
)

// SeasonBucket is the labelled reading of the altcoin season index.
type SeasonBucket struct {
	Classification string
	Localized      string
	Advice         string
}

// ClassifyAltcoinSeason labels an altcoin season index value.
func ClassifyAltcoinSeason(value float64) SeasonBucket {
	switch {
	case value >= AltcoinSeasonThreshold:
		return SeasonBucket{"Altcoin Season", "山寨币季节", "山寨币普遍跑赢比特币，注意板块轮动风险"}
	case value <= BitcoinSeasonThreshold:
		return SeasonBucket{"Bitcoin Season", "比特币季节", "资金集中于比特币，山寨币相对弱势"}
	default:
		return SeasonBucket{"Transitional", "过渡期", "市场处于过渡阶段，无明显季节信号"}
	}
}
