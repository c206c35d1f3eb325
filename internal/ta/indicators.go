package ta

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when a price series is shorter than the
// window an indicator needs. Callers treat it as a per-coin skip, not a run
// failure.
var ErrInsufficientData = errors.New("insufficient data")

// Default indicator parameters.
const (
	DefaultBandPeriod       = 20
	DefaultBandMultiplier   = 2.0
	DefaultOscillatorPeriod = 14
	DefaultOverbought       = 70.0
	DefaultOversold         = 30.0
)

// Bands holds one volatility-envelope reading.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// MeanStd returns the arithmetic mean and population standard deviation.
func MeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// ComputeBands computes a Bollinger-style envelope over the most recent
// period prices: middle is the window mean, upper/lower are middle ± k·std.
// Prices are ordered oldest to newest.
func ComputeBands(prices []float64, period int, k float64) (Bands, error) {
	if period <= 0 {
		return Bands{}, fmt.Errorf("invalid bands period %d", period)
	}
	if len(prices) < period {
		return Bands{}, fmt.Errorf("bands need %d prices, have %d: %w", period, len(prices), ErrInsufficientData)
	}
	window := prices[len(prices)-period:]
	mean, std := MeanStd(window)
	return Bands{
		Upper:  mean + k*std,
		Middle: mean,
		Lower:  mean - k*std,
	}, nil
}

// ComputeOscillator computes an RSI-style momentum value in [0,100] from the
// most recent period deltas: simple average of gains against simple average
// of loss magnitudes. A window with zero average loss reads 100.
func ComputeOscillator(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("invalid oscillator period %d", period)
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("oscillator needs %d prices, have %d: %w", period+1, len(prices), ErrInsufficientData)
	}
	window := prices[len(prices)-period-1:]

	var gains, losses float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}
