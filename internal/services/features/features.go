// Package features holds the pure feature math the signal engine
// evaluates profiles against.
package features

import (
	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// Percentile returns the fraction of values strictly below value, scaled
// to 0-100. The second return is false when the series is empty.
func Percentile(values []float64, value float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	below := 0
	for _, v := range values {
		if v < value {
			below++
		}
	}
	return float64(below) / float64(len(values)) * 100, true
}

// MomentumSlope returns the mean percent-change of close price over the
// trailing bars. Fewer than bars+1 candles (or a zero previous close)
// yields 0: missing momentum is no signal, not an error.
func MomentumSlope(candles []models.Candle, bars int) float64 {
	if bars <= 0 || len(candles) < bars+1 {
		return 0
	}
	sum := 0.0
	start := len(candles) - bars
	for i := start; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev == 0 {
			return 0
		}
		sum += (candles[i].Close - prev) / prev
	}
	return sum / float64(bars)
}

// stressKeywords are the chatter terms that feed the spike ratio.
var stressKeywords = []string{"liquidation", "margin call"}

// LiquidationSpike splits the sentiment window in half by count (later
// half is the most recent), sums liquidation and margin-call keyword
// counts in each half, and returns recentSum / max(1, earlierSum). The
// denominator floor guards divide-by-zero. The second return is false
// when the window is empty.
func LiquidationSpike(window []models.SentimentObservation) (float64, bool) {
	n := len(window)
	if n == 0 {
		return 0, false
	}

	recent := window[n-maxInt(1, n/2):]
	earlier := window[:n-len(recent)]
	if n == 1 {
		earlier = window
	}

	base := stressSum(earlier)
	if base < 1 {
		base = 1
	}
	return float64(stressSum(recent)) / float64(base), true
}

func stressSum(rows []models.SentimentObservation) int {
	sum := 0
	for _, r := range rows {
		for _, k := range stressKeywords {
			sum += r.Keywords[k]
		}
	}
	return sum
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
