package adapters

import (
	"math"
	"sort"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// DefaultVolatilityWindow is the trailing bar count for the ATR-like
// measure when none is configured.
const DefaultVolatilityWindow = 14

// VolatilityDeriver computes an ATR-like volatility proxy from candle
// history. Unlike the other adapters it fetches nothing; there is no
// upstream and no fallback.
type VolatilityDeriver struct {
	window int
}

func NewVolatilityDeriver(window int) *VolatilityDeriver {
	if window <= 0 {
		window = DefaultVolatilityWindow
	}
	return &VolatilityDeriver{window: window}
}

// Derive returns one observation at the latest candle's timestamp: the
// rolling mean of the true range over the trailing window. An empty
// history yields no record.
func (d *VolatilityDeriver) Derive(pair models.Pair, candles []models.Candle) []models.VolatilityObservation {
	if len(candles) == 0 {
		return nil
	}

	sorted := make([]models.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	trs := trueRanges(sorted)
	window := d.window
	if window > len(trs) {
		window = len(trs)
	}
	sum := 0.0
	for _, tr := range trs[len(trs)-window:] {
		sum += tr
	}

	return []models.VolatilityObservation{{
		Pair: pair.String(),
		TS:   sorted[len(sorted)-1].TS,
		ATR:  sum / float64(window),
	}}
}

// trueRanges computes max(high-low, |high-prevClose|, |low-prevClose|)
// per bar; the first bar has no previous close so its range is high-low.
func trueRanges(candles []models.Candle) []float64 {
	trs := make([]float64, len(candles))
	trs[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}
	return trs
}
