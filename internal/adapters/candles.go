package adapters

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

const (
	binanceSpotURL = "https://api.binance.com"
	bybitURL       = "https://api.bybit.com"
)

// CandleAdapter fetches hourly OHLCV bars from the pair's venue and
// falls back to a synthetic random walk when the venue is unreachable
// or unsupported.
type CandleAdapter struct {
	deps       Deps
	limit      int
	binanceURL string
	bybitURL   string
}

func NewCandleAdapter(deps Deps, limit int) *CandleAdapter {
	if limit <= 0 {
		limit = 200
	}
	return &CandleAdapter{
		deps:       deps,
		limit:      limit,
		binanceURL: binanceSpotURL,
		bybitURL:   bybitURL,
	}
}

func (a *CandleAdapter) Fetch(ctx context.Context, pair models.Pair) []models.Candle {
	var primary func(context.Context) ([]models.Candle, error)
	switch pair.Venue {
	case "binance":
		primary = func(ctx context.Context) ([]models.Candle, error) { return a.fetchBinance(ctx, pair) }
	case "bybit":
		primary = func(ctx context.Context) ([]models.Candle, error) { return a.fetchBybit(ctx, pair) }
	}
	return resolve(ctx, a.deps, "candles", pair.String(), primary, func() []models.Candle {
		return syntheticCandles(pair, a.limit, time.Now().UTC())
	})
}

// fetchBinance reads spot klines: each entry is a mixed-type array of
// [openTimeMs, open, high, low, close, volume, ...].
func (a *CandleAdapter) fetchBinance(ctx context.Context, pair models.Pair) ([]models.Candle, error) {
	var raw [][]interface{}
	err := a.deps.HTTP.GetJSON(ctx, a.binanceURL+"/api/v3/klines", map[string]string{
		"symbol":   pair.Symbol(),
		"interval": "1h",
		"limit":    strconv.Itoa(a.limit),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}

	rows := make([]models.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			return nil, fmt.Errorf("binance klines: short entry (%d fields)", len(k))
		}
		ms, err := asFloat(k[0])
		if err != nil {
			return nil, fmt.Errorf("binance klines: %w", err)
		}
		c := models.Candle{
			Pair: pair.String(),
			TS:   time.UnixMilli(int64(ms)).UTC().Truncate(time.Hour),
		}
		for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			v, err := asFloat(k[i+1])
			if err != nil {
				return nil, fmt.Errorf("binance klines: %w", err)
			}
			*dst = v
		}
		rows = append(rows, c)
	}
	return rows, nil
}

type bybitKlineResponse struct {
	Result struct {
		List [][]string `json:"list"`
	} `json:"result"`
}

// fetchBybit reads v5 klines; entries are [startMs, open, high, low,
// close, volume, turnover] strings, newest first.
func (a *CandleAdapter) fetchBybit(ctx context.Context, pair models.Pair) ([]models.Candle, error) {
	var raw bybitKlineResponse
	err := a.deps.HTTP.GetJSON(ctx, a.bybitURL+"/v5/market/kline", map[string]string{
		"category": "spot",
		"symbol":   pair.Symbol(),
		"interval": "60",
		"limit":    strconv.Itoa(a.limit),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("bybit kline: %w", err)
	}

	list := raw.Result.List
	rows := make([]models.Candle, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		k := list[i]
		if len(k) < 6 {
			return nil, fmt.Errorf("bybit kline: short entry (%d fields)", len(k))
		}
		ms, err := strconv.ParseInt(k[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bybit kline start: %w", err)
		}
		c := models.Candle{
			Pair: pair.String(),
			TS:   time.UnixMilli(ms).UTC().Truncate(time.Hour),
		}
		for j, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			v, err := strconv.ParseFloat(k[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("bybit kline field %d: %w", j+1, err)
			}
			*dst = v
		}
		rows = append(rows, c)
	}
	return rows, nil
}

// syntheticCandles generates a plausible hour-aligned random walk ending
// at the current hour. The base price is derived from the pair name so
// repeated fallbacks stay in a consistent range.
func syntheticCandles(pair models.Pair, n int, now time.Time) []models.Candle {
	h := fnv.New64a()
	h.Write([]byte(pair.String()))
	base := 10 + float64(h.Sum64()%100000)/10 // 10 .. ~10009

	end := now.Truncate(time.Hour)
	rows := make([]models.Candle, 0, n)
	price := base
	for i := n - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(i) * time.Hour)
		open := price
		price *= 1 + rand.NormFloat64()*0.005
		high := maxFloat(open, price) * (1 + rand.Float64()*0.002)
		low := minFloat(open, price) * (1 - rand.Float64()*0.002)
		rows = append(rows, models.Candle{
			Pair:   pair.String(),
			TS:     ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 100 + rand.Float64()*900,
		})
	}
	return rows
}

func asFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("parse float %q: %w", x, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
