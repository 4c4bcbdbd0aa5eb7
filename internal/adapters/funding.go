package adapters

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

const binanceFuturesURL = "https://fapi.binance.com"

// FundingAdapter fetches the latest perpetual funding rate. The fallback
// derives a plausible rate from the last candle's percent change, or a
// small random rate when no candles are available.
type FundingAdapter struct {
	deps       Deps
	binanceURL string
	bybitURL   string
}

func NewFundingAdapter(deps Deps) *FundingAdapter {
	return &FundingAdapter{
		deps:       deps,
		binanceURL: binanceFuturesURL,
		bybitURL:   bybitURL,
	}
}

func (a *FundingAdapter) Fetch(ctx context.Context, pair models.Pair, candles []models.Candle) []models.FundingObservation {
	var primary func(context.Context) ([]models.FundingObservation, error)
	switch pair.Venue {
	case "binance":
		primary = func(ctx context.Context) ([]models.FundingObservation, error) { return a.fetchBinance(ctx, pair) }
	case "bybit":
		primary = func(ctx context.Context) ([]models.FundingObservation, error) { return a.fetchBybit(ctx, pair) }
	}
	return resolve(ctx, a.deps, "funding", pair.String(), primary, func() []models.FundingObservation {
		return syntheticFunding(pair, candles, time.Now().UTC())
	})
}

func (a *FundingAdapter) fetchBinance(ctx context.Context, pair models.Pair) ([]models.FundingObservation, error) {
	var raw []struct {
		FundingRate string `json:"fundingRate"`
	}
	err := a.deps.HTTP.GetJSON(ctx, a.binanceURL+"/fapi/v1/fundingRate", map[string]string{
		"symbol": pair.Symbol(),
		"limit":  "1",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance funding: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("binance funding: empty result")
	}
	rate, err := strconv.ParseFloat(raw[0].FundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("binance funding rate: %w", err)
	}
	return []models.FundingObservation{{
		Pair: pair.String(),
		TS:   observationTime(time.Now().UTC()),
		Rate: rate,
	}}, nil
}

func (a *FundingAdapter) fetchBybit(ctx context.Context, pair models.Pair) ([]models.FundingObservation, error) {
	var raw struct {
		Result struct {
			List []struct {
				FundingRate string `json:"fundingRate"`
			} `json:"list"`
		} `json:"result"`
	}
	err := a.deps.HTTP.GetJSON(ctx, a.bybitURL+"/v5/market/funding/history", map[string]string{
		"category": "linear",
		"symbol":   pair.Symbol(),
		"limit":    "1",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("bybit funding: %w", err)
	}
	if len(raw.Result.List) == 0 {
		return nil, fmt.Errorf("bybit funding: empty result")
	}
	rate, err := strconv.ParseFloat(raw.Result.List[0].FundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("bybit funding rate: %w", err)
	}
	return []models.FundingObservation{{
		Pair: pair.String(),
		TS:   observationTime(time.Now().UTC()),
		Rate: rate,
	}}, nil
}

func syntheticFunding(pair models.Pair, candles []models.Candle, now time.Time) []models.FundingObservation {
	obs := models.FundingObservation{
		Pair: pair.String(),
		TS:   observationTime(now),
	}
	if n := len(candles); n >= 2 {
		prev := candles[n-2].Close
		last := candles[n-1].Close
		if prev != 0 {
			// A tenth of the last hourly move is a plausible stand-in.
			obs.Rate = (last - prev) / prev / 10
		}
		obs.TS = candles[n-1].TS
	} else {
		obs.Rate = (rand.Float64() - 0.5) * 0.001 // within ±5bp
	}
	return []models.FundingObservation{obs}
}

// observationTime truncates to the minute so repeated fetches within a
// minute upsert the same row.
func observationTime(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
