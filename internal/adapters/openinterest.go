package adapters

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// OpenInterestAdapter fetches current open interest in USD notional.
type OpenInterestAdapter struct {
	deps       Deps
	binanceURL string
	bybitURL   string
}

func NewOpenInterestAdapter(deps Deps) *OpenInterestAdapter {
	return &OpenInterestAdapter{
		deps:       deps,
		binanceURL: binanceFuturesURL,
		bybitURL:   bybitURL,
	}
}

func (a *OpenInterestAdapter) Fetch(ctx context.Context, pair models.Pair) []models.OpenInterestObservation {
	var primary func(context.Context) ([]models.OpenInterestObservation, error)
	switch pair.Venue {
	case "binance":
		primary = func(ctx context.Context) ([]models.OpenInterestObservation, error) { return a.fetchBinance(ctx, pair) }
	case "bybit":
		primary = func(ctx context.Context) ([]models.OpenInterestObservation, error) { return a.fetchBybit(ctx, pair) }
	}
	return resolve(ctx, a.deps, "open_interest", pair.String(), primary, func() []models.OpenInterestObservation {
		return syntheticOpenInterest(pair, time.Now().UTC())
	})
}

func (a *OpenInterestAdapter) fetchBinance(ctx context.Context, pair models.Pair) ([]models.OpenInterestObservation, error) {
	var raw struct {
		OpenInterest string `json:"openInterest"`
	}
	err := a.deps.HTTP.GetJSON(ctx, a.binanceURL+"/fapi/v1/openInterest", map[string]string{
		"symbol": pair.Symbol(),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance open interest: %w", err)
	}
	contracts, err := strconv.ParseFloat(raw.OpenInterest, 64)
	if err != nil {
		return nil, fmt.Errorf("binance open interest value: %w", err)
	}
	return []models.OpenInterestObservation{{
		Pair: pair.String(),
		TS:   observationTime(time.Now().UTC()),
		// Contract count scaled to approximate USD notional.
		ValueUSD: contracts * 1000,
	}}, nil
}

func (a *OpenInterestAdapter) fetchBybit(ctx context.Context, pair models.Pair) ([]models.OpenInterestObservation, error) {
	var raw struct {
		Result struct {
			List []struct {
				OpenInterest string `json:"openInterest"`
			} `json:"list"`
		} `json:"result"`
	}
	err := a.deps.HTTP.GetJSON(ctx, a.bybitURL+"/v5/market/open-interest", map[string]string{
		"category":     "linear",
		"symbol":       pair.Symbol(),
		"intervalTime": "5min",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("bybit open interest: %w", err)
	}
	if len(raw.Result.List) == 0 {
		return nil, fmt.Errorf("bybit open interest: empty result")
	}
	value, err := strconv.ParseFloat(raw.Result.List[0].OpenInterest, 64)
	if err != nil {
		return nil, fmt.Errorf("bybit open interest value: %w", err)
	}
	return []models.OpenInterestObservation{{
		Pair:     pair.String(),
		TS:       observationTime(time.Now().UTC()),
		ValueUSD: value,
	}}, nil
}

func syntheticOpenInterest(pair models.Pair, now time.Time) []models.OpenInterestObservation {
	base := 1_000_000 + rand.Intn(100_001) - 50_000
	return []models.OpenInterestObservation{{
		Pair:     pair.String(),
		TS:       observationTime(now),
		ValueUSD: float64(base),
	}}
}
