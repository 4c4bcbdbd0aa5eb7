package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymike/crypto-risk-dashboard/internal/adapters"
	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

type fakeCandleSource struct {
	rows  []models.Candle
	calls int
}

func (f *fakeCandleSource) Fetch(ctx context.Context, pair models.Pair) []models.Candle {
	f.calls++
	return f.rows
}

type fakeFundingSource struct {
	rows       []models.FundingObservation
	gotCandles []models.Candle
}

func (f *fakeFundingSource) Fetch(ctx context.Context, pair models.Pair, candles []models.Candle) []models.FundingObservation {
	f.gotCandles = candles
	return f.rows
}

type fakeOISource struct{ rows []models.OpenInterestObservation }

func (f *fakeOISource) Fetch(ctx context.Context, pair models.Pair) []models.OpenInterestObservation {
	return f.rows
}

type fakeSentimentSource struct{ rows []models.SentimentObservation }

func (f *fakeSentimentSource) Fetch(ctx context.Context, pair models.Pair) []models.SentimentObservation {
	return f.rows
}

type fakeHeadlineSource struct {
	rows  []models.Headline
	calls int
}

func (f *fakeHeadlineSource) Fetch(ctx context.Context) []models.Headline {
	f.calls++
	return f.rows
}

func cycleFixture() (Sources, *fakeCandleSource, *fakeHeadlineSource) {
	candles := &fakeCandleSource{rows: candleWalk(0.001, 24)}
	headlines := &fakeHeadlineSource{rows: []models.Headline{
		{ID: 1, Title: "ETF inflows resume", URL: "https://example.com/etf", TS: testBase},
	}}
	return Sources{
		Candles:      candles,
		Funding:      &fakeFundingSource{rows: fundingSeries(0.0001)},
		OpenInterest: &fakeOISource{rows: oiSeries(1_000_000)},
		Volatility:   adapters.NewVolatilityDeriver(14),
		Sentiment:    &fakeSentimentSource{rows: sentSeries(2)},
		Headlines:    headlines,
	}, candles, headlines
}

func TestRunCycleWritesAllStages(t *testing.T) {
	sources, _, headlines := cycleFixture()
	store := &fakeStore{}
	ing := NewIngestor([]string{"binance:BTC/USDT", "bybit:ETH/USDT"}, sources, store, nil, nil)

	stats := ing.RunCycle(context.Background())

	assert.Equal(t, 2, stats.PairsProcessed)
	// candles, funding, oi, volatility, sentiment per pair plus one
	// headline batch.
	assert.Equal(t, 11, stats.WritesOK)
	assert.Equal(t, 0, stats.WritesFailed)
	assert.Equal(t, 1, headlines.calls)
	assert.Len(t, store.candles, 50)
	assert.Len(t, store.funding, 2)
	assert.Len(t, store.vol, 2)
}

func TestRunCycleFundingSeesCycleCandles(t *testing.T) {
	sources, candles, _ := cycleFixture()
	funding := sources.Funding.(*fakeFundingSource)
	ing := NewIngestor([]string{"binance:BTC/USDT"}, sources, &fakeStore{}, nil, nil)

	ing.RunCycle(context.Background())

	require.Equal(t, 1, candles.calls)
	assert.Equal(t, candles.rows, funding.gotCandles)
}

func TestRunCycleSurvivesWriteFailure(t *testing.T) {
	sources, _, _ := cycleFixture()
	store := &fakeStore{failUpsert: map[string]error{
		"funding_rates": errors.New("deadlock detected"),
	}}
	ing := NewIngestor([]string{"binance:BTC/USDT"}, sources, store, nil, nil)

	stats := ing.RunCycle(context.Background())

	assert.Equal(t, 1, stats.PairsProcessed)
	assert.Equal(t, 1, stats.WritesFailed)
	assert.Equal(t, 5, stats.WritesOK)
	// The failed stage did not block the ones after it.
	assert.NotEmpty(t, store.sent)
}

func TestRunCycleSkipsEmptyBatches(t *testing.T) {
	sources, _, _ := cycleFixture()
	sources.Sentiment = &fakeSentimentSource{}
	ing := NewIngestor([]string{"binance:BTC/USDT"}, sources, &fakeStore{}, nil, nil)

	stats := ing.RunCycle(context.Background())

	assert.Equal(t, 5, stats.WritesOK)
	assert.Equal(t, 0, stats.WritesFailed)
}

func TestRunCycleSkipsMalformedPair(t *testing.T) {
	sources, candles, _ := cycleFixture()
	store := &fakeStore{}
	ing := NewIngestor([]string{"not-a-pair", "binance:BTC/USDT"}, sources, store, nil, nil)

	stats := ing.RunCycle(context.Background())

	assert.Equal(t, 1, stats.PairsProcessed)
	assert.Equal(t, 1, candles.calls)
	assert.Equal(t, 0, stats.WritesFailed)
}

func TestRunCycleAbandonedOnCancel(t *testing.T) {
	sources, candles, headlines := cycleFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ing := NewIngestor([]string{"binance:BTC/USDT"}, sources, &fakeStore{}, nil, nil)

	stats := ing.RunCycle(ctx)

	assert.Equal(t, 0, stats.PairsProcessed)
	assert.Equal(t, 0, candles.calls)
	// Cancellation before the first pair returns before the headline fetch.
	assert.Equal(t, 0, headlines.calls)
}

func TestRunCycleIdempotentTimestamps(t *testing.T) {
	sources, _, _ := cycleFixture()
	store := &fakeStore{}
	ing := NewIngestor([]string{"binance:BTC/USDT"}, sources, store, nil, nil)

	ing.RunCycle(context.Background())
	first := len(store.candles)
	ing.RunCycle(context.Background())

	// Fixed fixture timestamps: the second cycle replays the same keys,
	// which a real store deduplicates on (pair, ts).
	require.Equal(t, 2*first, len(store.candles))
	assert.Equal(t, store.candles[0].TS, store.candles[first].TS)
	assert.True(t, store.candles[0].TS.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}
