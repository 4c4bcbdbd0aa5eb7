package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// fakeStore serves canned windows regardless of cutoff and records writes.
type fakeStore struct {
	candles  []models.Candle
	funding  []models.FundingObservation
	oi       []models.OpenInterestObservation
	vol      []models.VolatilityObservation
	sent     []models.SentimentObservation
	pairs    []string
	verdicts []models.SignalVerdict

	oiErr      error
	failUpsert map[string]error
}

func (f *fakeStore) UpsertCandles(ctx context.Context, rows []models.Candle) error {
	if err := f.failUpsert["candles"]; err != nil {
		return err
	}
	f.candles = append(f.candles, rows...)
	return nil
}

func (f *fakeStore) UpsertFunding(ctx context.Context, rows []models.FundingObservation) error {
	if err := f.failUpsert["funding_rates"]; err != nil {
		return err
	}
	f.funding = append(f.funding, rows...)
	return nil
}

func (f *fakeStore) UpsertOpenInterest(ctx context.Context, rows []models.OpenInterestObservation) error {
	if err := f.failUpsert["open_interest"]; err != nil {
		return err
	}
	f.oi = append(f.oi, rows...)
	return nil
}

func (f *fakeStore) UpsertVolatility(ctx context.Context, rows []models.VolatilityObservation) error {
	if err := f.failUpsert["volatility"]; err != nil {
		return err
	}
	f.vol = append(f.vol, rows...)
	return nil
}

func (f *fakeStore) UpsertSentiment(ctx context.Context, rows []models.SentimentObservation) error {
	if err := f.failUpsert["sentiment"]; err != nil {
		return err
	}
	f.sent = append(f.sent, rows...)
	return nil
}

func (f *fakeStore) InsertHeadlines(ctx context.Context, rows []models.Headline) error {
	if err := f.failUpsert["headlines"]; err != nil {
		return err
	}
	return nil
}

func (f *fakeStore) InsertVerdicts(ctx context.Context, rows []models.SignalVerdict) error {
	f.verdicts = append(f.verdicts, rows...)
	return nil
}

func (f *fakeStore) CandlesLastN(ctx context.Context, pair string, n int) ([]models.Candle, error) {
	return f.candles, nil
}

func (f *fakeStore) FundingSince(ctx context.Context, pair string, since time.Time) ([]models.FundingObservation, error) {
	return f.funding, nil
}

func (f *fakeStore) OpenInterestSince(ctx context.Context, pair string, since time.Time) ([]models.OpenInterestObservation, error) {
	return f.oi, f.oiErr
}

func (f *fakeStore) VolatilitySince(ctx context.Context, pair string, since time.Time) ([]models.VolatilityObservation, error) {
	return f.vol, nil
}

func (f *fakeStore) SentimentSince(ctx context.Context, pair string, since time.Time) ([]models.SentimentObservation, error) {
	return f.sent, nil
}

func (f *fakeStore) Pairs(ctx context.Context) ([]string, error) { return f.pairs, nil }

func (f *fakeStore) LatestVerdicts(ctx context.Context, pairs []string) ([]models.SignalVerdict, error) {
	return f.verdicts, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

const testPair = "binance:BTC/USDT"

var testBase = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func oiSeries(values ...float64) []models.OpenInterestObservation {
	out := make([]models.OpenInterestObservation, len(values))
	for i, v := range values {
		out[i] = models.OpenInterestObservation{Pair: testPair, TS: testBase.Add(time.Duration(i) * time.Hour), ValueUSD: v}
	}
	return out
}

func fundingSeries(rates ...float64) []models.FundingObservation {
	out := make([]models.FundingObservation, len(rates))
	for i, r := range rates {
		out[i] = models.FundingObservation{Pair: testPair, TS: testBase.Add(time.Duration(i) * time.Hour), Rate: r}
	}
	return out
}

func sentSeries(stressCounts ...int) []models.SentimentObservation {
	out := make([]models.SentimentObservation, len(stressCounts))
	for i, c := range stressCounts {
		out[i] = models.SentimentObservation{
			Pair: testPair, TS: testBase.Add(time.Duration(i) * time.Hour),
			Mentions: c + 1, Keywords: models.KeywordCount{"liquidation": c},
		}
	}
	return out
}

// candleWalk produces bars+1 hourly candles whose close compounds by
// ratePerBar each bar, so the momentum slope equals ratePerBar.
func candleWalk(ratePerBar float64, bars int) []models.Candle {
	out := make([]models.Candle, bars+1)
	price := 100.0
	for i := range out {
		out[i] = models.Candle{Pair: testPair, TS: testBase.Add(time.Duration(i) * time.Hour), Close: price}
		price *= 1 + ratePerBar
	}
	return out
}

// crowdedOI has its latest value above nearly the whole window (>= 96th pct).
func crowdedOI() []models.OpenInterestObservation {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 1_000_000 + float64(i)
	}
	values[29] = 2_000_000
	return oiSeries(values...)
}

// midOI has its latest value at the 60th percentile: neither crowded nor light.
func midOI() []models.OpenInterestObservation {
	return oiSeries(1, 2, 3, 4, 5, 6, 9, 9, 9, 7)
}

func TestEvaluateEmptyStoreIsUnknown(t *testing.T) {
	engine := NewSignalEngine(&fakeStore{}, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeUnknown, v.Regime)
	assert.Equal(t, models.BiasNeutral, v.Bias)
	assert.Equal(t, 0.5, v.LongProb)
	assert.Equal(t, 0.5, v.ShortProb)
	assert.Equal(t, "Insufficient data.", v.Summary)
	assert.Equal(t, "balanced", v.Profile)
	assert.False(t, v.TS.IsZero())
}

func TestEvaluateRiskyRegime(t *testing.T) {
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(0, -0.0002),
		sent:    sentSeries(2, 2, 6, 6), // spike ratio 3.0
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRisky, v.Regime)
	assert.Equal(t, models.BiasShort, v.Bias)
	assert.Equal(t, 0.2, v.LongProb)
	assert.Equal(t, 0.8, v.ShortProb)
	assert.Contains(t, v.Summary, "Balanced")
}

func TestEvaluateRiskyBeatsMomentum(t *testing.T) {
	// Strong positive slope would be Constructive, but the risk regime
	// is checked first.
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(-0.0003),
		sent:    sentSeries(1, 1, 9, 9),
		candles: candleWalk(0.001, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRisky, v.Regime)
}

func TestEvaluateRiskyWithUndefinedSpike(t *testing.T) {
	// No sentiment rows: the spike gate is skipped, not failed.
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(-0.0002),
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRisky, v.Regime)
}

func TestEvaluateQuietChatterBlocksRisky(t *testing.T) {
	// Crowded OI and negative funding but chatter below the spike
	// threshold: falls through to the ladder, where crowded OI alone is
	// a short headwind.
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(-0.0002),
		sent:    sentSeries(6, 6, 2, 2), // ratio 1/3
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeWeak, v.Regime)
	assert.Equal(t, models.BiasShort, v.Bias)
	assert.Equal(t, 0.3, v.LongProb)
	assert.Equal(t, 0.7, v.ShortProb)
}

func TestEvaluateConstructive(t *testing.T) {
	store := &fakeStore{
		oi:      midOI(),
		funding: fundingSeries(0),
		sent:    sentSeries(1, 1),
		candles: candleWalk(0.0003, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeConstructive, v.Regime)
	assert.Equal(t, models.BiasLong, v.Bias)
	assert.Equal(t, 0.7, v.LongProb)
	assert.Equal(t, 0.3, v.ShortProb)
}

func TestEvaluateCrossCurrents(t *testing.T) {
	// Rising momentum and deeply negative funding pull both ways.
	store := &fakeStore{
		oi:      midOI(),
		funding: fundingSeries(-0.0005),
		candles: candleWalk(0.0003, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeCrossCurrents, v.Regime)
	assert.Equal(t, models.BiasFlat, v.Bias)
	assert.Equal(t, 0.5, v.LongProb)
	assert.Equal(t, 0.5, v.ShortProb)
}

func TestEvaluateBalancedChoppy(t *testing.T) {
	store := &fakeStore{
		oi:      midOI(),
		funding: fundingSeries(0),
		sent:    sentSeries(1, 1),
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeBalanced, v.Regime)
	assert.Equal(t, models.BiasFlat, v.Bias)
}

func TestEvaluateShortHistoryHasNoMomentum(t *testing.T) {
	// Fewer than 13 candles: slope is 0, so momentum alone cannot
	// produce a Constructive verdict.
	store := &fakeStore{
		oi:      midOI(),
		funding: fundingSeries(0),
		candles: candleWalk(0.01, 5),
	}
	engine := NewSignalEngine(store, nil, nil)

	v, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeBalanced, v.Regime)
}

func TestEvaluateUnknownProfileMatchesBalanced(t *testing.T) {
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(-0.0002),
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	got, err := engine.Evaluate(context.Background(), testPair, "does-not-exist")
	require.NoError(t, err)
	want, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)

	assert.Equal(t, want.Regime, got.Regime)
	assert.Equal(t, want.Bias, got.Bias)
	assert.Equal(t, "balanced", got.Profile)
}

func TestEvaluateProfileSensitivity(t *testing.T) {
	// Funding at -0.5bp crosses the aggressive threshold (-0.2bp) but
	// not the balanced one (-1bp).
	store := &fakeStore{
		oi:      crowdedOI(),
		funding: fundingSeries(-0.00005),
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	agg, err := engine.Evaluate(context.Background(), testPair, "aggressive")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRisky, agg.Regime)

	bal, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.NoError(t, err)
	assert.Equal(t, models.RegimeWeak, bal.Regime)
}

func TestEvaluateStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{oiErr: errors.New("connection refused")}
	engine := NewSignalEngine(store, nil, nil)

	_, err := engine.Evaluate(context.Background(), testPair, "balanced")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEvaluateAllPersists(t *testing.T) {
	store := &fakeStore{
		pairs:   []string{testPair, "bybit:ETH/USDT"},
		candles: candleWalk(0, 12),
		funding: fundingSeries(0),
		oi:      midOI(),
	}
	engine := NewSignalEngine(store, nil, nil)

	verdicts, err := engine.EvaluateAll(context.Background(), "balanced", true)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Len(t, store.verdicts, 2)
	assert.Equal(t, testPair, verdicts[0].Pair)
	assert.Equal(t, "bybit:ETH/USDT", verdicts[1].Pair)
}

func TestEvaluateAllWithoutPersist(t *testing.T) {
	store := &fakeStore{
		pairs:   []string{testPair},
		candles: candleWalk(0, 12),
	}
	engine := NewSignalEngine(store, nil, nil)

	verdicts, err := engine.EvaluateAll(context.Background(), "balanced", false)
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Empty(t, store.verdicts)
}

func TestExplanationsMentionThresholds(t *testing.T) {
	got := Explanations("balanced")
	require.Contains(t, got, "market_stress")
	require.Contains(t, got, "momentum")
	assert.Contains(t, got["market_stress"], "80th percentile")
	assert.Contains(t, got["market_stress"], "-1.0 bps")
	assert.Contains(t, got["momentum"], "1.5 bps/hr")
}
