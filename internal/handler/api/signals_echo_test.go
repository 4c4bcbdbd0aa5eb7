package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	xlogger "github.com/skymike/crypto-risk-dashboard/pkg/logger"
)

// stubStore serves a fixed verdict list; everything else is empty.
type stubStore struct {
	verdicts []models.SignalVerdict
}

func (s *stubStore) UpsertCandles(ctx context.Context, rows []models.Candle) error      { return nil }
func (s *stubStore) UpsertFunding(ctx context.Context, rows []models.FundingObservation) error {
	return nil
}
func (s *stubStore) UpsertOpenInterest(ctx context.Context, rows []models.OpenInterestObservation) error {
	return nil
}
func (s *stubStore) UpsertVolatility(ctx context.Context, rows []models.VolatilityObservation) error {
	return nil
}
func (s *stubStore) UpsertSentiment(ctx context.Context, rows []models.SentimentObservation) error {
	return nil
}
func (s *stubStore) InsertHeadlines(ctx context.Context, rows []models.Headline) error { return nil }
func (s *stubStore) InsertVerdicts(ctx context.Context, rows []models.SignalVerdict) error {
	return nil
}
func (s *stubStore) CandlesLastN(ctx context.Context, pair string, n int) ([]models.Candle, error) {
	return nil, nil
}
func (s *stubStore) FundingSince(ctx context.Context, pair string, since time.Time) ([]models.FundingObservation, error) {
	return nil, nil
}
func (s *stubStore) OpenInterestSince(ctx context.Context, pair string, since time.Time) ([]models.OpenInterestObservation, error) {
	return nil, nil
}
func (s *stubStore) VolatilitySince(ctx context.Context, pair string, since time.Time) ([]models.VolatilityObservation, error) {
	return nil, nil
}
func (s *stubStore) SentimentSince(ctx context.Context, pair string, since time.Time) ([]models.SentimentObservation, error) {
	return nil, nil
}
func (s *stubStore) Pairs(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubStore) LatestVerdicts(ctx context.Context, pairs []string) ([]models.SignalVerdict, error) {
	return s.verdicts, nil
}
func (s *stubStore) Health(ctx context.Context) error { return nil }
func (s *stubStore) Close() error                     { return nil }

func serveGET(t *testing.T, h echo.HandlerFunc, target string) map[string]interface{} {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignalsAcceptsUnknownProfile(t *testing.T) {
	store := &stubStore{verdicts: []models.SignalVerdict{
		{Pair: "binance:BTC/USDT", Regime: models.RegimeBalanced, Bias: models.BiasFlat, Profile: "balanced"},
	}}
	h := NewSignalsHandler(xlogger.Nop(), store, nil)

	body := serveGET(t, h.Signals, "/signals?profile=yolo")

	assert.Equal(t, float64(200), body["status"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
}

func TestExplanationsUnknownProfileResolvesToDefault(t *testing.T) {
	h := NewSignalsHandler(xlogger.Nop(), &stubStore{}, nil)

	body := serveGET(t, h.Explanations, "/signals/explanations?profile=yolo")

	assert.Equal(t, float64(200), body["status"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "balanced", data["profile"])
}

func TestExplanationsNamedProfile(t *testing.T) {
	h := NewSignalsHandler(xlogger.Nop(), &stubStore{}, nil)

	body := serveGET(t, h.Explanations, "/signals/explanations?profile=aggressive")

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "aggressive", data["profile"])
}
