package repository

import (
	"context"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// MarketStore is the persistence gateway over the fixed set of time-series
// tables plus the append-only signal history. Upserts are idempotent by
// (pair, ts) and atomic per call; range reads return rows ascending by ts
// and an empty result is valid.
type MarketStore interface {
	UpsertCandles(ctx context.Context, rows []models.Candle) error
	UpsertFunding(ctx context.Context, rows []models.FundingObservation) error
	UpsertOpenInterest(ctx context.Context, rows []models.OpenInterestObservation) error
	UpsertVolatility(ctx context.Context, rows []models.VolatilityObservation) error
	UpsertSentiment(ctx context.Context, rows []models.SentimentObservation) error
	// InsertHeadlines is append-only: a conflicting id does nothing.
	InsertHeadlines(ctx context.Context, rows []models.Headline) error
	// InsertVerdicts appends; each evaluation produces a new timestamped row.
	InsertVerdicts(ctx context.Context, rows []models.SignalVerdict) error

	CandlesLastN(ctx context.Context, pair string, n int) ([]models.Candle, error)
	FundingSince(ctx context.Context, pair string, since time.Time) ([]models.FundingObservation, error)
	OpenInterestSince(ctx context.Context, pair string, since time.Time) ([]models.OpenInterestObservation, error)
	VolatilitySince(ctx context.Context, pair string, since time.Time) ([]models.VolatilityObservation, error)
	SentimentSince(ctx context.Context, pair string, since time.Time) ([]models.SentimentObservation, error)

	// Pairs lists distinct pairs that have candle history.
	Pairs(ctx context.Context) ([]string, error)
	// LatestVerdicts returns the most recent verdict per pair.
	LatestVerdicts(ctx context.Context, pairs []string) ([]models.SignalVerdict, error)

	Health(ctx context.Context) error
	Close() error
}

// VerdictPublisher emits evaluated verdicts to downstream consumers
// (notification delivery lives behind this boundary).
type VerdictPublisher interface {
	Publish(ctx context.Context, v models.SignalVerdict) error
	Close() error
}

// Metrics records operational counters for ingestion and evaluation.
type Metrics interface {
	RecordRowsUpserted(table, pair string, n int)
	RecordAdapterFallback(source, pair string)
	RecordIngestError(stage string)
	RecordEvaluation(regime string)
	RecordLatency(op string, seconds float64)
}
