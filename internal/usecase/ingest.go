package usecase

import (
	"context"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/adapters"
	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	domrepo "github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/pkg/logger"
)

// Sources bundles the per-feed adapters the ingestor drives.
type Sources struct {
	Candles      adapters.CandleSource
	Funding      adapters.FundingSource
	OpenInterest adapters.OpenInterestSource
	Volatility   *adapters.VolatilityDeriver
	Sentiment    adapters.SentimentSource
	Headlines    adapters.HeadlineSource
}

// CycleStats summarizes one ingestion cycle. Failures are per write
// stage; a failed stage never aborts the cycle.
type CycleStats struct {
	PairsProcessed int
	WritesOK       int
	WritesFailed   int
}

// Ingestor runs the ingestion cycle: for each configured pair it invokes
// the adapters in fixed order and upserts each batch immediately, then
// aggregates the headline feed once. It is designed to be invoked on a
// fixed interval by an external scheduler.
type Ingestor struct {
	pairs   []string
	sources Sources
	store   domrepo.MarketStore
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewIngestor(pairs []string, sources Sources, store domrepo.MarketStore, metrics domrepo.Metrics, log *logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Nop()
	}
	return &Ingestor{
		pairs:   pairs,
		sources: sources,
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

// RunCycle ingests all configured pairs. The cycle can be abandoned
// between pairs via ctx; pairs already written remain valid.
func (in *Ingestor) RunCycle(ctx context.Context) CycleStats {
	start := time.Now()
	var stats CycleStats

	in.log.Info("ingest cycle starting", logger.Int("pairs", len(in.pairs)))

	for _, raw := range in.pairs {
		if ctx.Err() != nil {
			in.log.Warn("ingest cycle abandoned", logger.Error(ctx.Err()))
			return stats
		}

		pair, err := models.ParsePair(raw)
		if err != nil {
			in.log.Error("skipping malformed pair", logger.String("pair", raw), logger.Error(err))
			in.recordError("parse_pair")
			continue
		}
		in.ingestPair(ctx, pair, &stats)
		stats.PairsProcessed++
	}

	headlines := in.sources.Headlines.Fetch(ctx)
	in.write(&stats, "headlines", "global", len(headlines), func() error {
		return in.store.InsertHeadlines(ctx, headlines)
	})

	in.log.Info("ingest cycle finished",
		logger.Int("pairs", stats.PairsProcessed),
		logger.Int("writes_ok", stats.WritesOK),
		logger.Int("writes_failed", stats.WritesFailed),
		logger.Duration("elapsed", time.Since(start)),
	)
	if in.metrics != nil {
		in.metrics.RecordLatency("ingest_cycle", time.Since(start).Seconds())
	}
	return stats
}

// ingestPair runs the fixed adapter order for one pair. Funding runs
// after candles because its fallback derives from them; volatility is
// computed from the same candle batch.
func (in *Ingestor) ingestPair(ctx context.Context, pair models.Pair, stats *CycleStats) {
	key := pair.String()

	candles := in.sources.Candles.Fetch(ctx, pair)
	in.write(stats, "candles", key, len(candles), func() error {
		return in.store.UpsertCandles(ctx, candles)
	})

	funding := in.sources.Funding.Fetch(ctx, pair, candles)
	in.write(stats, "funding_rates", key, len(funding), func() error {
		return in.store.UpsertFunding(ctx, funding)
	})

	oi := in.sources.OpenInterest.Fetch(ctx, pair)
	in.write(stats, "open_interest", key, len(oi), func() error {
		return in.store.UpsertOpenInterest(ctx, oi)
	})

	vol := in.sources.Volatility.Derive(pair, candles)
	in.write(stats, "volatility", key, len(vol), func() error {
		return in.store.UpsertVolatility(ctx, vol)
	})

	sent := in.sources.Sentiment.Fetch(ctx, pair)
	in.write(stats, "sentiment", key, len(sent), func() error {
		return in.store.UpsertSentiment(ctx, sent)
	})
}

// write persists one batch and absorbs the failure: a broken store call
// is logged and counted, and the cycle moves on.
func (in *Ingestor) write(stats *CycleStats, table, pair string, rows int, fn func() error) {
	if rows == 0 {
		return
	}
	if err := fn(); err != nil {
		in.log.Error("batch write failed",
			logger.String("table", table),
			logger.String("pair", pair),
			logger.Error(err),
		)
		in.recordError(table)
		stats.WritesFailed++
		return
	}
	if in.metrics != nil {
		in.metrics.RecordRowsUpserted(table, pair, rows)
	}
	stats.WritesOK++
}

func (in *Ingestor) recordError(stage string) {
	if in.metrics != nil {
		in.metrics.RecordIngestError(stage)
	}
}
