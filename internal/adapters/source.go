// Package adapters contains one source adapter per upstream feed. Each
// adapter resolves a venue from the pair identifier, calls exactly one
// primary upstream per attempt with a bounded timeout, and resolves any
// failure to a synthetic fallback record set. Adapters own no persisted
// state and never surface upstream errors to callers.
package adapters

import (
	"context"
	"strings"

	domrepo "github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/services/ratelimit"
	xhttp "github.com/skymike/crypto-risk-dashboard/pkg/http"
	"github.com/skymike/crypto-risk-dashboard/pkg/logger"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
)

// CandleSource fetches OHLCV bars for a pair.
type CandleSource interface {
	Fetch(ctx context.Context, pair models.Pair) []models.Candle
}

// FundingSource fetches the current funding rate for a pair. The candle
// history already fetched this cycle feeds the synthetic fallback.
type FundingSource interface {
	Fetch(ctx context.Context, pair models.Pair, candles []models.Candle) []models.FundingObservation
}

// OpenInterestSource fetches the current open interest for a pair.
type OpenInterestSource interface {
	Fetch(ctx context.Context, pair models.Pair) []models.OpenInterestObservation
}

// SentimentSource fetches a sentiment sample for a pair.
type SentimentSource interface {
	Fetch(ctx context.Context, pair models.Pair) []models.SentimentObservation
}

// HeadlineSource fetches the global headline feed; it is not pair-scoped.
type HeadlineSource interface {
	Fetch(ctx context.Context) []models.Headline
}

// Upstream request budget per venue. Venue APIs throttle aggressively, so
// a cycle that would exceed the budget degrades to synthetic data instead
// of getting the deployment IP banned.
const (
	venueBurst     = 20.0
	venueRefillSec = 5.0
)

// Deps bundles the collaborators every adapter needs.
type Deps struct {
	Log     *logger.Logger
	Metrics domrepo.Metrics
	HTTP    *xhttp.Client
	Limiter *ratelimit.Limiter
}

func (d Deps) log() *logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

// allowUpstream consumes one token from the pair's venue bucket. With no
// limiter configured every request goes through.
func (d Deps) allowUpstream(pair string) bool {
	if d.Limiter == nil {
		return true
	}
	venue, _, ok := strings.Cut(pair, ":")
	if !ok {
		venue = pair
	}
	return d.Limiter.Allow(venue, venueBurst, venueRefillSec)
}

func (d Deps) fallbackRecorded(source, pair string) {
	if d.Metrics != nil {
		d.Metrics.RecordAdapterFallback(source, pair)
	}
}

// resolve is the two-stage fetch used by every adapter: attempt the
// primary source, and on any error or empty result synthesize fallback
// records. The returned set is always usable; only its plausibility
// differs.
func resolve[T any](ctx context.Context, deps Deps, source, pair string, primary func(context.Context) ([]T, error), synth func() []T) []T {
	if primary != nil && deps.allowUpstream(pair) {
		rows, err := primary(ctx)
		if err == nil && len(rows) > 0 {
			return rows
		}
		if err != nil {
			deps.log().Warn("primary source failed, using synthetic fallback",
				logger.String("source", source),
				logger.String("pair", pair),
				logger.Error(err),
			)
		}
	}
	deps.fallbackRecorded(source, pair)
	return synth()
}
