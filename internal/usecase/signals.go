package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	domrepo "github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/services/features"
	"github.com/skymike/crypto-risk-dashboard/pkg/logger"
)

// Trailing window widths for feature extraction.
const (
	oiWindow        = 30 * 24 * time.Hour
	fundingWindow   = 14 * 24 * time.Hour
	sentimentWindow = 14 * 24 * time.Hour
	candleBars      = 60
	momentumBars    = 12
)

// SignalEngine converts persisted time series into a discrete
// market-stress verdict per pair. It keeps no state between calls: each
// Evaluate is a function of current store contents and the chosen
// profile.
type SignalEngine struct {
	store   domrepo.MarketStore
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewSignalEngine(store domrepo.MarketStore, metrics domrepo.Metrics, log *logger.Logger) *SignalEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &SignalEngine{
		store:   store,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// Evaluate classifies one pair against the named profile's thresholds.
// Unknown profile names resolve silently to the default; missing data
// yields the Unknown verdict, never an error. Only store failures
// propagate.
func (e *SignalEngine) Evaluate(ctx context.Context, pair, profileName string) (models.SignalVerdict, error) {
	start := e.now()
	profile := models.ResolveProfile(profileName)

	feats, err := e.extract(ctx, pair)
	if err != nil {
		return models.SignalVerdict{}, fmt.Errorf("evaluate %s: %w", pair, err)
	}

	verdict := classify(pair, profile, feats)
	verdict.TS = e.now().UTC()

	if e.metrics != nil {
		e.metrics.RecordEvaluation(verdict.Regime)
		e.metrics.RecordLatency("evaluate", e.now().Sub(start).Seconds())
	}
	e.log.Debug("pair evaluated",
		logger.String("pair", pair),
		logger.String("profile", profile.Name),
		logger.String("regime", verdict.Regime),
	)
	return verdict, nil
}

// pairFeatures is the extracted feature set; the ok flags mark features
// whose source window was empty.
type pairFeatures struct {
	oiPercentile  float64
	oiOK          bool
	latestFunding float64
	fundingOK     bool
	spike         float64
	spikeOK       bool
	slope         float64
	hasCandles    bool
}

func (e *SignalEngine) extract(ctx context.Context, pair string) (pairFeatures, error) {
	var f pairFeatures
	now := e.now().UTC()

	oi, err := e.store.OpenInterestSince(ctx, pair, now.Add(-oiWindow))
	if err != nil {
		return f, fmt.Errorf("open interest window: %w", err)
	}
	if len(oi) > 0 {
		values := make([]float64, len(oi))
		for i, o := range oi {
			values[i] = o.ValueUSD
		}
		f.oiPercentile, f.oiOK = features.Percentile(values, values[len(values)-1])
	}

	funding, err := e.store.FundingSince(ctx, pair, now.Add(-fundingWindow))
	if err != nil {
		return f, fmt.Errorf("funding window: %w", err)
	}
	if len(funding) > 0 {
		f.latestFunding = funding[len(funding)-1].Rate
		f.fundingOK = true
	}

	sent, err := e.store.SentimentSince(ctx, pair, now.Add(-sentimentWindow))
	if err != nil {
		return f, fmt.Errorf("sentiment window: %w", err)
	}
	f.spike, f.spikeOK = features.LiquidationSpike(sent)

	candles, err := e.store.CandlesLastN(ctx, pair, candleBars)
	if err != nil {
		return f, fmt.Errorf("candle window: %w", err)
	}
	f.hasCandles = len(candles) > 0
	f.slope = features.MomentumSlope(candles, momentumBars)

	return f, nil
}

// classify runs the strict priority ladder: risk regime, then the
// tailwind/headwind booleans, then the four-way combination. Exactly one
// outcome is reached.
func classify(pair string, p models.Profile, f pairFeatures) models.SignalVerdict {
	v := models.SignalVerdict{
		Pair:      pair,
		Regime:    models.RegimeUnknown,
		Bias:      models.BiasNeutral,
		LongProb:  0.5,
		ShortProb: 0.5,
		Summary:   "Insufficient data.",
		Profile:   p.Name,
	}

	if !f.oiOK && !f.fundingOK && !f.hasCandles {
		return v
	}

	if f.oiOK && f.fundingOK &&
		f.oiPercentile >= p.OIHigh &&
		f.latestFunding <= p.FundingNeg &&
		(!f.spikeOK || f.spike >= p.SentSpike) {
		v.Regime = models.RegimeRisky
		v.Bias = models.BiasShort
		v.LongProb = 0.2
		v.ShortProb = 0.8
		v.Summary = fmt.Sprintf("[%s] OI in %.0fth pct+, funding <= %.1f bps, and stress chatter elevated.",
			titleCase(p.Name), p.OIHigh, p.FundingNeg*10000)
		return v
	}

	longTailwind := f.slope > p.SlopeLong ||
		(f.fundingOK && f.latestFunding > p.FundingPos) ||
		(f.oiOK && f.oiPercentile <= p.OILow)
	shortHeadwind := f.slope < p.SlopeShort ||
		(f.fundingOK && f.latestFunding < p.FundingNeg) ||
		(f.oiOK && f.oiPercentile >= p.OIHigh)

	switch {
	case longTailwind && !shortHeadwind:
		v.Regime = models.RegimeConstructive
		v.Bias = models.BiasLong
		v.LongProb = 0.7
		v.ShortProb = 0.3
		v.Summary = fmt.Sprintf("[%s] Momentum/funding tailwinds favour longs; monitor for follow-through.", titleCase(p.Name))
	case shortHeadwind && !longTailwind:
		v.Regime = models.RegimeWeak
		v.Bias = models.BiasShort
		v.LongProb = 0.3
		v.ShortProb = 0.7
		v.Summary = fmt.Sprintf("[%s] Elevated OI or negative funding tilts short; watch for squeeze risk.", titleCase(p.Name))
	case longTailwind && shortHeadwind:
		v.Regime = models.RegimeCrossCurrents
		v.Bias = models.BiasFlat
		v.Summary = fmt.Sprintf("[%s] Drivers conflict (momentum vs positioning); stay nimble.", titleCase(p.Name))
	default:
		v.Regime = models.RegimeBalanced
		v.Bias = models.BiasFlat
		v.Summary = fmt.Sprintf("[%s] No clear edge from funding, momentum, or OI; favour range setups.", titleCase(p.Name))
	}
	return v
}

// EvaluateAll evaluates every pair with candle history, appends the
// verdicts to the signal history, and returns them.
func (e *SignalEngine) EvaluateAll(ctx context.Context, profileName string, persist bool) ([]models.SignalVerdict, error) {
	pairs, err := e.store.Pairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}

	verdicts := make([]models.SignalVerdict, 0, len(pairs))
	for _, pair := range pairs {
		v, err := e.Evaluate(ctx, pair, profileName)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}

	if persist && len(verdicts) > 0 {
		if err := e.store.InsertVerdicts(ctx, verdicts); err != nil {
			return nil, fmt.Errorf("persist verdicts: %w", err)
		}
	}
	return verdicts, nil
}

// Explanations describes the active thresholds for a profile in plain
// language, for API consumers.
func Explanations(profileName string) map[string]string {
	p := models.ResolveProfile(profileName)
	return map[string]string{
		"market_stress": fmt.Sprintf(
			"Risky trigger when open interest hits the %.0fth percentile, funding <= %.1f bps, and liquidation chatter >= %.1fx baseline.",
			p.OIHigh, p.FundingNeg*10000, p.SentSpike),
		"momentum": fmt.Sprintf(
			"Long tailwind needs slope >= %.1f bps/hr or funding >= %.1f bps. Short tailwind kicks in below %.1f bps/hr or if funding <= %.1f bps.",
			p.SlopeLong*10000, p.FundingPos*10000, p.SlopeShort*10000, p.FundingNeg*10000),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
