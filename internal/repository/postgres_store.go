package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	"github.com/skymike/crypto-risk-dashboard/pkg/postgres"
)

// PostgresStore persists market data and signal verdicts in Postgres.
// All upserts run as a single multi-row INSERT so a batch lands atomically.
type PostgresStore struct {
	client *postgres.Client
	db     *sqlx.DB
}

// NewPostgresStore creates a store backed by the given Postgres client.
func NewPostgresStore(client *postgres.Client) *PostgresStore {
	return &PostgresStore{client: client, db: client.DB()}
}

// InitSchema creates all tables and indexes if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	return s.client.InitSchema(ctx, postgres.SchemaStatements)
}

// buildUpsert renders a multi-row INSERT with an ON CONFLICT clause.
// With no conflict columns it is a plain append. With conflict columns and
// no update columns the conflicting rows are skipped (DO NOTHING).
func buildUpsert(table string, cols, conflictCols, updateCols []string, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")

	arg := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := range cols {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", arg)
			arg++
		}
		sb.WriteString(")")
	}

	if len(conflictCols) > 0 {
		sb.WriteString(" ON CONFLICT (")
		sb.WriteString(strings.Join(conflictCols, ", "))
		sb.WriteString(")")
		if len(updateCols) == 0 {
			sb.WriteString(" DO NOTHING")
		} else {
			sb.WriteString(" DO UPDATE SET ")
			for i, c := range updateCols {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "%s = EXCLUDED.%s", c, c)
			}
		}
	}
	return sb.String()
}

func (s *PostgresStore) upsert(ctx context.Context, table string, cols, conflictCols, updateCols []string, args []interface{}, rows int) error {
	if rows == 0 {
		return nil
	}
	query := buildUpsert(table, cols, conflictCols, updateCols, rows)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

// UpsertCandles inserts or replaces candles keyed by (pair, ts).
func (s *PostgresStore) UpsertCandles(ctx context.Context, candles []models.Candle) error {
	cols := []string{"pair", "ts", "open", "high", "low", "close", "volume"}
	args := make([]interface{}, 0, len(candles)*len(cols))
	for _, c := range candles {
		args = append(args, c.Pair, c.TS, c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	return s.upsert(ctx, "candles", cols,
		[]string{"pair", "ts"},
		[]string{"open", "high", "low", "close", "volume"},
		args, len(candles))
}

// UpsertFunding inserts or replaces funding rate observations keyed by (pair, ts).
func (s *PostgresStore) UpsertFunding(ctx context.Context, obs []models.FundingObservation) error {
	cols := []string{"pair", "ts", "rate"}
	args := make([]interface{}, 0, len(obs)*len(cols))
	for _, o := range obs {
		args = append(args, o.Pair, o.TS, o.Rate)
	}
	return s.upsert(ctx, "funding_rates", cols,
		[]string{"pair", "ts"}, []string{"rate"}, args, len(obs))
}

// UpsertOpenInterest inserts or replaces open interest observations keyed by (pair, ts).
func (s *PostgresStore) UpsertOpenInterest(ctx context.Context, obs []models.OpenInterestObservation) error {
	cols := []string{"pair", "ts", "value_usd"}
	args := make([]interface{}, 0, len(obs)*len(cols))
	for _, o := range obs {
		args = append(args, o.Pair, o.TS, o.ValueUSD)
	}
	return s.upsert(ctx, "open_interest", cols,
		[]string{"pair", "ts"}, []string{"value_usd"}, args, len(obs))
}

// UpsertVolatility inserts or replaces derived volatility observations keyed by (pair, ts).
func (s *PostgresStore) UpsertVolatility(ctx context.Context, obs []models.VolatilityObservation) error {
	cols := []string{"pair", "ts", "atr"}
	args := make([]interface{}, 0, len(obs)*len(cols))
	for _, o := range obs {
		args = append(args, o.Pair, o.TS, o.ATR)
	}
	return s.upsert(ctx, "volatility", cols,
		[]string{"pair", "ts"}, []string{"atr"}, args, len(obs))
}

// UpsertSentiment inserts or replaces sentiment observations keyed by (pair, ts).
func (s *PostgresStore) UpsertSentiment(ctx context.Context, obs []models.SentimentObservation) error {
	cols := []string{"pair", "ts", "mentions", "score_norm", "keywords"}
	args := make([]interface{}, 0, len(obs)*len(cols))
	for _, o := range obs {
		args = append(args, o.Pair, o.TS, o.Mentions, o.ScoreNorm, o.Keywords)
	}
	return s.upsert(ctx, "sentiment", cols,
		[]string{"pair", "ts"},
		[]string{"mentions", "score_norm", "keywords"},
		args, len(obs))
}

// InsertHeadlines inserts headlines, skipping ids already stored. Headline ids
// are derived from the source URL, so re-ingesting the same feed is a no-op.
func (s *PostgresStore) InsertHeadlines(ctx context.Context, headlines []models.Headline) error {
	cols := []string{"id", "ts", "source", "title", "url", "keywords"}
	args := make([]interface{}, 0, len(headlines)*len(cols))
	for _, h := range headlines {
		args = append(args, h.ID, h.TS, h.Source, h.Title, h.URL, h.Keywords)
	}
	return s.upsert(ctx, "headlines", cols, []string{"id"}, nil, args, len(headlines))
}

// InsertVerdicts appends signal verdicts. The signals table is append-only.
func (s *PostgresStore) InsertVerdicts(ctx context.Context, verdicts []models.SignalVerdict) error {
	cols := []string{"pair", "ts", "regime", "bias", "long_prob", "short_prob", "summary", "profile"}
	args := make([]interface{}, 0, len(verdicts)*len(cols))
	for _, v := range verdicts {
		args = append(args, v.Pair, v.TS, v.Regime, v.Bias, v.LongProb, v.ShortProb, v.Summary, v.Profile)
	}
	return s.upsert(ctx, "signals", cols, nil, nil, args, len(verdicts))
}

// CandlesLastN returns the most recent n candles for a pair in ascending
// timestamp order.
func (s *PostgresStore) CandlesLastN(ctx context.Context, pair string, n int) ([]models.Candle, error) {
	var out []models.Candle
	err := s.db.SelectContext(ctx, &out,
		`SELECT pair, ts, open, high, low, close, volume
		 FROM candles WHERE pair = $1 ORDER BY ts DESC LIMIT $2`, pair, n)
	if err != nil {
		return nil, fmt.Errorf("select candles: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// FundingSince returns funding observations at or after the cutoff, ascending.
func (s *PostgresStore) FundingSince(ctx context.Context, pair string, since time.Time) ([]models.FundingObservation, error) {
	var out []models.FundingObservation
	err := s.db.SelectContext(ctx, &out,
		`SELECT pair, ts, rate FROM funding_rates
		 WHERE pair = $1 AND ts >= $2 ORDER BY ts ASC`, pair, since)
	if err != nil {
		return nil, fmt.Errorf("select funding_rates: %w", err)
	}
	return out, nil
}

// OpenInterestSince returns open interest observations at or after the cutoff, ascending.
func (s *PostgresStore) OpenInterestSince(ctx context.Context, pair string, since time.Time) ([]models.OpenInterestObservation, error) {
	var out []models.OpenInterestObservation
	err := s.db.SelectContext(ctx, &out,
		`SELECT pair, ts, value_usd FROM open_interest
		 WHERE pair = $1 AND ts >= $2 ORDER BY ts ASC`, pair, since)
	if err != nil {
		return nil, fmt.Errorf("select open_interest: %w", err)
	}
	return out, nil
}

// VolatilitySince returns volatility observations at or after the cutoff, ascending.
func (s *PostgresStore) VolatilitySince(ctx context.Context, pair string, since time.Time) ([]models.VolatilityObservation, error) {
	var out []models.VolatilityObservation
	err := s.db.SelectContext(ctx, &out,
		`SELECT pair, ts, atr FROM volatility
		 WHERE pair = $1 AND ts >= $2 ORDER BY ts ASC`, pair, since)
	if err != nil {
		return nil, fmt.Errorf("select volatility: %w", err)
	}
	return out, nil
}

// SentimentSince returns sentiment observations at or after the cutoff, ascending.
func (s *PostgresStore) SentimentSince(ctx context.Context, pair string, since time.Time) ([]models.SentimentObservation, error) {
	var out []models.SentimentObservation
	err := s.db.SelectContext(ctx, &out,
		`SELECT pair, ts, mentions, score_norm, keywords FROM sentiment
		 WHERE pair = $1 AND ts >= $2 ORDER BY ts ASC`, pair, since)
	if err != nil {
		return nil, fmt.Errorf("select sentiment: %w", err)
	}
	return out, nil
}

// Pairs returns the distinct pairs present in the candles table.
func (s *PostgresStore) Pairs(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT pair FROM candles ORDER BY pair`)
	if err != nil {
		return nil, fmt.Errorf("select pairs: %w", err)
	}
	return out, nil
}

// LatestVerdicts returns the most recent verdict per pair. With a non-empty
// pairs filter only those pairs are returned.
func (s *PostgresStore) LatestVerdicts(ctx context.Context, pairs []string) ([]models.SignalVerdict, error) {
	var out []models.SignalVerdict
	var err error
	if len(pairs) > 0 {
		err = s.db.SelectContext(ctx, &out,
			`SELECT DISTINCT ON (pair) pair, ts, regime, bias, long_prob, short_prob, summary, profile
			 FROM signals WHERE pair = ANY($1) ORDER BY pair, ts DESC`, pq.Array(pairs))
	} else {
		err = s.db.SelectContext(ctx, &out,
			`SELECT DISTINCT ON (pair) pair, ts, regime, bias, long_prob, short_prob, summary, profile
			 FROM signals ORDER BY pair, ts DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("select latest verdicts: %w", err)
	}
	return out, nil
}

// Health checks database connectivity.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.client.Close()
}
