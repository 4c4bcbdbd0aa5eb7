package models

import "time"

// Candle is a single OHLCV bar. Timestamps are hour-aligned UTC; one row
// per (pair, ts).
type Candle struct {
	Pair   string    `db:"pair" json:"pair"`
	TS     time.Time `db:"ts" json:"ts"`
	Open   float64   `db:"open" json:"open"`
	High   float64   `db:"high" json:"high"`
	Low    float64   `db:"low" json:"low"`
	Close  float64   `db:"close" json:"close"`
	Volume float64   `db:"volume" json:"volume"`
}

// FundingObservation is a perpetual funding rate sample. Rate is a signed
// fraction (0.0001 = 1bp).
type FundingObservation struct {
	Pair string    `db:"pair" json:"pair"`
	TS   time.Time `db:"ts" json:"ts"`
	Rate float64   `db:"rate" json:"rate"`
}

// OpenInterestObservation is an open interest sample in USD notional.
type OpenInterestObservation struct {
	Pair     string    `db:"pair" json:"pair"`
	TS       time.Time `db:"ts" json:"ts"`
	ValueUSD float64   `db:"value_usd" json:"value_usd"`
}

// VolatilityObservation is an ATR-like scalar derived from a trailing
// window of candles.
type VolatilityObservation struct {
	Pair string    `db:"pair" json:"pair"`
	TS   time.Time `db:"ts" json:"ts"`
	ATR  float64   `db:"atr" json:"atr"`
}

// SentimentObservation is a market-chatter sample: mention count, a
// polarity score normalized into [-1, 1], and per-keyword hit counts
// (open vocabulary).
type SentimentObservation struct {
	Pair      string       `db:"pair" json:"pair"`
	TS        time.Time    `db:"ts" json:"ts"`
	Mentions  int          `db:"mentions" json:"mentions"`
	ScoreNorm float64      `db:"score_norm" json:"score_norm"`
	Keywords  KeywordCount `db:"keywords" json:"keywords"`
}

// Headline is a news item. Not pair-scoped; ID is derived from the URL so
// re-ingesting the same story is a no-op.
type Headline struct {
	ID       int64       `db:"id" json:"id"`
	TS       time.Time   `db:"ts" json:"ts"`
	Source   string      `db:"source" json:"source"`
	Title    string      `db:"title" json:"title"`
	URL      string      `db:"url" json:"url"`
	Keywords KeywordList `db:"keywords" json:"keywords"`
}
