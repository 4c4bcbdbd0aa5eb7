package postgres

// SchemaStatements is the idempotent DDL for the market data store. Rows
// are created by ingestion and never deleted here; retention is an
// external concern.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candles (
		pair text NOT NULL,
		ts timestamptz NOT NULL,
		open double precision,
		high double precision,
		low double precision,
		close double precision,
		volume double precision,
		PRIMARY KEY (pair, ts)
	)`,
	`CREATE TABLE IF NOT EXISTS funding_rates (
		pair text NOT NULL,
		ts timestamptz NOT NULL,
		rate double precision,
		PRIMARY KEY (pair, ts)
	)`,
	`CREATE TABLE IF NOT EXISTS open_interest (
		pair text NOT NULL,
		ts timestamptz NOT NULL,
		value_usd double precision,
		PRIMARY KEY (pair, ts)
	)`,
	`CREATE TABLE IF NOT EXISTS volatility (
		pair text NOT NULL,
		ts timestamptz NOT NULL,
		atr double precision,
		PRIMARY KEY (pair, ts)
	)`,
	`CREATE TABLE IF NOT EXISTS sentiment (
		pair text NOT NULL,
		ts timestamptz NOT NULL,
		mentions integer,
		score_norm double precision,
		keywords jsonb,
		PRIMARY KEY (pair, ts)
	)`,
	`CREATE TABLE IF NOT EXISTS headlines (
		id bigint PRIMARY KEY,
		ts timestamptz NOT NULL,
		source text,
		title text,
		url text,
		keywords jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS signals (
		id bigserial PRIMARY KEY,
		ts timestamptz NOT NULL,
		pair text NOT NULL,
		regime text,
		bias text,
		long_prob double precision,
		short_prob double precision,
		summary text,
		profile text
	)`,
	`CREATE INDEX IF NOT EXISTS signals_pair_ts_idx ON signals (pair, ts DESC)`,
}
