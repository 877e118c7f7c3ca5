package database

import (
	"context"
	"fmt"
)

// schema holds the DDL for all entity tables. Every table is keyed the way
// the onboarding pipeline upserts: companies by symbol, time series by
// (symbol, date). ON CONFLICT targets rely on these constraints.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	symbol      TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	sector      TEXT,
	industry    TEXT,
	market_cap  DOUBLE PRECISION,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS price_bars (
	symbol      TEXT NOT NULL,
	trade_date  DATE NOT NULL,
	open        DOUBLE PRECISION NOT NULL,
	high        DOUBLE PRECISION NOT NULL,
	low         DOUBLE PRECISION NOT NULL,
	close       DOUBLE PRECISION NOT NULL,
	volume      BIGINT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (symbol, trade_date)
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	symbol      TEXT NOT NULL,
	as_of_date  DATE NOT NULL,
	pe_ratio    DOUBLE PRECISION,
	ps_ratio    DOUBLE PRECISION,
	pb_ratio    DOUBLE PRECISION,
	eps         DOUBLE PRECISION,
	market_cap  DOUBLE PRECISION,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (symbol, as_of_date)
);

CREATE TABLE IF NOT EXISTS earnings_calls (
	symbol         TEXT NOT NULL,
	call_date      DATE NOT NULL,
	quarter        TEXT,
	year           INT,
	transcript     TEXT NOT NULL,
	word_count     INT NOT NULL DEFAULT 0,
	summary        TEXT,
	state          TEXT NOT NULL DEFAULT 'transcript_only',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (symbol, call_date)
);
`

// ApplySchema creates the entity tables if they do not exist.
func (db *DB) ApplySchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
