package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

const upsertBarQuery = `
	INSERT INTO price_bars (symbol, trade_date, open, high, low, close, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (symbol, trade_date) DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		updated_at = NOW()
`

// Upsert inserts or overwrites one bar keyed by (symbol, trade date).
func (r *PriceRepository) Upsert(ctx context.Context, bar *contracts.PriceBar) error {
	_, err := r.pool.Exec(ctx, upsertBarQuery,
		bar.Symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert price bar %s %s: %w",
			bar.Symbol, bar.Date.Format("2006-01-02"), err)
	}
	return nil
}

// UpsertBatch writes a series of bars in one transaction.
func (r *PriceRepository) UpsertBatch(ctx context.Context, bars []*contracts.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, bar := range bars {
		_, err := tx.Exec(ctx, upsertBarQuery,
			bar.Symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert price bar %s %s: %w",
				bar.Symbol, bar.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit price batch: %w", err)
	}

	return nil
}

// ListBySymbol returns all bars for a symbol in date order.
func (r *PriceRepository) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.PriceBar, error) {
	query := `
		SELECT symbol, trade_date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = $1
		ORDER BY trade_date
	`
	return r.queryBars(ctx, query, symbol)
}

// ListBySymbolAndRange returns bars within [from, to] in date order.
func (r *PriceRepository) ListBySymbolAndRange(ctx context.Context, symbol string, from, to time.Time) ([]*contracts.PriceBar, error) {
	query := `
		SELECT symbol, trade_date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date
	`
	return r.queryBars(ctx, query, symbol, from, to)
}

func (r *PriceRepository) queryBars(ctx context.Context, query string, args ...interface{}) ([]*contracts.PriceBar, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var bars []*contracts.PriceBar
	for rows.Next() {
		var bar contracts.PriceBar
		err := rows.Scan(&bar.Symbol, &bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price bar row: %w", err)
		}
		bars = append(bars, &bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price bar rows: %w", err)
	}

	return bars, nil
}

// isNoRows reports whether err means an empty result set.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
