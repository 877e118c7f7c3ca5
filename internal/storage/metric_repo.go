package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// MetricRepository implements contracts.MetricRepository.
type MetricRepository struct {
	pool *pgxpool.Pool
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(pool *pgxpool.Pool) *MetricRepository {
	return &MetricRepository{pool: pool}
}

// Upsert inserts or overwrites one snapshot keyed by (symbol, as-of
// date). Re-running the metrics stage within a day overwrites today's
// snapshot rather than duplicating it.
func (r *MetricRepository) Upsert(ctx context.Context, snapshot *contracts.MetricSnapshot) error {
	query := `
		INSERT INTO metric_snapshots (symbol, as_of_date, pe_ratio, ps_ratio, pb_ratio, eps, market_cap)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, as_of_date) DO UPDATE SET
			pe_ratio = EXCLUDED.pe_ratio,
			ps_ratio = EXCLUDED.ps_ratio,
			pb_ratio = EXCLUDED.pb_ratio,
			eps = EXCLUDED.eps,
			market_cap = EXCLUDED.market_cap,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.Symbol, snapshot.Date,
		snapshot.PERatio, snapshot.PSRatio, snapshot.PBRatio, snapshot.EPS, snapshot.MarketCap,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metric snapshot %s %s: %w",
			snapshot.Symbol, snapshot.Date.Format("2006-01-02"), err)
	}

	return nil
}

// ListBySymbol returns all snapshots for a symbol in date order.
func (r *MetricRepository) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.MetricSnapshot, error) {
	query := `
		SELECT symbol, as_of_date, pe_ratio, ps_ratio, pb_ratio, eps, market_cap
		FROM metric_snapshots
		WHERE symbol = $1
		ORDER BY as_of_date
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*contracts.MetricSnapshot
	for rows.Next() {
		var snapshot contracts.MetricSnapshot
		err := rows.Scan(
			&snapshot.Symbol, &snapshot.Date,
			&snapshot.PERatio, &snapshot.PSRatio, &snapshot.PBRatio, &snapshot.EPS, &snapshot.MarketCap,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric snapshot rows: %w", err)
	}

	return snapshots, nil
}
