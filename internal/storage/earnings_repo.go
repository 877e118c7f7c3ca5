package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// EarningsRepository implements contracts.EarningsRepository.
type EarningsRepository struct {
	pool *pgxpool.Pool
}

// NewEarningsRepository creates a new earnings repository.
func NewEarningsRepository(pool *pgxpool.Pool) *EarningsRepository {
	return &EarningsRepository{pool: pool}
}

// UpsertTranscript inserts or refreshes the transcript for one call,
// keyed by (symbol, call date). The summary and state columns are left
// untouched on conflict: refreshing a transcript never drops a summary
// that has already been generated.
func (r *EarningsRepository) UpsertTranscript(ctx context.Context, call *contracts.EarningsCall) error {
	query := `
		INSERT INTO earnings_calls (symbol, call_date, quarter, year, transcript, word_count, state)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		ON CONFLICT (symbol, call_date) DO UPDATE SET
			quarter = EXCLUDED.quarter,
			year = EXCLUDED.year,
			transcript = EXCLUDED.transcript,
			word_count = EXCLUDED.word_count,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		call.Symbol, call.CallDate, call.Quarter, call.Year,
		call.Transcript, call.WordCount, contracts.CallTranscriptOnly,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transcript %s %s: %w",
			call.Symbol, call.CallDate.Format("2006-01-02"), err)
	}

	return nil
}

// SetSummary stores the summary for a call and moves it to the
// summarized state.
func (r *EarningsRepository) SetSummary(ctx context.Context, symbol string, callDate time.Time, summary string) error {
	query := `
		UPDATE earnings_calls
		SET summary = $3, state = $4, updated_at = NOW()
		WHERE symbol = $1 AND call_date = $2
	`

	tag, err := r.pool.Exec(ctx, query, symbol, callDate, summary, contracts.CallSummarized)
	if err != nil {
		return fmt.Errorf("failed to set summary %s %s: %w",
			symbol, callDate.Format("2006-01-02"), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("earnings call %s %s not found",
			symbol, callDate.Format("2006-01-02"))
	}

	return nil
}

// GetBySymbolAndDate returns one call, or nil if absent.
func (r *EarningsRepository) GetBySymbolAndDate(ctx context.Context, symbol string, callDate time.Time) (*contracts.EarningsCall, error) {
	query := `
		SELECT symbol, call_date, COALESCE(quarter, ''), COALESCE(year, 0),
			transcript, word_count, COALESCE(summary, ''), state, created_at, updated_at
		FROM earnings_calls
		WHERE symbol = $1 AND call_date = $2
	`

	var call contracts.EarningsCall
	err := r.pool.QueryRow(ctx, query, symbol, callDate).Scan(
		&call.Symbol, &call.CallDate, &call.Quarter, &call.Year,
		&call.Transcript, &call.WordCount, &call.Summary, &call.State,
		&call.CreatedAt, &call.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get earnings call %s %s: %w",
			symbol, callDate.Format("2006-01-02"), err)
	}

	return &call, nil
}

// ListBySymbol returns all calls for a symbol in call-date order.
func (r *EarningsRepository) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.EarningsCall, error) {
	query := `
		SELECT symbol, call_date, COALESCE(quarter, ''), COALESCE(year, 0),
			transcript, word_count, COALESCE(summary, ''), state, created_at, updated_at
		FROM earnings_calls
		WHERE symbol = $1
		ORDER BY call_date
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings calls: %w", err)
	}
	defer rows.Close()

	var calls []*contracts.EarningsCall
	for rows.Next() {
		var call contracts.EarningsCall
		err := rows.Scan(
			&call.Symbol, &call.CallDate, &call.Quarter, &call.Year,
			&call.Transcript, &call.WordCount, &call.Summary, &call.State,
			&call.CreatedAt, &call.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan earnings call row: %w", err)
		}
		calls = append(calls, &call)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earnings call rows: %w", err)
	}

	return calls, nil
}
