// Package storage implements the repository contracts on PostgreSQL via
// pgx. Every write is an INSERT ... ON CONFLICT DO UPDATE keyed the way
// the entity is keyed, so re-running any stage converges instead of
// duplicating.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// CompanyRepository implements contracts.CompanyRepository.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Upsert inserts or updates a company keyed by symbol. Last write wins.
func (r *CompanyRepository) Upsert(ctx context.Context, company *contracts.Company) error {
	query := `
		INSERT INTO companies (symbol, name, sector, industry, market_cap)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			market_cap = EXCLUDED.market_cap,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		company.Symbol, company.Name, company.Sector, company.Industry, company.MarketCap,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", company.Symbol, err)
	}

	return nil
}

// GetBySymbol returns the company for a symbol, or nil if absent.
func (r *CompanyRepository) GetBySymbol(ctx context.Context, symbol string) (*contracts.Company, error) {
	query := `
		SELECT symbol, name, COALESCE(sector, ''), COALESCE(industry, ''), market_cap, created_at, updated_at
		FROM companies
		WHERE symbol = $1
	`

	var company contracts.Company
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&company.Symbol, &company.Name, &company.Sector, &company.Industry,
		&company.MarketCap, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company %s: %w", symbol, err)
	}

	return &company, nil
}

// List returns all companies ordered by symbol.
func (r *CompanyRepository) List(ctx context.Context) ([]*contracts.Company, error) {
	query := `
		SELECT symbol, name, COALESCE(sector, ''), COALESCE(industry, ''), market_cap, created_at, updated_at
		FROM companies
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []*contracts.Company
	for rows.Next() {
		var company contracts.Company
		err := rows.Scan(
			&company.Symbol, &company.Name, &company.Sector, &company.Industry,
			&company.MarketCap, &company.CreatedAt, &company.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, &company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}
