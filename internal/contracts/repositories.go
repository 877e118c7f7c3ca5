package contracts

import (
	"context"
	"time"
)

// Repository interfaces are defined here; implementations live in
// internal/storage (pgx) and internal/storage/memory (tests, demos).
// Every write is a keyed upsert and must be atomic per call; the
// pipeline never deletes.

// CompanyRepository manages company records keyed by symbol.
type CompanyRepository interface {
	Upsert(ctx context.Context, company *Company) error
	GetBySymbol(ctx context.Context, symbol string) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
}

// PriceRepository manages daily price bars keyed by (symbol, trade date).
type PriceRepository interface {
	Upsert(ctx context.Context, bar *PriceBar) error
	UpsertBatch(ctx context.Context, bars []*PriceBar) error
	ListBySymbol(ctx context.Context, symbol string) ([]*PriceBar, error)
	ListBySymbolAndRange(ctx context.Context, symbol string, from, to time.Time) ([]*PriceBar, error)
}

// MetricRepository manages ratio snapshots keyed by (symbol, as-of date).
type MetricRepository interface {
	Upsert(ctx context.Context, snapshot *MetricSnapshot) error
	ListBySymbol(ctx context.Context, symbol string) ([]*MetricSnapshot, error)
}

// EarningsRepository manages earnings calls keyed by (symbol, call date).
// UpsertTranscript never clobbers an existing summary; SetSummary moves a
// call to the summarized state.
type EarningsRepository interface {
	UpsertTranscript(ctx context.Context, call *EarningsCall) error
	SetSummary(ctx context.Context, symbol string, callDate time.Time, summary string) error
	GetBySymbolAndDate(ctx context.Context, symbol string, callDate time.Time) (*EarningsCall, error)
	ListBySymbol(ctx context.Context, symbol string) ([]*EarningsCall, error)
}

// StoreHealth lets the orchestrator verify the store is reachable before
// a run. An unreachable store aborts the whole run.
type StoreHealth interface {
	Ping(ctx context.Context) error
}

// ProviderClient is the narrow contract against the upstream
// financial-data provider. Empty results are not errors; transport
// failures are.
type ProviderClient interface {
	FetchCompanyProfile(ctx context.Context, symbol string) (*Company, error)
	FetchPriceBars(ctx context.Context, symbol string, from, to time.Time) ([]*PriceBar, error)
	FetchLatestMetrics(ctx context.Context, symbol string) (*MetricSnapshot, error)
	ListEarningsCallDates(ctx context.Context, symbol string, from, to time.Time) ([]time.Time, error)
	FetchTranscript(ctx context.Context, symbol string, callDate time.Time) (string, error)
}

// Summarizer condenses a transcript into a natural-language summary.
// It may fail or time out; no determinism across calls is guaranteed.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
