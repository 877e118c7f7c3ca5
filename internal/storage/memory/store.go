// Package memory provides in-memory implementations of the repository
// contracts. Used in tests and for running the pipeline without a
// database; semantics (keyed upserts, no deletes) match the pgx
// repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
)

const dayKey = "2006-01-02"

// Store holds all entity kinds behind one mutex. A single upsert is
// atomic, which is all the pipeline requires.
type Store struct {
	mu        sync.RWMutex
	companies map[string]*contracts.Company
	prices    map[string]map[string]*contracts.PriceBar      // symbol -> date -> bar
	metrics   map[string]map[string]*contracts.MetricSnapshot // symbol -> date -> snapshot
	earnings  map[string]map[string]*contracts.EarningsCall   // symbol -> date -> call
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		companies: make(map[string]*contracts.Company),
		prices:    make(map[string]map[string]*contracts.PriceBar),
		metrics:   make(map[string]map[string]*contracts.MetricSnapshot),
		earnings:  make(map[string]map[string]*contracts.EarningsCall),
	}
}

// Ping always succeeds; the in-memory store is never unreachable.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Companies returns the company repository view of the store.
func (s *Store) Companies() contracts.CompanyRepository { return (*companyRepo)(s) }

// Prices returns the price repository view of the store.
func (s *Store) Prices() contracts.PriceRepository { return (*priceRepo)(s) }

// Metrics returns the metric repository view of the store.
func (s *Store) Metrics() contracts.MetricRepository { return (*metricRepo)(s) }

// Earnings returns the earnings repository view of the store.
func (s *Store) Earnings() contracts.EarningsRepository { return (*earningsRepo)(s) }

type companyRepo Store

func (r *companyRepo) Upsert(ctx context.Context, company *contracts.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	clone := *company
	clone.UpdatedAt = now
	if existing, ok := r.companies[company.Symbol]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = now
	}
	r.companies[company.Symbol] = &clone
	return nil
}

func (r *companyRepo) GetBySymbol(ctx context.Context, symbol string) (*contracts.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, ok := r.companies[symbol]
	if !ok {
		return nil, nil
	}
	clone := *company
	return &clone, nil
}

func (r *companyRepo) List(ctx context.Context) ([]*contracts.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*contracts.Company, 0, len(r.companies))
	for _, company := range r.companies {
		clone := *company
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

type priceRepo Store

func (r *priceRepo) Upsert(ctx context.Context, bar *contracts.PriceBar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(bar)
	return nil
}

func (r *priceRepo) UpsertBatch(ctx context.Context, bars []*contracts.PriceBar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bar := range bars {
		r.upsertLocked(bar)
	}
	return nil
}

func (r *priceRepo) upsertLocked(bar *contracts.PriceBar) {
	if r.prices[bar.Symbol] == nil {
		r.prices[bar.Symbol] = make(map[string]*contracts.PriceBar)
	}
	clone := *bar
	r.prices[bar.Symbol][bar.Date.Format(dayKey)] = &clone
}

func (r *priceRepo) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.PriceBar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*contracts.PriceBar, 0, len(r.prices[symbol]))
	for _, bar := range r.prices[symbol] {
		clone := *bar
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *priceRepo) ListBySymbolAndRange(ctx context.Context, symbol string, from, to time.Time) ([]*contracts.PriceBar, error) {
	bars, err := r.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	out := make([]*contracts.PriceBar, 0, len(bars))
	for _, bar := range bars {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		out = append(out, bar)
	}
	return out, nil
}

type metricRepo Store

func (r *metricRepo) Upsert(ctx context.Context, snapshot *contracts.MetricSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.metrics[snapshot.Symbol] == nil {
		r.metrics[snapshot.Symbol] = make(map[string]*contracts.MetricSnapshot)
	}
	clone := *snapshot
	r.metrics[snapshot.Symbol][snapshot.Date.Format(dayKey)] = &clone
	return nil
}

func (r *metricRepo) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.MetricSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*contracts.MetricSnapshot, 0, len(r.metrics[symbol]))
	for _, snapshot := range r.metrics[symbol] {
		clone := *snapshot
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type earningsRepo Store

func (r *earningsRepo) UpsertTranscript(ctx context.Context, call *contracts.EarningsCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.earnings[call.Symbol] == nil {
		r.earnings[call.Symbol] = make(map[string]*contracts.EarningsCall)
	}

	key := call.CallDate.Format(dayKey)
	now := time.Now()

	clone := *call
	clone.State = contracts.CallTranscriptOnly
	clone.Summary = ""
	clone.CreatedAt = now
	clone.UpdatedAt = now

	// A refreshed transcript never loses an existing summary.
	if existing, ok := r.earnings[call.Symbol][key]; ok {
		clone.Summary = existing.Summary
		clone.State = existing.State
		clone.CreatedAt = existing.CreatedAt
	}

	r.earnings[call.Symbol][key] = &clone
	return nil
}

func (r *earningsRepo) SetSummary(ctx context.Context, symbol string, callDate time.Time, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := callDate.Format(dayKey)
	call, ok := r.earnings[symbol][key]
	if !ok {
		return fmt.Errorf("earnings call %s %s not found", symbol, key)
	}

	call.Summary = summary
	call.State = contracts.CallSummarized
	call.UpdatedAt = time.Now()
	return nil
}

func (r *earningsRepo) GetBySymbolAndDate(ctx context.Context, symbol string, callDate time.Time) (*contracts.EarningsCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	call, ok := r.earnings[symbol][callDate.Format(dayKey)]
	if !ok {
		return nil, nil
	}
	clone := *call
	return &clone, nil
}

func (r *earningsRepo) ListBySymbol(ctx context.Context, symbol string) ([]*contracts.EarningsCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*contracts.EarningsCall, 0, len(r.earnings[symbol]))
	for _, call := range r.earnings[symbol] {
		clone := *call
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallDate.Before(out[j].CallDate) })
	return out, nil
}
