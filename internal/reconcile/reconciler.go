// Package reconcile derives ingestion completeness for a symbol from
// what is actually in the store. Nothing here is cached or persisted;
// every call reads the repositories and recomputes, so the answer is
// always consistent with the data even after manual fixes or partially
// failed runs.
package reconcile

import (
	"context"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// priceCoverageSlack allows for weekends, market holidays and listing
// gaps when judging whether the observed price span covers the
// requested lookback window.
const priceCoverageSlack = 14 * 24 * time.Hour

// Reconciler computes IngestionStatus views.
type Reconciler struct {
	companies contracts.CompanyRepository
	prices    contracts.PriceRepository
	metrics   contracts.MetricRepository
	earnings  contracts.EarningsRepository
	now       func() time.Time
}

func New(companies contracts.CompanyRepository, prices contracts.PriceRepository, metrics contracts.MetricRepository, earnings contracts.EarningsRepository) *Reconciler {
	return &Reconciler{
		companies: companies,
		prices:    prices,
		metrics:   metrics,
		earnings:  earnings,
		now:       time.Now,
	}
}

// Status reports per-kind presence, counts, date ranges and
// completeness for symbol, judged against a lookback of years.
func (r *Reconciler) Status(ctx context.Context, symbol string, years int) (*contracts.IngestionStatus, error) {
	status := &contracts.IngestionStatus{
		Symbol:     symbol,
		Kinds:      make(map[string]contracts.KindStatus, 4),
		ComputedAt: r.now().UTC(),
	}

	company, err := r.companies.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, &contracts.StoreError{Op: "get company", Err: err}
	}
	companyStatus := contracts.KindStatus{}
	if company != nil {
		companyStatus = contracts.KindStatus{Present: true, RecordCount: 1, Complete: true}
	}
	status.Kinds[contracts.KindCompany] = companyStatus

	bars, err := r.prices.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, &contracts.StoreError{Op: "list price bars", Err: err}
	}
	status.Kinds[contracts.KindPrices] = r.priceStatus(bars, years)

	snapshots, err := r.metrics.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, &contracts.StoreError{Op: "list metric snapshots", Err: err}
	}
	metricStatus := contracts.KindStatus{
		Present:     len(snapshots) > 0,
		RecordCount: len(snapshots),
		Complete:    len(snapshots) > 0,
	}
	if len(snapshots) > 0 {
		metricStatus.DateRange = &contracts.DateRange{
			Min: snapshots[0].Date,
			Max: snapshots[len(snapshots)-1].Date,
		}
	}
	status.Kinds[contracts.KindMetrics] = metricStatus

	calls, err := r.earnings.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, &contracts.StoreError{Op: "list earnings calls", Err: err}
	}
	status.Kinds[contracts.KindEarnings] = earningsStatus(calls)

	return status, nil
}

func (r *Reconciler) priceStatus(bars []*contracts.PriceBar, years int) contracts.KindStatus {
	s := contracts.KindStatus{
		Present:     len(bars) > 0,
		RecordCount: len(bars),
	}
	if len(bars) == 0 {
		return s
	}

	// Repositories return bars ordered by trade date.
	span := &contracts.DateRange{Min: bars[0].Date, Max: bars[len(bars)-1].Date}
	s.DateRange = span

	wantFrom := r.now().UTC().AddDate(-years, 0, 0)
	s.Complete = !span.Min.After(wantFrom.Add(priceCoverageSlack)) &&
		span.Max.After(r.now().UTC().Add(-priceCoverageSlack))
	return s
}

// earningsStatus splits calls by summarization state. The kind is
// complete only when every stored call has reached the summarized
// state.
func earningsStatus(calls []*contracts.EarningsCall) contracts.KindStatus {
	s := contracts.KindStatus{
		Present:     len(calls) > 0,
		RecordCount: len(calls),
	}
	if len(calls) == 0 {
		return s
	}

	s.DateRange = &contracts.DateRange{
		Min: calls[0].CallDate,
		Max: calls[len(calls)-1].CallDate,
	}
	for _, call := range calls {
		if call.Summarized() {
			s.Summarized++
		} else {
			s.TranscriptOnly++
		}
	}
	s.Complete = s.TranscriptOnly == 0
	return s
}
