package pipeline

import (
	"context"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// PriceStage pulls daily price history for the requested window and
// writes it bar by key. Bars already in the store for the same trade
// date are overwritten, never duplicated, so widening or repeating
// the window only adds rows.
type PriceStage struct {
	prices   contracts.PriceRepository
	provider contracts.ProviderClient
	log      *logger.Logger
	now      func() time.Time
}

func NewPriceStage(prices contracts.PriceRepository, provider contracts.ProviderClient, log *logger.Logger) *PriceStage {
	return &PriceStage{
		prices:   prices,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

func (s *PriceStage) Name() string {
	return contracts.StagePrice
}

func (s *PriceStage) Run(ctx context.Context, req contracts.RunRequest) contracts.StageOutcome {
	to := s.now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(-req.Years, 0, 0)

	bars, err := s.provider.FetchPriceBars(ctx, req.Symbol, from, to)
	if err != nil {
		return failure(s.Name(), &contracts.ProviderError{Op: "prices " + req.Symbol, Err: err})
	}
	if len(bars) == 0 {
		return failure(s.Name(), &contracts.NoDataError{
			Kind:   contracts.KindPrices,
			Symbol: req.Symbol,
		})
	}

	for i := range bars {
		bars[i].Symbol = req.Symbol
	}

	if err := s.prices.UpsertBatch(ctx, bars); err != nil {
		return failure(s.Name(), &contracts.StoreError{Op: "upsert price bars", Err: err})
	}

	s.log.WithFields(map[string]interface{}{
		"symbol": req.Symbol,
		"bars":   len(bars),
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}).Debug("price stage complete")

	return success(s.Name(), len(bars), "wrote %d bars (%s to %s)",
		len(bars), from.Format("2006-01-02"), to.Format("2006-01-02"))
}
