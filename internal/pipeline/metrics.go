package pipeline

import (
	"context"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// MetricStage fetches the provider's latest valuation ratios and
// stores them as a dated snapshot. One snapshot per symbol per day;
// re-running on the same day overwrites that day's snapshot.
type MetricStage struct {
	metrics  contracts.MetricRepository
	provider contracts.ProviderClient
	log      *logger.Logger
	now      func() time.Time
}

func NewMetricStage(metrics contracts.MetricRepository, provider contracts.ProviderClient, log *logger.Logger) *MetricStage {
	return &MetricStage{
		metrics:  metrics,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

func (s *MetricStage) Name() string {
	return contracts.StageMetrics
}

func (s *MetricStage) Run(ctx context.Context, req contracts.RunRequest) contracts.StageOutcome {
	snapshot, err := s.provider.FetchLatestMetrics(ctx, req.Symbol)
	if err != nil {
		return failure(s.Name(), &contracts.ProviderError{Op: "metrics " + req.Symbol, Err: err})
	}
	if snapshot == nil {
		return failure(s.Name(), &contracts.NoDataError{
			Kind:   contracts.KindMetrics,
			Symbol: req.Symbol,
		})
	}

	snapshot.Symbol = req.Symbol
	if snapshot.Date.IsZero() {
		snapshot.Date = s.now().UTC().Truncate(24 * time.Hour)
	}

	if err := s.metrics.Upsert(ctx, snapshot); err != nil {
		return failure(s.Name(), &contracts.StoreError{Op: "upsert metric snapshot", Err: err})
	}

	s.log.WithFields(map[string]interface{}{
		"symbol": req.Symbol,
		"as_of":  snapshot.Date.Format("2006-01-02"),
	}).Debug("metric stage complete")

	return success(s.Name(), 1, "snapshot as of %s", snapshot.Date.Format("2006-01-02"))
}
