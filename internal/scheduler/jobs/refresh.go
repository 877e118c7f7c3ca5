// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// Onboarder runs the onboarding pipeline for one symbol.
type Onboarder interface {
	Run(ctx context.Context, req contracts.RunRequest) (*contracts.RunResult, error)
}

// RefreshJob re-runs the price and metrics stages for every onboarded
// company, keeping daily series current. Earnings and company metadata
// move slowly enough that weekday refreshes would mostly be no-ops, so
// they are left to manual runs.
type RefreshJob struct {
	companies contracts.CompanyRepository
	onboarder Onboarder
	schedule  string
	years     int
	logger    *logger.Logger
}

func NewRefreshJob(companies contracts.CompanyRepository, onboarder Onboarder, schedule string, years int, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		companies: companies,
		onboarder: onboarder,
		schedule:  schedule,
		years:     years,
		logger:    log,
	}
}

func (j *RefreshJob) Name() string {
	return "daily-refresh"
}

func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes each company in turn. One company failing does not
// stop the sweep; the job reports failure at the end so the scheduler
// retries.
func (j *RefreshJob) Run(ctx context.Context) error {
	companies, err := j.companies.List(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	if len(companies) == 0 {
		j.logger.Info("No companies onboarded, nothing to refresh")
		return nil
	}

	failed := 0
	for _, company := range companies {
		result, err := j.onboarder.Run(ctx, contracts.RunRequest{
			Symbol: company.Symbol,
			Years:  j.years,
			Stages: []string{contracts.StagePrice, contracts.StageMetrics},
		})
		if err != nil {
			j.logger.WithError(err).WithField("symbol", company.Symbol).Error("Refresh run aborted")
			failed++
			continue
		}
		if result.HardFailed() {
			j.logger.WithField("symbol", company.Symbol).Warn("Refresh run had stage failures")
			failed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"companies": len(companies),
		"failed":    failed,
	}).Info("Refresh sweep finished")

	if failed > 0 {
		return fmt.Errorf("refresh failed for %d of %d companies", failed, len(companies))
	}
	return nil
}
