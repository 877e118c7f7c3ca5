package contracts

import (
	"context"
	"time"
)

// Stage names in the fixed execution order.
const (
	StageCompany  = "company"
	StagePrice    = "price"
	StageMetrics  = "metrics"
	StageEarnings = "earnings"
)

// StageOrder is the fixed order stages execute and report in.
var StageOrder = []string{StageCompany, StagePrice, StageMetrics, StageEarnings}

// StageStatus is the outcome classification of one stage.
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
)

// RunRequest describes one onboarding run for a symbol.
type RunRequest struct {
	Symbol string

	// Company metadata supplied by the caller. Name is required when the
	// company stage is selected.
	Name      string
	Sector    string
	Industry  string
	MarketCap *float64

	// Lookback window for prices and earnings calls.
	Years int

	// Stages selected for this run; empty means all, in StageOrder.
	Stages []string
}

// StageOutcome is the recorded result of one stage.
type StageOutcome struct {
	Stage          string      `json:"stage"`
	Status         StageStatus `json:"status"`
	Detail         string      `json:"detail,omitempty"`
	RecordsWritten int         `json:"records_written"`

	// Err holds the classified failure, nil on success. It never
	// propagates past the orchestrator boundary.
	Err error `json:"-"`
}

// RunResult aggregates the outcomes of one onboarding run, reported in
// StageOrder.
type RunResult struct {
	Symbol    string         `json:"symbol"`
	Outcomes  []StageOutcome `json:"outcomes"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

// Outcome returns the outcome for a stage name, or nil if the stage did
// not run.
func (r *RunResult) Outcome(stage string) *StageOutcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].Stage == stage {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// HardFailed reports whether any executed stage failed for a reason other
// than missing upstream data.
func (r *RunResult) HardFailed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StageFailed && !IsNoData(o.Err) {
			return true
		}
	}
	return false
}

// Stage is one independently failable unit of the onboarding pipeline.
// Implementations are idempotent: re-running with the same request
// converges to the same persisted state.
type Stage interface {
	Name() string
	Run(ctx context.Context, req RunRequest) StageOutcome
}

// StageEvent is a progress notification published while a run executes.
type StageEvent struct {
	Symbol    string      `json:"symbol"`
	Stage     string      `json:"stage"`
	Status    StageStatus `json:"status,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Started   bool        `json:"started,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProgressSink receives stage events during a run. Implementations must
// not block for long; publishing happens on the run path.
type ProgressSink interface {
	Publish(event StageEvent)
}
