package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

const defaultLookbackYears = 2

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// Orchestrator sequences the onboarding stages for one symbol. Stages
// run in contracts.StageOrder; a failed stage is recorded and the run
// moves on. Only invalid input or an unreachable store abort a run.
type Orchestrator struct {
	stages       []contracts.Stage
	store        contracts.StoreHealth
	stageTimeout time.Duration
	defaultYears int
	sink         contracts.ProgressSink
	log          *logger.Logger
}

func NewOrchestrator(store contracts.StoreHealth, stageTimeout time.Duration, log *logger.Logger, stages ...contracts.Stage) *Orchestrator {
	return &Orchestrator{
		stages:       stages,
		store:        store,
		stageTimeout: stageTimeout,
		defaultYears: defaultLookbackYears,
		log:          log,
	}
}

// WithDefaultYears overrides the lookback window applied to requests
// that do not carry one.
func (o *Orchestrator) WithDefaultYears(years int) *Orchestrator {
	if years > 0 {
		o.defaultYears = years
	}
	return o
}

// WithProgress attaches a sink that receives stage events while a run
// executes.
func (o *Orchestrator) WithProgress(sink contracts.ProgressSink) *Orchestrator {
	o.sink = sink
	return o
}

// Run executes the selected stages for req.Symbol. The returned error is
// non-nil only when the run could not start at all; per-stage failures
// live in the result's outcomes.
func (o *Orchestrator) Run(ctx context.Context, req contracts.RunRequest) (*contracts.RunResult, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if !symbolPattern.MatchString(req.Symbol) {
		return nil, &contracts.ValidationError{Field: "symbol", Reason: fmt.Sprintf("%q is not a ticker symbol", req.Symbol)}
	}
	if req.Years < 0 {
		return nil, &contracts.ValidationError{Field: "years", Reason: "lookback years must be positive"}
	}
	if req.Years == 0 {
		req.Years = o.defaultYears
	}

	selected, err := o.selectStages(req.Stages)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = o.store.Ping(pingCtx)
	cancel()
	if err != nil {
		return nil, &contracts.StoreError{Op: "ping", Err: err}
	}

	result := &contracts.RunResult{
		Symbol:    req.Symbol,
		StartedAt: time.Now().UTC(),
	}

	o.log.WithFields(map[string]interface{}{
		"symbol": req.Symbol,
		"years":  req.Years,
		"stages": len(selected),
	}).Info("onboarding run started")

	for _, stage := range o.stages {
		if !selected[stage.Name()] {
			result.Outcomes = append(result.Outcomes, skipped(stage.Name()))
			continue
		}

		o.publish(contracts.StageEvent{
			Symbol:    req.Symbol,
			Stage:     stage.Name(),
			Started:   true,
			Timestamp: time.Now().UTC(),
		})

		outcome := o.runStage(ctx, stage, req)
		result.Outcomes = append(result.Outcomes, outcome)

		o.publish(contracts.StageEvent{
			Symbol:    req.Symbol,
			Stage:     stage.Name(),
			Status:    outcome.Status,
			Detail:    outcome.Detail,
			Timestamp: time.Now().UTC(),
		})

		if outcome.Status == contracts.StageFailed {
			o.log.WithError(outcome.Err).WithField("stage", stage.Name()).
				Warn("stage failed, continuing with remaining stages")
		}
	}

	result.Duration = time.Since(result.StartedAt)

	o.log.WithFields(map[string]interface{}{
		"symbol":      req.Symbol,
		"duration_ms": result.Duration.Milliseconds(),
		"hard_failed": result.HardFailed(),
	}).Info("onboarding run finished")

	return result, nil
}

func (o *Orchestrator) runStage(ctx context.Context, stage contracts.Stage, req contracts.RunRequest) contracts.StageOutcome {
	if o.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.stageTimeout)
		defer cancel()
	}
	return stage.Run(ctx, req)
}

// selectStages resolves the requested stage names to a membership set.
// An empty request selects every configured stage.
func (o *Orchestrator) selectStages(names []string) (map[string]bool, error) {
	selected := make(map[string]bool, len(o.stages))
	if len(names) == 0 {
		for _, stage := range o.stages {
			selected[stage.Name()] = true
		}
		return selected, nil
	}

	known := make(map[string]bool, len(o.stages))
	for _, stage := range o.stages {
		known[stage.Name()] = true
	}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if !known[name] {
			return nil, &contracts.ValidationError{Field: "stages", Reason: fmt.Sprintf("unknown stage %q", name)}
		}
		selected[name] = true
	}
	return selected, nil
}

func (o *Orchestrator) publish(event contracts.StageEvent) {
	if o.sink != nil {
		o.sink.Publish(event)
	}
}
