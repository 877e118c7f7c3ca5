// Package pipeline implements the ticker onboarding pipeline: four
// idempotent stage runners and the orchestrator that sequences them.
// Each stage fetches from the provider and upserts into the store by
// key, so any stage can be re-run safely at any time.
package pipeline

import (
	"fmt"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// success builds a successful stage outcome.
func success(stage string, records int, format string, args ...interface{}) contracts.StageOutcome {
	return contracts.StageOutcome{
		Stage:          stage,
		Status:         contracts.StageSuccess,
		Detail:         fmt.Sprintf(format, args...),
		RecordsWritten: records,
	}
}

// failure builds a failed stage outcome carrying the classified error.
func failure(stage string, err error) contracts.StageOutcome {
	return contracts.StageOutcome{
		Stage:  stage,
		Status: contracts.StageFailed,
		Detail: err.Error(),
		Err:    err,
	}
}

// skipped builds the outcome for a stage not selected for this run.
func skipped(stage string) contracts.StageOutcome {
	return contracts.StageOutcome{
		Stage:  stage,
		Status: contracts.StageSkipped,
		Detail: "not selected",
	}
}
