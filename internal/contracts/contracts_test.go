package contracts

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCallStateValid(t *testing.T) {
	tests := []struct {
		state CallState
		want  bool
	}{
		{CallTranscriptOnly, true},
		{CallSummarized, true},
		{CallState("absent"), false},
		{CallState(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	providerErr := &ProviderError{Op: "fetch prices", Err: errors.New("timeout")}
	wrapped := fmt.Errorf("price stage: %w", providerErr)

	if !IsProvider(wrapped) {
		t.Error("IsProvider() should match a wrapped ProviderError")
	}
	if IsNoData(wrapped) {
		t.Error("IsNoData() should not match a ProviderError")
	}

	noData := &NoDataError{Symbol: "ZZZZ", Kind: "price"}
	if !IsNoData(fmt.Errorf("wrapped: %w", noData)) {
		t.Error("IsNoData() should match a wrapped NoDataError")
	}

	if !IsValidation(&ValidationError{Field: "name", Reason: "empty"}) {
		t.Error("IsValidation() should match a ValidationError")
	}

	if !IsStore(&StoreError{Op: "upsert company", Err: errors.New("broken pipe")}) {
		t.Error("IsStore() should match a StoreError")
	}
}

func TestRunResultOutcome(t *testing.T) {
	result := &RunResult{
		Symbol: "NVDA",
		Outcomes: []StageOutcome{
			{Stage: StageCompany, Status: StageSuccess, RecordsWritten: 1},
			{Stage: StagePrice, Status: StageFailed, Err: &NoDataError{Symbol: "NVDA", Kind: "price"}},
		},
	}

	if o := result.Outcome(StageCompany); o == nil || o.Status != StageSuccess {
		t.Errorf("Outcome(company) = %+v, want success", o)
	}
	if o := result.Outcome(StageEarnings); o != nil {
		t.Errorf("Outcome(earnings) = %+v, want nil", o)
	}
}

func TestRunResultHardFailed(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []StageOutcome
		want     bool
	}{
		{
			name: "all success",
			outcomes: []StageOutcome{
				{Stage: StageCompany, Status: StageSuccess},
				{Stage: StagePrice, Status: StageSuccess},
			},
			want: false,
		},
		{
			name: "no-data failure is soft",
			outcomes: []StageOutcome{
				{Stage: StagePrice, Status: StageFailed, Err: &NoDataError{Symbol: "ZZZZ", Kind: "price"}},
			},
			want: false,
		},
		{
			name: "provider failure is hard",
			outcomes: []StageOutcome{
				{Stage: StagePrice, Status: StageFailed, Err: &ProviderError{Op: "fetch prices", Err: errors.New("boom")}},
			},
			want: true,
		},
		{
			name: "skipped stages never fail",
			outcomes: []StageOutcome{
				{Stage: StageEarnings, Status: StageSkipped},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RunResult{Outcomes: tt.outcomes}
			if got := r.HardFailed(); got != tt.want {
				t.Errorf("HardFailed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIngestionStatusKind(t *testing.T) {
	status := &IngestionStatus{
		Symbol: "NVDA",
		Kinds: map[string]KindStatus{
			KindPrices: {Present: true, RecordCount: 250},
		},
		ComputedAt: time.Now(),
	}

	if got := status.Kind(KindPrices); !got.Present || got.RecordCount != 250 {
		t.Errorf("Kind(prices) = %+v, want present with 250 records", got)
	}
	if got := status.Kind(KindEarnings); got.Present {
		t.Errorf("Kind(earnings) = %+v, want zero value", got)
	}
}
