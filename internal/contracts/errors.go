package contracts

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy for the onboarding pipeline. Failures are classified at
// the smallest meaningful unit: per call for earnings, per stage for the
// rest. Only ValidationError on top-level input and total store
// unavailability abort a run.

// ValidationError reports bad input. Not retryable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProviderError reports a failed upstream fetch. Stage-local.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NoDataError reports that the upstream returned nothing for a symbol or
// range. Recorded as a stage outcome, but expected for thinly covered
// tickers rather than a system fault.
type NoDataError struct {
	Symbol string
	Kind   string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no %s data for %s", e.Kind, e.Symbol)
}

// SummarizerError reports a failed summarization for one call. The
// transcript stays persisted; the summary can be retried later.
type SummarizerError struct {
	Symbol   string
	CallDate time.Time
	Err      error
}

func (e *SummarizerError) Error() string {
	return fmt.Sprintf("summarize %s call %s: %v", e.Symbol, e.CallDate.Format("2006-01-02"), e.Err)
}

func (e *SummarizerError) Unwrap() error { return e.Err }

// StoreError reports a failed persistence operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}

// IsProvider reports whether err is a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
