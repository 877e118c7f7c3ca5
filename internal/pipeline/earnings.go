package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// EarningsStage syncs earnings calls in two phases per call: persist
// the transcript, then summarize it. Each call is isolated; one bad
// transcript or summarizer hiccup never blocks the rest. Calls that
// already hold a transcript are not refetched, and calls stuck in the
// transcript-only state get their summary backfilled on the next run.
type EarningsStage struct {
	earnings   contracts.EarningsRepository
	provider   contracts.ProviderClient
	summarizer contracts.Summarizer
	log        *logger.Logger
	now        func() time.Time
}

// NewEarningsStage builds the stage. A nil summarizer disables the
// second phase; calls then stay transcript-only.
func NewEarningsStage(earnings contracts.EarningsRepository, provider contracts.ProviderClient, summarizer contracts.Summarizer, log *logger.Logger) *EarningsStage {
	return &EarningsStage{
		earnings:   earnings,
		provider:   provider,
		summarizer: summarizer,
		log:        log,
		now:        time.Now,
	}
}

func (s *EarningsStage) Name() string {
	return contracts.StageEarnings
}

func (s *EarningsStage) Run(ctx context.Context, req contracts.RunRequest) contracts.StageOutcome {
	to := s.now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(-req.Years, 0, 0)

	dates, err := s.provider.ListEarningsCallDates(ctx, req.Symbol, from, to)
	if err != nil {
		return failure(s.Name(), &contracts.ProviderError{Op: "earnings dates " + req.Symbol, Err: err})
	}
	if len(dates) == 0 {
		return failure(s.Name(), &contracts.NoDataError{
			Kind:   contracts.KindEarnings,
			Symbol: req.Symbol,
		})
	}

	var (
		processed int
		failures  []error
	)
	for _, callDate := range dates {
		if err := s.syncCall(ctx, req.Symbol, callDate); err != nil {
			failures = append(failures, err)
			s.log.WithError(err).WithFields(map[string]interface{}{
				"symbol":    req.Symbol,
				"call_date": callDate.Format("2006-01-02"),
			}).Warn("earnings call failed, continuing with remaining calls")
			continue
		}
		processed++
	}

	if processed == 0 {
		return failure(s.Name(), fmt.Errorf("all %d earnings calls failed: %w", len(dates), failures[0]))
	}

	detail := fmt.Sprintf("processed %d of %d calls", processed, len(dates))
	outcome := success(s.Name(), processed, "%s", detail)
	if len(failures) > 0 {
		outcome.Detail = fmt.Sprintf("%s (%d failed: %v)", detail, len(failures), failures[0])
	}
	return outcome
}

// syncCall runs both phases for a single call date.
func (s *EarningsStage) syncCall(ctx context.Context, symbol string, callDate time.Time) error {
	call, err := s.earnings.GetBySymbolAndDate(ctx, symbol, callDate)
	if err != nil {
		return &contracts.StoreError{Op: "get earnings call", Err: err}
	}

	if call == nil {
		raw, err := s.provider.FetchTranscript(ctx, symbol, callDate)
		if err != nil {
			return &contracts.ProviderError{Op: "transcript " + symbol, Err: err}
		}
		transcript := normalizeTranscript(raw)
		if transcript == "" {
			return &contracts.NoDataError{Kind: contracts.KindEarnings, Symbol: symbol}
		}
		call = &contracts.EarningsCall{
			Symbol:     symbol,
			CallDate:   callDate,
			Quarter:    fiscalQuarter(callDate),
			Year:       callDate.Year(),
			Transcript: transcript,
			WordCount:  wordCount(transcript),
			State:      contracts.CallTranscriptOnly,
		}
		if err := s.earnings.UpsertTranscript(ctx, call); err != nil {
			return &contracts.StoreError{Op: "upsert transcript", Err: err}
		}
	}

	if call.Summarized() || s.summarizer == nil {
		return nil
	}

	summary, err := s.summarizer.Summarize(ctx, call.Transcript)
	if err != nil {
		return &contracts.SummarizerError{Symbol: symbol, CallDate: callDate, Err: err}
	}
	if err := s.earnings.SetSummary(ctx, symbol, callDate, summary); err != nil {
		return &contracts.StoreError{Op: "set summary", Err: err}
	}
	return nil
}

// fiscalQuarter labels a call date by calendar quarter, e.g. "Q3".
// Providers report fiscal quarters inconsistently across companies,
// so the calendar quarter of the call date is used throughout.
func fiscalQuarter(d time.Time) string {
	return fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1)
}
