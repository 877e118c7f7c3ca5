package memory

import (
	"context"
	"testing"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestPriceUpsertIsKeyed(t *testing.T) {
	ctx := context.Background()
	store := New()
	prices := store.Prices()

	bar := &contracts.PriceBar{Symbol: "NVDA", Date: day("2025-01-02"), Close: 100, Volume: 10}
	if err := prices.Upsert(ctx, bar); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	// Overlapping upsert with a corrected close must overwrite, not duplicate.
	corrected := &contracts.PriceBar{Symbol: "NVDA", Date: day("2025-01-02"), Close: 101, Volume: 10}
	if err := prices.Upsert(ctx, corrected); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	bars, err := prices.ListBySymbol(ctx, "NVDA")
	if err != nil {
		t.Fatalf("ListBySymbol() failed: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if bars[0].Close != 101 {
		t.Errorf("expected corrected close 101, got %f", bars[0].Close)
	}
}

func TestListBySymbolAndRange(t *testing.T) {
	ctx := context.Background()
	store := New()
	prices := store.Prices()

	for _, d := range []string{"2025-01-02", "2025-01-03", "2025-02-01"} {
		_ = prices.Upsert(ctx, &contracts.PriceBar{Symbol: "NVDA", Date: day(d), Close: 1})
	}

	bars, err := prices.ListBySymbolAndRange(ctx, "NVDA", day("2025-01-01"), day("2025-01-31"))
	if err != nil {
		t.Fatalf("ListBySymbolAndRange() failed: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("expected 2 bars in January, got %d", len(bars))
	}
}

func TestEarningsTranscriptThenSummary(t *testing.T) {
	ctx := context.Background()
	store := New()
	earnings := store.Earnings()
	callDate := day("2025-03-15")

	call := &contracts.EarningsCall{Symbol: "NVDA", CallDate: callDate, Transcript: "hello", WordCount: 1}
	if err := earnings.UpsertTranscript(ctx, call); err != nil {
		t.Fatalf("UpsertTranscript() failed: %v", err)
	}

	got, err := earnings.GetBySymbolAndDate(ctx, "NVDA", callDate)
	if err != nil {
		t.Fatalf("GetBySymbolAndDate() failed: %v", err)
	}
	if got.State != contracts.CallTranscriptOnly {
		t.Errorf("expected transcript_only state, got %s", got.State)
	}

	if err := earnings.SetSummary(ctx, "NVDA", callDate, "a summary"); err != nil {
		t.Fatalf("SetSummary() failed: %v", err)
	}

	got, _ = earnings.GetBySymbolAndDate(ctx, "NVDA", callDate)
	if got.State != contracts.CallSummarized {
		t.Errorf("expected summarized state, got %s", got.State)
	}
	if got.Summary != "a summary" {
		t.Errorf("expected summary to be set, got %q", got.Summary)
	}
}

func TestTranscriptRefreshKeepsSummary(t *testing.T) {
	ctx := context.Background()
	store := New()
	earnings := store.Earnings()
	callDate := day("2025-03-15")

	_ = earnings.UpsertTranscript(ctx, &contracts.EarningsCall{Symbol: "NVDA", CallDate: callDate, Transcript: "v1"})
	_ = earnings.SetSummary(ctx, "NVDA", callDate, "summary")

	// A second transcript upsert (provider correction) keeps the summary.
	_ = earnings.UpsertTranscript(ctx, &contracts.EarningsCall{Symbol: "NVDA", CallDate: callDate, Transcript: "v2"})

	got, _ := earnings.GetBySymbolAndDate(ctx, "NVDA", callDate)
	if got.Transcript != "v2" {
		t.Errorf("expected refreshed transcript, got %q", got.Transcript)
	}
	if got.State != contracts.CallSummarized || got.Summary != "summary" {
		t.Errorf("refresh must not drop the summary: state=%s summary=%q", got.State, got.Summary)
	}
}

func TestSetSummaryMissingCall(t *testing.T) {
	store := New()
	err := store.Earnings().SetSummary(context.Background(), "NVDA", day("2025-03-15"), "s")
	if err == nil {
		t.Error("expected error for missing call, got nil")
	}
}

func TestCompanyUpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := New()
	companies := store.Companies()

	_ = companies.Upsert(ctx, &contracts.Company{Symbol: "NVDA", Name: "NVIDIA Corp"})
	_ = companies.Upsert(ctx, &contracts.Company{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology"})

	got, err := companies.GetBySymbol(ctx, "NVDA")
	if err != nil {
		t.Fatalf("GetBySymbol() failed: %v", err)
	}
	if got.Name != "NVIDIA Corporation" || got.Sector != "Technology" {
		t.Errorf("expected last write to win, got %+v", got)
	}

	all, _ := companies.List(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 company, got %d", len(all))
	}
}
