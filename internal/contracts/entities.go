package contracts

import "time"

// Company is the onboarded company record, keyed by ticker symbol.
// Writes are last-write-wins upserts by symbol.
type Company struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Sector    string   `json:"sector,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceBar is one daily OHLCV bar, keyed by (symbol, trade date).
// The keyed upsert guarantees at most one bar per symbol and day.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// MetricSnapshot is a point-in-time ratio snapshot, keyed by
// (symbol, as-of date). Missing ratios stay nil; a non-profitable
// company simply has no EPS.
type MetricSnapshot struct {
	Symbol    string    `json:"symbol"`
	Date      time.Time `json:"date"`
	PERatio   *float64  `json:"pe_ratio,omitempty"`
	PSRatio   *float64  `json:"ps_ratio,omitempty"`
	PBRatio   *float64  `json:"pb_ratio,omitempty"`
	EPS       *float64  `json:"eps,omitempty"`
	MarketCap *float64  `json:"market_cap,omitempty"`
}

// CallState is the summarization state of an earnings call.
// An absent row is the implicit third state; a persisted row is always
// transcript_only or summarized, and only moves forward.
type CallState string

const (
	CallTranscriptOnly CallState = "transcript_only"
	CallSummarized     CallState = "summarized"
)

// Valid reports whether s is a known persisted state.
func (s CallState) Valid() bool {
	return s == CallTranscriptOnly || s == CallSummarized
}

// EarningsCall is one earnings call, keyed by (symbol, call date).
// The transcript is fetched first; the summary is filled in by an
// independently retryable second phase.
type EarningsCall struct {
	Symbol     string    `json:"symbol"`
	CallDate   time.Time `json:"call_date"`
	Quarter    string    `json:"quarter,omitempty"`
	Year       int       `json:"year,omitempty"`
	Transcript string    `json:"transcript"`
	WordCount  int       `json:"word_count"`
	Summary    string    `json:"summary,omitempty"`
	State      CallState `json:"state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summarized reports whether the call has completed both phases.
func (c *EarningsCall) Summarized() bool {
	return c.State == CallSummarized
}
