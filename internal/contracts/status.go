package contracts

import "time"

// Entity kinds reported by the status reconciler.
const (
	KindCompany  = "company"
	KindPrices   = "prices"
	KindMetrics  = "metrics"
	KindEarnings = "earnings"
)

// DateRange is the observed [Min, Max] span of a time series.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// KindStatus describes how much of one entity kind exists for a symbol.
type KindStatus struct {
	Present     bool       `json:"present"`
	RecordCount int        `json:"record_count"`
	DateRange   *DateRange `json:"date_range,omitempty"`

	// Earnings only: split by summarization state.
	TranscriptOnly int `json:"transcript_only,omitempty"`
	Summarized     int `json:"summarized,omitempty"`

	// Whether the kind meets its completeness threshold (for prices, the
	// observed span covers the requested years).
	Complete bool `json:"complete"`
}

// IngestionStatus is the derived completeness view for a symbol. It is
// never persisted: it is recomputed from store contents on every call,
// so it can never go stale.
type IngestionStatus struct {
	Symbol     string                `json:"symbol"`
	Kinds      map[string]KindStatus `json:"kinds"`
	ComputedAt time.Time             `json:"computed_at"`
}

// Kind returns the status for an entity kind, zero-valued if unknown.
func (s *IngestionStatus) Kind(kind string) KindStatus {
	return s.Kinds[kind]
}
