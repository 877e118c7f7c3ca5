package handlers

import (
	"net/http"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// DataHandler serves the stored time series for a symbol.
type DataHandler struct {
	prices   contracts.PriceRepository
	metrics  contracts.MetricRepository
	earnings contracts.EarningsRepository
	logger   *logger.Logger
}

func NewDataHandler(
	prices contracts.PriceRepository,
	metrics contracts.MetricRepository,
	earnings contracts.EarningsRepository,
	log *logger.Logger,
) *DataHandler {
	return &DataHandler{
		prices:   prices,
		metrics:  metrics,
		earnings: earnings,
		logger:   log,
	}
}

// GetPrices returns stored price bars, optionally bounded by
// from/to query parameters (YYYY-MM-DD).
// GET /api/companies/{symbol}/prices
func (h *DataHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	var (
		bars []*contracts.PriceBar
		err  error
	)
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr != "" || toStr != "" {
		from, to, perr := parseWindow(fromStr, toStr)
		if perr != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
			return
		}
		bars, err = h.prices.ListBySymbolAndRange(r.Context(), symbol, from, to)
	} else {
		bars, err = h.prices.ListBySymbol(r.Context(), symbol)
	}
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to list prices")
		respondError(w, http.StatusInternalServerError, "Failed to list prices")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
		"bars":   bars,
	})
}

// GetMetrics returns stored ratio snapshots, newest last.
// GET /api/companies/{symbol}/metrics
func (h *DataHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	snapshots, err := h.metrics.ListBySymbol(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to list metrics")
		respondError(w, http.StatusInternalServerError, "Failed to list metrics")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"count":     len(snapshots),
		"snapshots": snapshots,
	})
}

// earningsCallView is the list representation of a call. Transcripts
// run to tens of thousands of words, so the list endpoint carries the
// word count and summary only.
type earningsCallView struct {
	Symbol    string              `json:"symbol"`
	CallDate  time.Time           `json:"call_date"`
	Quarter   string              `json:"quarter,omitempty"`
	Year      int                 `json:"year,omitempty"`
	WordCount int                 `json:"word_count"`
	Summary   string              `json:"summary,omitempty"`
	State     contracts.CallState `json:"state"`
}

// GetEarnings returns stored earnings calls without transcripts.
// GET /api/companies/{symbol}/earnings
func (h *DataHandler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	calls, err := h.earnings.ListBySymbol(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to list earnings calls")
		respondError(w, http.StatusInternalServerError, "Failed to list earnings calls")
		return
	}

	views := make([]earningsCallView, 0, len(calls))
	for _, call := range calls {
		views = append(views, earningsCallView{
			Symbol:    call.Symbol,
			CallDate:  call.CallDate,
			Quarter:   call.Quarter,
			Year:      call.Year,
			WordCount: call.WordCount,
			Summary:   call.Summary,
			State:     call.State,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(views),
		"calls":  views,
	})
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now().UTC()
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
