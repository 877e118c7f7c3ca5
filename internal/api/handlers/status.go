package handlers

import (
	"net/http"
	"strconv"

	"github.com/tickerlab/research/backend/internal/reconcile"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// StatusHandler serves the derived ingestion status. The answer is
// recomputed from the store on every request.
type StatusHandler struct {
	reconciler   *reconcile.Reconciler
	defaultYears int
	logger       *logger.Logger
}

func NewStatusHandler(reconciler *reconcile.Reconciler, defaultYears int, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		reconciler:   reconciler,
		defaultYears: defaultYears,
		logger:       log,
	}
}

// Get returns per-kind completeness for a symbol.
// GET /api/companies/{symbol}/status?years=2
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	years := h.defaultYears
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'years' parameter")
			return
		}
		years = parsed
	}

	status, err := h.reconciler.Status(r.Context(), symbol, years)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to compute status")
		respondError(w, http.StatusInternalServerError, "Failed to compute status")
		return
	}

	respondJSON(w, http.StatusOK, status)
}
