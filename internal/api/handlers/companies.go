package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// CompanyHandler handles company API endpoints
type CompanyHandler struct {
	companies contracts.CompanyRepository
	logger    *logger.Logger
}

func NewCompanyHandler(companies contracts.CompanyRepository, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		logger:    log,
	}
}

// List returns all onboarded companies
// GET /api/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

// Get returns one company
// GET /api/companies/{symbol}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	company, err := h.companies.GetBySymbol(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get company")
		respondError(w, http.StatusInternalServerError, "Failed to get company")
		return
	}
	if company == nil {
		respondError(w, http.StatusNotFound, "Company not found")
		return
	}

	respondJSON(w, http.StatusOK, company)
}

// pathSymbol extracts and normalizes the symbol path variable.
func pathSymbol(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
}
