package pipeline

import (
	"context"
	"strings"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// CompanyStage registers or refreshes the company row for a symbol.
// When the run request carries no metadata, the stage asks the
// provider for the company profile; caller-supplied fields win over
// provider fields.
type CompanyStage struct {
	companies contracts.CompanyRepository
	provider  contracts.ProviderClient
	log       *logger.Logger
}

func NewCompanyStage(companies contracts.CompanyRepository, provider contracts.ProviderClient, log *logger.Logger) *CompanyStage {
	return &CompanyStage{
		companies: companies,
		provider:  provider,
		log:       log,
	}
}

func (s *CompanyStage) Name() string {
	return contracts.StageCompany
}

func (s *CompanyStage) Run(ctx context.Context, req contracts.RunRequest) contracts.StageOutcome {
	company := &contracts.Company{
		Symbol:    req.Symbol,
		Name:      strings.TrimSpace(req.Name),
		Sector:    strings.TrimSpace(req.Sector),
		Industry:  strings.TrimSpace(req.Industry),
		MarketCap: req.MarketCap,
	}

	if company.Name == "" {
		profile, err := s.provider.FetchCompanyProfile(ctx, req.Symbol)
		if err != nil {
			return failure(s.Name(), &contracts.ProviderError{Op: "profile " + req.Symbol, Err: err})
		}
		if profile == nil || strings.TrimSpace(profile.Name) == "" {
			return failure(s.Name(), &contracts.ValidationError{
				Field:  "name",
				Reason: "company name is required and the provider has no profile for " + req.Symbol,
			})
		}
		company.Name = strings.TrimSpace(profile.Name)
		if company.Sector == "" {
			company.Sector = profile.Sector
		}
		if company.Industry == "" {
			company.Industry = profile.Industry
		}
		if company.MarketCap == nil {
			company.MarketCap = profile.MarketCap
		}
	}

	if err := s.companies.Upsert(ctx, company); err != nil {
		return failure(s.Name(), &contracts.StoreError{Op: "upsert company", Err: err})
	}

	s.log.WithFields(map[string]interface{}{
		"symbol": req.Symbol,
		"name":   company.Name,
	}).Debug("company stage complete")

	return success(s.Name(), 1, "registered %s (%s)", req.Symbol, company.Name)
}
