package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/internal/external/defeatbeta"
	"github.com/tickerlab/research/backend/internal/pipeline"
	"github.com/tickerlab/research/backend/internal/reconcile"
	"github.com/tickerlab/research/backend/internal/storage"
	"github.com/tickerlab/research/backend/internal/summarize"
	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/database"
	"github.com/tickerlab/research/backend/pkg/httputil"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// app bundles the wired application for one command invocation.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB

	companies contracts.CompanyRepository
	prices    contracts.PriceRepository
	metrics   contracts.MetricRepository
	earnings  contracts.EarningsRepository

	provider     contracts.ProviderClient
	orchestrator *pipeline.Orchestrator
	reconciler   *reconcile.Reconciler
}

// newApp loads config and wires the full stack: database, provider
// client, stages, orchestrator and reconciler.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	httpClient := httputil.NewWithTimeout(log, cfg.Provider.Timeout).
		WithRateLimit(cfg.Provider.RateLimit, cfg.Provider.RateBurst)
	provider := defeatbeta.NewClient(httpClient, cfg.Provider.BaseURL, log)

	companies := storage.NewCompanyRepository(db.Pool)
	prices := storage.NewPriceRepository(db.Pool)
	metrics := storage.NewMetricRepository(db.Pool)
	earnings := storage.NewEarningsRepository(db.Pool)

	var summarizer contracts.Summarizer
	if cfg.Summarizer.Enabled {
		s, err := summarize.New(cfg, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("init summarizer: %w", err)
		}
		summarizer = s
	} else {
		log.Warn("Summarizer disabled, earnings calls will stay transcript-only")
	}

	orchestrator := pipeline.NewOrchestrator(db, cfg.Pipeline.StageTimeout, log,
		pipeline.NewCompanyStage(companies, provider, log),
		pipeline.NewPriceStage(prices, provider, log),
		pipeline.NewMetricStage(metrics, provider, log),
		pipeline.NewEarningsStage(earnings, provider, summarizer, log),
	).WithDefaultYears(cfg.Pipeline.DefaultYears)

	return &app{
		cfg:          cfg,
		log:          log,
		db:           db,
		companies:    companies,
		prices:       prices,
		metrics:      metrics,
		earnings:     earnings,
		provider:     provider,
		orchestrator: orchestrator,
		reconciler:   reconcile.New(companies, prices, metrics, earnings),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// printRunResult renders one onboarding run to stdout.
func printRunResult(result *contracts.RunResult) {
	fmt.Printf("\n%s (%s)\n", result.Symbol, result.Duration.Round(time.Millisecond))
	for _, o := range result.Outcomes {
		marker := "✅"
		switch o.Status {
		case contracts.StageFailed:
			marker = "❌"
			if contracts.IsNoData(o.Err) {
				marker = "⚠️ "
			}
		case contracts.StageSkipped:
			marker = "⏭️ "
		}
		fmt.Printf("  %s %-9s %s\n", marker, o.Stage, o.Detail)
	}
}

// printStatus renders the derived ingestion status to stdout.
func printStatus(status *contracts.IngestionStatus, years int) {
	fmt.Printf("\n%s (lookback %dy, computed %s)\n",
		status.Symbol, years, status.ComputedAt.Format(time.RFC3339))

	for _, kind := range []string{contracts.KindCompany, contracts.KindPrices, contracts.KindMetrics, contracts.KindEarnings} {
		ks := status.Kind(kind)
		marker := "❌"
		if ks.Complete {
			marker = "✅"
		} else if ks.Present {
			marker = "⚠️ "
		}

		line := fmt.Sprintf("  %s %-8s %d record(s)", marker, kind, ks.RecordCount)
		if ks.DateRange != nil {
			line += fmt.Sprintf("  [%s → %s]",
				ks.DateRange.Min.Format("2006-01-02"), ks.DateRange.Max.Format("2006-01-02"))
		}
		if kind == contracts.KindEarnings && ks.Present {
			line += fmt.Sprintf("  (%d summarized, %d transcript-only)", ks.Summarized, ks.TranscriptOnly)
		}
		fmt.Println(line)
	}
}

// runStages runs a subset of the pipeline for one symbol and prints
// the result. Missing upstream data is reported but is not a command
// failure; bad input and an unreachable store are.
func runStages(cmd *cobra.Command, symbol string, years int, stages ...string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.orchestrator.Run(cmd.Context(), contracts.RunRequest{
		Symbol: symbol,
		Years:  years,
		Stages: stages,
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", strings.ToUpper(symbol), err)
	}

	printRunResult(result)
	return nil
}
