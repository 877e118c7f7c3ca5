package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/api"
	"github.com/tickerlab/research/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API over the research store.

Endpoints:
  GET  /health                              - Health check
  GET  /api/companies                       - List onboarded companies
  GET  /api/companies/{symbol}              - One company
  GET  /api/companies/{symbol}/prices       - Stored price bars (?from=&to=)
  GET  /api/companies/{symbol}/metrics      - Stored ratio snapshots
  GET  /api/companies/{symbol}/earnings     - Stored earnings calls
  GET  /api/companies/{symbol}/status       - Derived ingestion status (?years=)
  POST /api/onboarding/{symbol}             - Trigger an onboarding run
  GET  /api/onboarding/{symbol}/progress    - Stage progress (websocket)

Example:
  go run ./cmd/tickerctl api
  go run ./cmd/tickerctl api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerlab API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := handlers.NewProgressHub(a.log)
	a.orchestrator.WithProgress(hub)

	companyHandler := handlers.NewCompanyHandler(a.companies, a.log)
	dataHandler := handlers.NewDataHandler(a.prices, a.metrics, a.earnings, a.log)
	statusHandler := handlers.NewStatusHandler(a.reconciler, a.cfg.Pipeline.DefaultYears, a.log)
	onboardingHandler := handlers.NewOnboardingHandler(a.orchestrator, hub, runTimeout(a.cfg.Pipeline.StageTimeout), a.log)

	router := api.NewRouter(companyHandler, dataHandler, statusHandler, onboardingHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}

// runTimeout bounds a whole background run: four stages plus headroom
// for summarization.
func runTimeout(stageTimeout time.Duration) time.Duration {
	return 5 * stageTimeout
}
