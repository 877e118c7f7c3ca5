package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/external/defeatbeta"
	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/database"
	"github.com/tickerlab/research/backend/pkg/httputil"
	"github.com/tickerlab/research/backend/pkg/logger"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Verify connectivity and apply the schema",
	Long: `Connects to PostgreSQL, applies the schema (CREATE TABLE IF
NOT EXISTS, safe to re-run), and reports pool health.

Example:
  go run ./cmd/tickerctl setup`,
	RunE: runSetup,
}

var setupProbe bool

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&setupProbe, "probe", false, "also probe the market data provider")
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerlab setup ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection OK")

	if err := db.ApplySchema(cmd.Context()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	fmt.Println("✅ Schema applied")

	health, err := db.HealthCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"response_time": health.ResponseTime,
		"total_conns":   health.Stats.TotalConns,
		"idle_conns":    health.Stats.IdleConns,
	}).Info("Database pool healthy")

	if setupProbe {
		httpClient := httputil.NewWithTimeout(log, cfg.Provider.Timeout)
		provider := defeatbeta.NewClient(httpClient, cfg.Provider.BaseURL, log)
		if _, err := provider.FetchCompanyProfile(cmd.Context(), "AAPL"); err != nil {
			fmt.Printf("❌ Provider probe failed: %v\n", err)
		} else {
			fmt.Println("✅ Provider reachable")
		}
	}

	fmt.Println("\nReady. Onboard a ticker with:")
	fmt.Println("  go run ./cmd/tickerctl full AAPL")
	return nil
}
