package commands

import (
	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// Single-stage commands. Each one re-runs exactly one pipeline stage,
// which is how gaps from a partially failed full run get repaired.

var stageYears int

var companyCmd = &cobra.Command{
	Use:   "company [symbol]",
	Short: "Register or refresh company metadata for a ticker",
	Long: `Fetches the company profile from the provider and upserts the
company record. Use --name to override the provider's profile, or to
onboard a ticker the provider has no profile for.

Example:
  go run ./cmd/tickerctl company AAPL
  go run ./cmd/tickerctl company NEWCO --name "New Company Inc."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req := contracts.RunRequest{
			Symbol:   args[0],
			Name:     companyName,
			Sector:   companySector,
			Industry: companyIndustry,
			Stages:   []string{contracts.StageCompany},
		}
		if cmd.Flags().Changed("market-cap") {
			req.MarketCap = &companyMarketCap
		}

		result, err := a.orchestrator.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		printRunResult(result)
		return nil
	},
}

var (
	companyName      string
	companySector    string
	companyIndustry  string
	companyMarketCap float64
)

var pricesCmd = &cobra.Command{
	Use:   "prices [symbol]",
	Short: "Fetch and store daily price history for a ticker",
	Long: `Fetches daily OHLCV bars for the lookback window and upserts
them by (symbol, trade date). Existing bars for the same dates are
overwritten; re-running with a wider window only adds rows.

Example:
  go run ./cmd/tickerctl prices AAPL --years 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args[0], stageYears, contracts.StagePrice)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics [symbol]",
	Short: "Fetch and store the latest valuation ratios for a ticker",
	Long: `Fetches the provider's current ratio snapshot (P/E, P/S, P/B,
EPS, market cap) and stores it keyed by (symbol, as-of date). One
snapshot per day; same-day re-runs overwrite.

Example:
  go run ./cmd/tickerctl metrics AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args[0], stageYears, contracts.StageMetrics)
	},
}

var earningsCmd = &cobra.Command{
	Use:   "earnings [symbol]",
	Short: "Fetch, store and summarize earnings call transcripts",
	Long: `Lists the provider's earnings calls in the lookback window and
processes each one in two phases: persist the transcript, then
summarize it with the LLM. A call whose transcript is already stored
is not refetched; a call stuck without a summary gets it backfilled.

Example:
  go run ./cmd/tickerctl earnings AAPL --years 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args[0], stageYears, contracts.StageEarnings)
	},
}

func init() {
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(earningsCmd)

	companyCmd.Flags().StringVar(&companyName, "name", "", "company name override")
	companyCmd.Flags().StringVar(&companySector, "sector", "", "company sector")
	companyCmd.Flags().StringVar(&companyIndustry, "industry", "", "company industry")
	companyCmd.Flags().Float64Var(&companyMarketCap, "market-cap", 0, "company market capitalization")

	for _, cmd := range []*cobra.Command{pricesCmd, earningsCmd} {
		cmd.Flags().IntVar(&stageYears, "years", 0, "lookback years (default from config)")
	}
}
