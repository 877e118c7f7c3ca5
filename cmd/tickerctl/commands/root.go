package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tickerctl",
	Short: "Ticker onboarding pipeline for the research store",
	Long: `tickerctl drives the ticker onboarding pipeline: company
metadata, daily price history, valuation ratios, and earnings call
transcripts with LLM summaries, all persisted to PostgreSQL.

Every stage is an idempotent upsert keyed by (symbol, date), so any
command can be re-run at any time to fill gaps or refresh data.

Examples:
  go run ./cmd/tickerctl setup
  go run ./cmd/tickerctl full AAPL --name "Apple Inc." --years 2
  go run ./cmd/tickerctl prices AAPL
  go run ./cmd/tickerctl earnings AAPL
  go run ./cmd/tickerctl status AAPL
  go run ./cmd/tickerctl api`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
