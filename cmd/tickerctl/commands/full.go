package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/contracts"
)

var fullCmd = &cobra.Command{
	Use:   "full [symbol]",
	Short: "Run the complete onboarding pipeline for a ticker",
	Long: `Runs all four stages for a ticker: company metadata, price
history, valuation ratios, and earnings call transcripts with
summaries.

Each stage is independent; a failed stage is reported and the run
continues. Re-running converges to the same stored state, so this
command doubles as a gap-filler for a partially onboarded ticker.

Example:
  go run ./cmd/tickerctl full AAPL --name "Apple Inc." --years 2
  go run ./cmd/tickerctl full MSFT`,
	Args: cobra.ExactArgs(1),
	RunE: runFull,
}

var (
	fullName      string
	fullSector    string
	fullIndustry  string
	fullMarketCap float64
	fullYears     int
	fullStages    []string
)

func init() {
	rootCmd.AddCommand(fullCmd)

	fullCmd.Flags().StringVar(&fullName, "name", "", "company name (fetched from the provider profile when omitted)")
	fullCmd.Flags().StringVar(&fullSector, "sector", "", "company sector")
	fullCmd.Flags().StringVar(&fullIndustry, "industry", "", "company industry")
	fullCmd.Flags().Float64Var(&fullMarketCap, "market-cap", 0, "company market capitalization")
	fullCmd.Flags().IntVar(&fullYears, "years", 0, "lookback years for prices and earnings (default from config)")
	fullCmd.Flags().StringSliceVar(&fullStages, "stages", nil, "run only these stages (company,price,metrics,earnings)")
}

func runFull(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := contracts.RunRequest{
		Symbol:   args[0],
		Name:     fullName,
		Sector:   fullSector,
		Industry: fullIndustry,
		Years:    fullYears,
		Stages:   fullStages,
	}
	if cmd.Flags().Changed("market-cap") {
		req.MarketCap = &fullMarketCap
	}

	result, err := a.orchestrator.Run(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("onboard %s: %w", args[0], err)
	}

	printRunResult(result)

	if result.HardFailed() {
		fmt.Println("\nSome stages failed; re-run this command to fill the gaps.")
	}
	return nil
}
