package commands

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [symbol]",
	Short: "Show ingestion completeness for a ticker",
	Long: `Computes per-kind completeness for a ticker straight from the
store: record counts, date ranges, and the summarization split for
earnings calls. Nothing is cached; the answer always reflects current
store contents.

Example:
  go run ./cmd/tickerctl status AAPL
  go run ./cmd/tickerctl status AAPL --years 5`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

var statusYears int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusYears, "years", 0, "lookback years to judge price coverage against (default from config)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	years := statusYears
	if years <= 0 {
		years = a.cfg.Pipeline.DefaultYears
	}

	symbol := normalizeSymbol(args[0])
	status, err := a.reconciler.Status(cmd.Context(), symbol, years)
	if err != nil {
		return err
	}

	printStatus(status, years)
	return nil
}
