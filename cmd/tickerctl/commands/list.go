package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List onboarded companies",
	Long: `Lists every company in the store with its sector.

Example:
  go run ./cmd/tickerctl list`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	companies, err := a.companies.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies onboarded yet.")
		return nil
	}

	fmt.Printf("%-8s %-32s %s\n", "SYMBOL", "NAME", "SECTOR")
	for _, c := range companies {
		fmt.Printf("%-8s %-32s %s\n", c.Symbol, c.Name, c.Sector)
	}
	fmt.Printf("\n%d company(ies)\n", len(companies))
	return nil
}
