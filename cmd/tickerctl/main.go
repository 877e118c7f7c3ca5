package main

import (
	"os"

	"github.com/tickerlab/research/backend/cmd/tickerctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
