// Package commands wires the riskengine CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "riskengine",
	Short: "Monte Carlo portfolio risk engine",
	Long: `Monte Carlo Risk Engine

Simulates correlated multi-asset return paths from historical statistics
and summarizes the downside tail as VaR, CVaR, and drawdown statistics.

Examples:
  riskengine run --tickers BTCUSDT,ETHUSDT --days 20 --paths 20000
  riskengine api
  riskengine schedule --cron "0 0 7 * * *"`,
}

// Execute runs the root command. Called by main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
