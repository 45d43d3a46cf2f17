package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxsession",
	Short: "An OANDA paper-trading session runner and market data toolkit",
	Long: `Fxsession connects to the OANDA v20 practice API and runs short,
self-contained FX demo sessions.

It provides tools for:
  - Inspecting account summaries and tradeable instruments
  - Fetching historical candles and spot pricing
  - Streaming live prices with tick statistics
  - Running a moving-average mean-reversion paper session
  - Simulated order management (market, limit, stop, SL/TP)
  - Diagnosing API credential problems

Credentials are read from OANDA_API_KEY, OANDA_ACCOUNT_ID and
OANDA_ENVIRONMENT (or a .env file in the working directory).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
