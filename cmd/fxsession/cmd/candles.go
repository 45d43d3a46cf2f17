package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/oanda"
)

var candlesCmd = &cobra.Command{
	Use:   "candles",
	Short: "Fetch historical candles for an instrument",
	Long: `Fetch recent candles from the OANDA instruments endpoint and print
them with close-price statistics.

Example:
  fxsession candles --instrument EUR_USD --granularity H1 --count 24`,
	RunE: runCandles,
}

var (
	candlesInstrument  string
	candlesGranularity string
	candlesCount       int
	candlesPrice       string
)

func init() {
	rootCmd.AddCommand(candlesCmd)

	candlesCmd.Flags().StringVarP(&candlesInstrument, "instrument", "i", "EUR_USD", "instrument to fetch")
	candlesCmd.Flags().StringVarP(&candlesGranularity, "granularity", "g", "H1", "candle granularity (S5..M)")
	candlesCmd.Flags().IntVarP(&candlesCount, "count", "n", 24, "number of candles (max 5000)")
	candlesCmd.Flags().StringVar(&candlesPrice, "price", "M", "price component: M (mid), B (bid) or A (ask)")
}

func runCandles(cmd *cobra.Command, args []string) error {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}
	client := oanda.NewClient(creds.APIKey, creds.AccountID, creds.Practice())

	candles, err := client.GetCandles(cmd.Context(), oanda.CandlesRequest{
		Instrument:  candlesInstrument,
		Granularity: oanda.Granularity(candlesGranularity),
		Price:       oanda.PriceComponent(candlesPrice),
		Count:       candlesCount,
	})
	if err != nil {
		return fmt.Errorf("candles: %w", err)
	}
	if len(candles) == 0 {
		fmt.Println("No completed candles returned.")
		return nil
	}

	fmt.Printf("%s %s candles (%d)\n\n", candlesInstrument, candlesGranularity, len(candles))
	fmt.Printf("%-22s %10s %10s %10s %10s %8s\n", "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	for _, c := range candles {
		fmt.Printf("%-22s %10.5f %10.5f %10.5f %10.5f %8.0f\n",
			c.Time.Format("2006-01-02 15:04:05"), c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	stats := market.Closes(candles)
	fmt.Printf("\nClose statistics:\n")
	fmt.Printf("  last: %.5f  high: %.5f  low: %.5f  mean: %.5f\n",
		stats.Last, stats.High, stats.Low, stats.Mean)
	return nil
}
