package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/internal/metrics"
	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/monitor"
	"github.com/rustyeddy/fxsession/oanda"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream live prices and print tick statistics",
	Long: `Subscribe to the OANDA pricing stream for one or more instruments.
Each tick is printed as it arrives; a statistics report (tick rates,
spreads, significant moves, volatility) is written when the stream ends.

The stream stops after --max-ticks ticks, after --duration, or on Ctrl-C.

Example:
  fxsession stream -i EUR_USD -i USD_JPY --max-ticks 100
  fxsession stream -i EUR_USD --duration 30s --metrics-addr :9100`,
	RunE: runStream,
}

var (
	streamInstruments []string
	streamMaxTicks    int
	streamDuration    time.Duration
	streamQuiet       bool
	streamMetricsAddr string
)

func init() {
	rootCmd.AddCommand(streamCmd)

	streamCmd.Flags().StringSliceVarP(&streamInstruments, "instrument", "i", []string{"EUR_USD"}, "instrument(s) to stream")
	streamCmd.Flags().IntVar(&streamMaxTicks, "max-ticks", 0, "stop after this many ticks (0 = unlimited)")
	streamCmd.Flags().DurationVar(&streamDuration, "duration", 0, "stop after this long (0 = until interrupted)")
	streamCmd.Flags().BoolVarP(&streamQuiet, "quiet", "q", false, "suppress per-tick output")
	streamCmd.Flags().StringVar(&streamMetricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address")
}

func runStream(cmd *cobra.Command, args []string) error {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}
	client := oanda.NewClient(creds.APIKey, creds.AccountID, creds.Practice())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if streamDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, streamDuration)
		defer cancel()
	}

	if streamMetricsAddr != "" {
		srv := metrics.Serve(streamMetricsAddr)
		defer srv.Close()
		fmt.Printf("Metrics on http://%s/metrics\n", streamMetricsAddr)
	}

	mon := monitor.New()

	fmt.Printf("Streaming %v (Ctrl-C to stop)...\n\n", streamInstruments)
	n, err := client.StreamPricing(ctx, oanda.StreamOptions{
		Instruments: streamInstruments,
		MaxTicks:    streamMaxTicks,
	}, func(t market.Tick) error {
		mon.OnTick(t)
		metrics.TicksTotal.WithLabelValues(t.Instrument).Inc()
		if !streamQuiet {
			fmt.Printf("%s  %-10s bid=%.5f ask=%.5f spread=%.5f\n",
				t.Time.Format("15:04:05.000"), t.Instrument, t.Bid, t.Ask, t.Spread())
		}
		return nil
	})

	// Cancellation is how the stream normally ends.
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream: %w", err)
	}

	fmt.Printf("\nStream ended after %d ticks.\n\n", n)
	return mon.WriteReport(os.Stdout)
}
