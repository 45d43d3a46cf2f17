package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/internal/metrics"
	"github.com/rustyeddy/fxsession/internal/util"
	"github.com/rustyeddy/fxsession/journal"
	"github.com/rustyeddy/fxsession/oanda"
	"github.com/rustyeddy/fxsession/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a moving-average paper-trading session",
	Long: `Run a time-boxed mean-reversion session: poll the price once per
interval, maintain a moving average, buy below it and sell above it in
a paper account, and close any open position when time runs out.

With --offline a synthetic random-walk feed replaces the OANDA API, so
no credentials are needed.

Results are printed as a report and saved as a timestamped JSON file.

Example:
  fxsession run
  fxsession run --config session.yaml
  fxsession run --offline --no-save`,
	RunE: runSession,
}

var (
	runConfigPath string
	runOffline    bool
	runNoSave     bool
	runOutput     string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults apply when omitted")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "use a synthetic price feed instead of the OANDA API")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "do not write the JSON results file")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "results file path (default: timestamped name)")
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	log := util.NewLogger(cfg.Log.Level)

	var source session.PriceSource
	if runOffline {
		source = session.NewRandomWalk(cfg.Strategy.Instrument)
		log.Info().Msg("offline mode: synthetic price feed")
	} else {
		creds, err := config.CredentialsFromEnv()
		if err != nil {
			return err
		}
		client := oanda.NewClient(creds.APIKey, creds.AccountID, creds.Practice())

		// Make sure the API is reachable before the clock starts.
		summary, err := client.GetAccountSummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("account check failed (try 'fxsession diagnose'): %w", err)
		}
		log.Info().
			Str("account", summary.ID).
			Str("currency", summary.Currency).
			Float64("balance", summary.Balance).
			Msg("connected to OANDA")

		source = &session.OandaSource{Client: client, Instrument: cfg.Strategy.Instrument}
	}

	var j journal.Journal
	var err error
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	default:
		j = journal.Noop{}
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	if cfg.Log.MetricsAddr != "" {
		srv := metrics.Serve(cfg.Log.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", cfg.Log.MetricsAddr).Msg("metrics listening")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(cfg, source, j, log)
	results, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	fmt.Println()
	results.Metrics.Render(os.Stdout, results.Trades)

	if !runNoSave {
		path, err := results.Save(runOutput)
		if err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		fmt.Printf("\nResults saved to %s\n", path)
	}
	return nil
}
