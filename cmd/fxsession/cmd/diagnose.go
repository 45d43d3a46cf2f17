package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/oanda"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check OANDA API credentials step by step",
	Long: `Run a step-wise diagnostic of the configured credentials: key and
account ID presence, token validity against the accounts endpoint, and
access to the configured account. Useful when any other command fails
with an authorization error.

Example:
  fxsession diagnose`,
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	// Read the environment directly so missing pieces are reported by the
	// diagnostic itself rather than failing upfront.
	_ = godotenv.Load()
	practice := os.Getenv("OANDA_ENVIRONMENT") != config.EnvLive
	client := oanda.NewClient(os.Getenv("OANDA_API_KEY"), os.Getenv("OANDA_ACCOUNT_ID"), practice)

	return client.Diagnose(cmd.Context(), os.Stdout)
}
