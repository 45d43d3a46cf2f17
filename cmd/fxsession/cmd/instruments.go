package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/oanda"
)

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List instruments tradeable on the account",
	Long: `List the instruments the account can trade, with display names and
pip locations.

Example:
  fxsession instruments
  fxsession instruments --majors`,
	RunE: runInstruments,
}

var instrumentsMajors bool

func init() {
	rootCmd.AddCommand(instrumentsCmd)

	instrumentsCmd.Flags().BoolVar(&instrumentsMajors, "majors", false, "only show the major currency pairs")
}

func runInstruments(cmd *cobra.Command, args []string) error {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}
	client := oanda.NewClient(creds.APIKey, creds.AccountID, creds.Practice())

	list, err := client.GetInstruments(cmd.Context())
	if err != nil {
		return fmt.Errorf("instruments: %w", err)
	}

	if instrumentsMajors {
		majors := make(map[string]bool, len(market.MajorPairs))
		for _, m := range market.MajorPairs {
			majors[m] = true
		}
		filtered := list[:0]
		for _, in := range list {
			if majors[in.Name] {
				filtered = append(filtered, in)
			}
		}
		list = filtered
	}

	fmt.Printf("%-12s %-22s %-10s %s\n", "NAME", "DISPLAY", "TYPE", "PIP")
	for _, in := range list {
		fmt.Printf("%-12s %-22s %-10s %d\n", in.Name, in.DisplayName, in.Type, in.PipLocation)
	}
	fmt.Printf("\n%d instruments\n", len(list))
	return nil
}
