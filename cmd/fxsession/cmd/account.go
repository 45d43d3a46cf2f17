package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/oanda"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the OANDA account summary",
	Long: `Fetch and display the account summary: balance, NAV, unrealized P/L,
margin figures and open trade counts.

Example:
  fxsession account
  fxsession account --list`,
	RunE: runAccount,
}

var accountList bool

func init() {
	rootCmd.AddCommand(accountCmd)

	accountCmd.Flags().BoolVar(&accountList, "list", false, "list all accounts visible to the token")
}

func runAccount(cmd *cobra.Command, args []string) error {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}
	client := oanda.NewClient(creds.APIKey, creds.AccountID, creds.Practice())
	ctx := cmd.Context()

	if accountList {
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		fmt.Printf("Accounts (%d):\n", len(accounts))
		for _, a := range accounts {
			fmt.Printf("  %s\n", a.ID)
		}
		return nil
	}

	s, err := client.GetAccountSummary(ctx)
	if err != nil {
		return fmt.Errorf("account summary: %w", err)
	}

	fmt.Println("Account Summary")
	fmt.Println("===============")
	fmt.Printf("ID:               %s\n", s.ID)
	if s.Alias != "" {
		fmt.Printf("Alias:            %s\n", s.Alias)
	}
	fmt.Printf("Currency:         %s\n", s.Currency)
	fmt.Printf("Balance:          %.2f\n", s.Balance)
	fmt.Printf("NAV:              %.2f\n", s.NAV)
	fmt.Printf("Unrealized P/L:   %.2f\n", s.UnrealizedPL)
	fmt.Printf("Margin Used:      %.2f\n", s.MarginUsed)
	fmt.Printf("Margin Available: %.2f\n", s.MarginAvailable)
	fmt.Printf("Open Trades:      %d\n", s.OpenTradeCount)
	fmt.Printf("Open Positions:   %d\n", s.OpenPositionCount)
	fmt.Printf("Pending Orders:   %d\n", s.PendingOrderCount)
	return nil
}
