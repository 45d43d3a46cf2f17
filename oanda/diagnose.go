package oanda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Diagnose runs step-wise credential checks against the API and writes a
// human-readable report to w: token presence, token validity via the
// accounts endpoint, account-ID match, and account access. It returns an
// error describing the first failed check.
func (c *Client) Diagnose(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "OANDA API diagnostics")
	fmt.Fprintln(w, "=====================")

	fmt.Fprintln(w, "\n1. Credentials:")
	if c.token == "" {
		fmt.Fprintln(w, "   API key: MISSING")
		return errors.New("diagnose: OANDA_API_KEY is not set")
	}
	fmt.Fprintln(w, "   API key: set")

	if c.accountID == "" {
		fmt.Fprintln(w, "   Account ID: MISSING")
		return errors.New("diagnose: OANDA_ACCOUNT_ID is not set")
	}
	fmt.Fprintf(w, "   Account ID: %s\n", c.accountID)
	fmt.Fprintf(w, "   Base URL: %s\n", c.baseURL)

	fmt.Fprintln(w, "\n2. Token check (GET /v3/accounts):")
	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			fmt.Fprintln(w, "   FAILED: API key is invalid or expired")
		} else {
			fmt.Fprintf(w, "   FAILED: %v\n", err)
		}
		return fmt.Errorf("diagnose: %w", err)
	}
	fmt.Fprintf(w, "   OK: token is valid, %d account(s) visible\n", len(accounts))

	matched := false
	for _, a := range accounts {
		marker := " "
		if a.ID == c.accountID {
			marker = "*"
			matched = true
		}
		fmt.Fprintf(w, "   %s %s\n", marker, a.ID)
	}
	if !matched {
		fmt.Fprintf(w, "   WARNING: configured account %s not in list\n", c.accountID)
	}

	fmt.Fprintf(w, "\n3. Account access (GET /v3/accounts/%s/summary):\n", c.accountID)
	summary, err := c.GetAccountSummary(ctx)
	if err != nil {
		fmt.Fprintf(w, "   FAILED: %v\n", err)
		return fmt.Errorf("diagnose: %w", err)
	}
	fmt.Fprintln(w, "   OK: account accessible")
	fmt.Fprintf(w, "   Currency: %s\n", summary.Currency)
	fmt.Fprintf(w, "   Balance: %.2f\n", summary.Balance)

	fmt.Fprintln(w, "\nAll checks passed.")
	return nil
}
