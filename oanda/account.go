package oanda

import (
	"context"
	"fmt"
	"strconv"
)

// AccountSummary is the parsed /summary response for an account. OANDA wires
// monetary values as decimal strings; they are parsed into float64 here.
type AccountSummary struct {
	ID                string
	Alias             string
	Currency          string
	Balance           float64
	NAV               float64
	UnrealizedPL      float64
	MarginUsed        float64
	MarginAvailable   float64
	OpenTradeCount    int
	OpenPositionCount int
	PendingOrderCount int
}

type apiAccountSummary struct {
	ID                string `json:"id"`
	Alias             string `json:"alias"`
	Currency          string `json:"currency"`
	Balance           string `json:"balance"`
	NAV               string `json:"NAV"`
	UnrealizedPL      string `json:"unrealizedPL"`
	MarginUsed        string `json:"marginUsed"`
	MarginAvailable   string `json:"marginAvailable"`
	OpenTradeCount    int    `json:"openTradeCount"`
	OpenPositionCount int    `json:"openPositionCount"`
	PendingOrderCount int    `json:"pendingOrderCount"`
}

type accountSummaryResponse struct {
	Account apiAccountSummary `json:"account"`
}

// GetAccountSummary fetches the summary for the client's account.
func (c *Client) GetAccountSummary(ctx context.Context) (AccountSummary, error) {
	if c.accountID == "" {
		return AccountSummary{}, fmt.Errorf("account summary: missing account ID")
	}

	var resp accountSummaryResponse
	path := fmt.Sprintf("/v3/accounts/%s/summary", c.accountID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: %w", err)
	}

	a := resp.Account
	out := AccountSummary{
		ID:                a.ID,
		Alias:             a.Alias,
		Currency:          a.Currency,
		OpenTradeCount:    a.OpenTradeCount,
		OpenPositionCount: a.OpenPositionCount,
		PendingOrderCount: a.PendingOrderCount,
	}

	var err error
	if out.Balance, err = parseDecimal(a.Balance); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: balance: %w", err)
	}
	if out.NAV, err = parseDecimal(a.NAV); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: NAV: %w", err)
	}
	if out.UnrealizedPL, err = parseDecimal(a.UnrealizedPL); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: unrealizedPL: %w", err)
	}
	if out.MarginUsed, err = parseDecimal(a.MarginUsed); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: marginUsed: %w", err)
	}
	if out.MarginAvailable, err = parseDecimal(a.MarginAvailable); err != nil {
		return AccountSummary{}, fmt.Errorf("account summary: marginAvailable: %w", err)
	}

	return out, nil
}

// AccountProperties identifies one account visible to the token.
type AccountProperties struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

type accountsResponse struct {
	Accounts []AccountProperties `json:"accounts"`
}

// ListAccounts returns all accounts the API token can access.
func (c *Client) ListAccounts(ctx context.Context) ([]AccountProperties, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/v3/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return resp.Accounts, nil
}

// parseDecimal parses OANDA's string-encoded decimals. Empty strings parse
// to zero; the API omits some fields for brand-new accounts.
func parseDecimal(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
