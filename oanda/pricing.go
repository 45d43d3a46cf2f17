package oanda

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/fxsession/market"
)

type apiPrice struct {
	Type       string `json:"type"`
	Time       string `json:"time"`
	Instrument string `json:"instrument"`

	Bids []struct {
		Price string `json:"price"`
	} `json:"bids"`

	Asks []struct {
		Price string `json:"price"`
	} `json:"asks"`
}

type pricingResponse struct {
	Prices []apiPrice `json:"prices"`
}

// GetPricing fetches the current bid/ask for the given instruments. The
// session loop polls this as its live price source.
func (c *Client) GetPricing(ctx context.Context, instruments ...string) ([]market.Tick, error) {
	if c.accountID == "" {
		return nil, fmt.Errorf("pricing: missing account ID")
	}
	if len(instruments) == 0 {
		return nil, fmt.Errorf("pricing: at least one instrument is required")
	}

	params := url.Values{}
	params.Set("instruments", strings.Join(instruments, ","))

	var resp pricingResponse
	path := fmt.Sprintf("/v3/accounts/%s/pricing", c.accountID)
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}

	ticks := make([]market.Tick, 0, len(resp.Prices))
	for _, p := range resp.Prices {
		tick, err := p.toTick()
		if err != nil {
			return nil, fmt.Errorf("pricing: %w", err)
		}
		ticks = append(ticks, tick)
	}
	return ticks, nil
}

func (p apiPrice) toTick() (market.Tick, error) {
	if len(p.Bids) == 0 || len(p.Asks) == 0 {
		return market.Tick{}, fmt.Errorf("%s: price has no bid/ask", p.Instrument)
	}

	bid, err := parseDecimal(p.Bids[0].Price)
	if err != nil {
		return market.Tick{}, fmt.Errorf("%s: parse bid: %w", p.Instrument, err)
	}
	ask, err := parseDecimal(p.Asks[0].Price)
	if err != nil {
		return market.Tick{}, fmt.Errorf("%s: parse ask: %w", p.Instrument, err)
	}

	t := time.Now().UTC()
	if p.Time != "" {
		if parsed, err := time.Parse(time.RFC3339, p.Time); err == nil {
			t = parsed
		}
	}

	return market.Tick{
		Instrument: p.Instrument,
		Time:       t,
		Bid:        bid,
		Ask:        ask,
	}, nil
}
