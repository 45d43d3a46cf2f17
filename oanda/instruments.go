package oanda

import (
	"context"
	"fmt"
	"sort"
)

// Instrument describes one tradeable instrument on the account.
type Instrument struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	PipLocation int    `json:"pipLocation"`
}

type instrumentsResponse struct {
	Instruments []Instrument `json:"instruments"`
}

// GetInstruments returns the instruments tradeable on the client's account,
// sorted by name.
func (c *Client) GetInstruments(ctx context.Context) ([]Instrument, error) {
	if c.accountID == "" {
		return nil, fmt.Errorf("instruments: missing account ID")
	}

	var resp instrumentsResponse
	path := fmt.Sprintf("/v3/accounts/%s/instruments", c.accountID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("instruments: %w", err)
	}

	sort.Slice(resp.Instruments, func(i, j int) bool {
		return resp.Instruments[i].Name < resp.Instruments[j].Name
	})
	return resp.Instruments, nil
}
