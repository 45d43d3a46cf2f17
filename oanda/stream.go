package oanda

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rustyeddy/fxsession/market"
)

// StreamOptions configures a pricing stream subscription.
type StreamOptions struct {
	Instruments []string
	// MaxTicks stops the stream after that many price ticks. Zero streams
	// until ctx is cancelled or the server closes the connection.
	MaxTicks int
}

// TickFunc is called once per price tick. Returning an error stops the
// stream and is surfaced to the StreamPricing caller.
type TickFunc func(market.Tick) error

// StreamPricing connects to the OANDA pricing stream and invokes fn per
// tick. Heartbeat messages are filtered out. It returns the number of ticks
// delivered.
func (c *Client) StreamPricing(ctx context.Context, opts StreamOptions, fn TickFunc) (int, error) {
	if c.token == "" {
		return 0, fmt.Errorf("stream: missing token")
	}
	if c.accountID == "" {
		return 0, fmt.Errorf("stream: missing account ID")
	}
	if len(opts.Instruments) == 0 {
		return 0, fmt.Errorf("stream: at least one instrument is required")
	}

	u, err := url.Parse(c.streamURL)
	if err != nil {
		return 0, fmt.Errorf("stream: parse url: %w", err)
	}
	u.Path = fmt.Sprintf("/v3/accounts/%s/pricing/stream", c.accountID)
	q := u.Query()
	q.Set("instruments", strings.Join(opts.Instruments, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("stream: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	// The stream is long-lived chunked HTTP; the client's request timeout
	// would kill it, so use a bare client and rely on ctx.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return 0, fmt.Errorf("stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return 0, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	sc := bufio.NewScanner(resp.Body)
	// Stream messages can be long; bump the max token size.
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	delivered := 0

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var msg apiPrice
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return delivered, fmt.Errorf("stream: bad json: %w (line=%q)", err, trimForErr(line))
		}

		// HEARTBEAT messages keep the connection alive; skip them.
		if !strings.EqualFold(msg.Type, "PRICE") {
			continue
		}
		if msg.Instrument == "" || len(msg.Bids) == 0 || len(msg.Asks) == 0 {
			continue
		}

		tick, err := msg.toTick()
		if err != nil {
			return delivered, fmt.Errorf("stream: %w", err)
		}

		if err := fn(tick); err != nil {
			return delivered, err
		}

		delivered++
		if opts.MaxTicks > 0 && delivered >= opts.MaxTicks {
			return delivered, nil
		}
	}

	if err := sc.Err(); err != nil {
		// Cancellation surfaces as a read error; report ctx.Err instead.
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		default:
		}
		return delivered, fmt.Errorf("stream: %w", err)
	}

	return delivered, nil
}

func trimForErr(s string) string {
	const n = 200
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
