package oanda

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rustyeddy/fxsession/market"
)

// Granularity represents the time frame for candles
type Granularity string

const (
	S5  Granularity = "S5"  // 5 seconds
	S10 Granularity = "S10" // 10 seconds
	S15 Granularity = "S15" // 15 seconds
	S30 Granularity = "S30" // 30 seconds
	M1  Granularity = "M1"  // 1 minute
	M2  Granularity = "M2"  // 2 minutes
	M4  Granularity = "M4"  // 4 minutes
	M5  Granularity = "M5"  // 5 minutes
	M10 Granularity = "M10" // 10 minutes
	M15 Granularity = "M15" // 15 minutes
	M30 Granularity = "M30" // 30 minutes
	H1  Granularity = "H1"  // 1 hour
	H2  Granularity = "H2"  // 2 hours
	H3  Granularity = "H3"  // 3 hours
	H4  Granularity = "H4"  // 4 hours
	H6  Granularity = "H6"  // 6 hours
	H8  Granularity = "H8"  // 8 hours
	H12 Granularity = "H12" // 12 hours
	D   Granularity = "D"   // 1 day
	W   Granularity = "W"   // 1 week
	M   Granularity = "M"   // 1 month
)

// PriceComponent represents the price component for candles
type PriceComponent string

const (
	MidPrice PriceComponent = "M" // Midpoint candles
	BidPrice PriceComponent = "B" // Bid candles
	AskPrice PriceComponent = "A" // Ask candles
)

// CandlesRequest represents parameters for fetching historical candles
type CandlesRequest struct {
	Instrument  string         // Required: the instrument to fetch candles for (e.g., "EUR_USD")
	Price       PriceComponent // Price component (default: MidPrice)
	Granularity Granularity    // Candle granularity (default: D)
	Count       int            // Number of candles (max 5000, mutually exclusive with From/To)
	From        *time.Time     // Start time
	To          *time.Time     // End time
	Smooth      bool           // Use previous candle's close as open
}

type candleData struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type apiCandle struct {
	Complete bool       `json:"complete"`
	Volume   int        `json:"volume"`
	Time     string     `json:"time"`
	Mid      candleData `json:"mid,omitempty"`
	Bid      candleData `json:"bid,omitempty"`
	Ask      candleData `json:"ask,omitempty"`
}

type candlesResponse struct {
	Instrument  string      `json:"instrument"`
	Granularity string      `json:"granularity"`
	Candles     []apiCandle `json:"candles"`
}

// GetCandles fetches historical candles from OANDA. Incomplete candles are
// skipped so callers only see settled data.
func (c *Client) GetCandles(ctx context.Context, req CandlesRequest) ([]market.Candle, error) {
	if req.Instrument == "" {
		return nil, fmt.Errorf("candles: instrument is required")
	}

	params := url.Values{}

	if req.Price == "" {
		req.Price = MidPrice
	}
	params.Set("price", string(req.Price))

	if req.Granularity == "" {
		req.Granularity = D
	}
	params.Set("granularity", string(req.Granularity))

	if req.Count > 0 {
		if req.Count > 5000 {
			return nil, fmt.Errorf("candles: count cannot exceed 5000")
		}
		params.Set("count", strconv.Itoa(req.Count))
	} else {
		if req.From != nil {
			params.Set("from", req.From.Format(time.RFC3339))
		}
		if req.To != nil {
			params.Set("to", req.To.Format(time.RFC3339))
		}
	}

	if req.Smooth {
		params.Set("smooth", "true")
	}

	var apiResp candlesResponse
	path := fmt.Sprintf("/v3/instruments/%s/candles", req.Instrument)
	if err := c.get(ctx, path, params, &apiResp); err != nil {
		return nil, fmt.Errorf("candles %s: %w", req.Instrument, err)
	}

	candles := make([]market.Candle, 0, len(apiResp.Candles))
	for _, ac := range apiResp.Candles {
		if !ac.Complete {
			continue
		}

		t, err := time.Parse(time.RFC3339, ac.Time)
		if err != nil {
			return nil, fmt.Errorf("candles: parse time %s: %w", ac.Time, err)
		}

		var data candleData
		switch req.Price {
		case BidPrice:
			data = ac.Bid
		case AskPrice:
			data = ac.Ask
		default:
			data = ac.Mid
		}

		candle := market.Candle{Time: t, Volume: float64(ac.Volume)}
		if candle.Open, err = parseDecimal(data.O); err != nil {
			return nil, fmt.Errorf("candles: parse open price: %w", err)
		}
		if candle.High, err = parseDecimal(data.H); err != nil {
			return nil, fmt.Errorf("candles: parse high price: %w", err)
		}
		if candle.Low, err = parseDecimal(data.L); err != nil {
			return nil, fmt.Errorf("candles: parse low price: %w", err)
		}
		if candle.Close, err = parseDecimal(data.C); err != nil {
			return nil, fmt.Errorf("candles: parse close price: %w", err)
		}

		candles = append(candles, candle)
	}

	return candles, nil
}
