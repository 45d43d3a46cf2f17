package sim

import (
	"time"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/market"
)

// Order is a pending limit or stop order held by the engine until its
// trigger price trades.
type Order struct {
	ID         string
	Type       broker.OrderType
	Instrument string
	Units      float64
	Price      float64
	StopLoss   *float64
	TakeProfit *float64
	State      broker.OrderState
	CreatedAt  time.Time
	FilledAt   time.Time

	// TradeID is set when the order fills and opens a trade.
	TradeID string
}

// triggered reports whether the order should fill against the tick, and at
// what price.
//
// Limit orders fill at or better than their price: a buy limit when the ask
// drops to the price, a sell limit when the bid rises to it. Stop orders
// fill on a breakout through their price.
func (o *Order) triggered(t market.Tick) (float64, bool) {
	if o.State != broker.OrderPending {
		return 0, false
	}

	buy := o.Units > 0
	switch o.Type {
	case broker.OrderLimit:
		if buy && t.Ask <= o.Price {
			return o.Price, true
		}
		if !buy && t.Bid >= o.Price {
			return o.Price, true
		}
	case broker.OrderStop:
		if buy && t.Ask >= o.Price {
			return o.Price, true
		}
		if !buy && t.Bid <= o.Price {
			return o.Price, true
		}
	}
	return 0, false
}
