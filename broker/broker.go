package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/fxsession/market"
)

// Broker is the minimal order surface a strategy trades against. The paper
// engine implements it; a live implementation would sit on the OANDA order
// endpoints.
type Broker interface {
	GetAccount(ctx context.Context) (Account, error)
	GetTick(ctx context.Context, instrument string) (market.Tick, error)
	CreateMarketOrder(ctx context.Context, req MarketOrderRequest) (OrderFill, error)
	CloseTrade(ctx context.Context, tradeID string, reason string) error
}

type Account struct {
	ID       string
	Currency string
	Balance  float64
	Equity   float64
}

// MarketOrderRequest opens a position immediately at market.
// Units > 0 buys, units < 0 sells.
type MarketOrderRequest struct {
	Instrument string
	Units      float64
	StopLoss   *float64
	TakeProfit *float64
}

type OrderFill struct {
	TradeID    string
	Instrument string
	Units      float64
	Price      float64
	Time       time.Time
	Commission float64
}

// OrderType distinguishes pending order kinds in the paper engine.
type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
	OrderStop   OrderType = "STOP"
)

// OrderState tracks a pending order's lifecycle.
type OrderState string

const (
	OrderPending   OrderState = "PENDING"
	OrderFilled    OrderState = "FILLED"
	OrderCancelled OrderState = "CANCELLED"
)
