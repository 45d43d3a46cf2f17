package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/market"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e := NewEngine(broker.Account{
		ID:       "SIM-001",
		Currency: "USD",
		Balance:  10000,
	}, nil)

	// Deterministic fills for assertions.
	e.MaxSlippage = 0
	e.CommissionRate = 0
	return e
}

func setTick(t *testing.T, e *Engine, bid, ask float64) {
	t.Helper()
	require.NoError(t, e.UpdateTick(market.Tick{
		Instrument: "EUR_USD",
		Time:       time.Now(),
		Bid:        bid,
		Ask:        ask,
	}))
}

func TestMarketOrderFillsAtQuote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.0849, 1.0851)

	buy, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1.0851, buy.Price) // buys fill at ask
	assert.NotEmpty(t, buy.TradeID)

	sell, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: -1000})
	require.NoError(t, err)
	assert.Equal(t, 1.0849, sell.Price) // sells fill at bid

	assert.Len(t, e.OpenTrades(), 2)
}

func TestMarketOrderErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)

	_, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 0})
	assert.Error(t, err)

	// No tick stored yet.
	_, err = e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
	assert.ErrorIs(t, err, market.ErrNoTick)
}

func TestCloseTradeRealizesPL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.1650, 1.1652)

	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
	require.NoError(t, err)

	// Price rises 10 pips; long closes at bid.
	setTick(t, e, 1.1662, 1.1664)
	require.NoError(t, e.CloseTrade(ctx, fill.TradeID, ReasonManual))

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.InDelta(t, 1000*(1.1662-1.1652), closed[0].RealizedPL, 1e-9)
	assert.Equal(t, ReasonManual, closed[0].CloseReason)
	assert.False(t, e.IsTradeOpen(fill.TradeID))

	acct, err := e.GetAccount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10001, acct.Balance, 1e-9)
}

func TestCloseTradeShortSide(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.1650, 1.1652)

	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: -1000})
	require.NoError(t, err)
	assert.Equal(t, 1.1650, fill.Price)

	// Price falls; short closes at ask.
	setTick(t, e, 1.1640, 1.1642)
	require.NoError(t, e.CloseTrade(ctx, fill.TradeID, ""))

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.InDelta(t, -1000*(1.1642-1.1650), closed[0].RealizedPL, 1e-9)
	assert.Equal(t, ReasonManual, closed[0].CloseReason)
}

func TestCloseTradeErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.1650, 1.1652)

	assert.Error(t, e.CloseTrade(ctx, "missing", ""))

	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
	require.NoError(t, err)
	require.NoError(t, e.CloseTrade(ctx, fill.TradeID, ""))
	assert.Error(t, e.CloseTrade(ctx, fill.TradeID, ""))
}

func TestStopLossAndTakeProfitTriggers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.1650, 1.1652)

	stop := 1.1632
	take := 1.1692
	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: "EUR_USD",
		Units:      1000,
		StopLoss:   &stop,
		TakeProfit: &take,
	})
	require.NoError(t, err)

	// Bid above stop, below take: nothing happens.
	setTick(t, e, 1.1660, 1.1662)
	assert.True(t, e.IsTradeOpen(fill.TradeID))

	// Bid reaches take profit; trade closes at the target price.
	setTick(t, e, 1.1692, 1.1694)
	assert.False(t, e.IsTradeOpen(fill.TradeID))

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, ReasonTakeProfit, closed[0].CloseReason)
	assert.Equal(t, take, closed[0].ClosePrice)
}

func TestStopLossShort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	setTick(t, e, 1.1650, 1.1652)

	stop := 1.1670
	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: "EUR_USD",
		Units:      -1000,
		StopLoss:   &stop,
	})
	require.NoError(t, err)

	// Ask rises through the stop.
	setTick(t, e, 1.1669, 1.1671)
	assert.False(t, e.IsTradeOpen(fill.TradeID))

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, ReasonStopLoss, closed[0].CloseReason)
}

func TestCommissionCharged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	e.CommissionRate = DefaultCommissionRate
	setTick(t, e, 1.1650, 1.1652)

	fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 0.025, fill.Commission, 1e-9)

	acct, err := e.GetAccount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10000-0.025, acct.Balance, 1e-9)
}

func TestSlippageBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	e.MaxSlippage = DefaultMaxSlippage
	setTick(t, e, 1.1650, 1.1652)

	for i := 0; i < 50; i++ {
		fill, err := e.CreateMarketOrder(ctx, broker.MarketOrderRequest{Instrument: "EUR_USD", Units: 1000})
		require.NoError(t, err)
		assert.InDelta(t, 1.1652, fill.Price, DefaultMaxSlippage)
	}
}
