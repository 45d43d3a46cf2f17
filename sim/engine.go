package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/internal/id"
	"github.com/rustyeddy/fxsession/journal"
	"github.com/rustyeddy/fxsession/market"
)

// Close reasons recorded in the journal.
const (
	ReasonManual     = "manual"
	ReasonReversal   = "reversal"
	ReasonEndSession = "end_of_session"
	ReasonStopLoss   = "stop_loss"
	ReasonTakeProfit = "take_profit"
)

// Default fill frictions, mirroring typical retail FX conditions.
const (
	DefaultMaxSlippage    = 0.0001   // max absolute price slippage on market fills
	DefaultCommissionRate = 0.000025 // commission per unit traded
)

// Engine is a paper-trading broker. Orders fill against the latest stored
// tick: buys at ask, sells at bid. Closed trades are pushed to the journal.
type Engine struct {
	// Fill frictions; override before trading for deterministic fills.
	MaxSlippage    float64
	CommissionRate float64

	mu     sync.Mutex
	acct   broker.Account
	ticks  *market.TickStore
	trades map[string]*Trade
	orders map[string]*Order
	closed []*Trade
	jrnl   journal.Journal
	rng    *rand.Rand
}

func NewEngine(acct broker.Account, j journal.Journal) *Engine {
	if j == nil {
		j = journal.Noop{}
	}
	if acct.Equity == 0 {
		acct.Equity = acct.Balance
	}
	return &Engine{
		MaxSlippage:    DefaultMaxSlippage,
		CommissionRate: DefaultCommissionRate,
		acct:           acct,
		ticks:          market.NewTickStore(),
		trades:         make(map[string]*Trade),
		orders:         make(map[string]*Order),
		jrnl:           j,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Engine) Ticks() *market.TickStore { return e.ticks }

func (e *Engine) GetAccount(ctx context.Context) (broker.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct, nil
}

func (e *Engine) GetTick(ctx context.Context, instrument string) (market.Tick, error) {
	return e.ticks.Get(instrument)
}

// UpdateTick stores the quote and settles anything it triggers: pending
// orders fill, and open trades hit their stops or targets.
func (e *Engine) UpdateTick(t market.Tick) error {
	e.ticks.Set(t)

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, o := range e.pendingLocked() {
		price, hit := o.triggered(t)
		if !hit {
			continue
		}
		if err := e.fillOrderLocked(o, price, t.Time); err != nil {
			return err
		}
	}

	for _, tr := range e.openLocked() {
		if tr.Instrument != t.Instrument {
			continue
		}
		// Longs are marked against bid, shorts against ask.
		mark := t.Bid
		if tr.Units < 0 {
			mark = t.Ask
		}
		switch {
		case tr.triggerStopLoss(mark):
			if err := e.closeTradeLocked(tr, *tr.StopLoss, t.Time, ReasonStopLoss); err != nil {
				return err
			}
		case tr.triggerTakeProfit(mark):
			if err := e.closeTradeLocked(tr, *tr.TakeProfit, t.Time, ReasonTakeProfit); err != nil {
				return err
			}
		}
	}

	return nil
}

// CreateMarketOrder fills immediately at the current quote plus a small
// random slippage, charging commission against the balance.
func (e *Engine) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.OrderFill, error) {
	if req.Units == 0 {
		return broker.OrderFill{}, fmt.Errorf("market order: units must be non-zero")
	}

	tick, err := e.ticks.Get(req.Instrument)
	if err != nil {
		return broker.OrderFill{}, fmt.Errorf("market order %s: %w", req.Instrument, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fillPrice := tick.Ask
	if req.Units < 0 {
		fillPrice = tick.Bid
	}
	fillPrice += e.slipLocked()

	tradeID := id.New()
	commission := abs(req.Units) * e.CommissionRate

	trade := &Trade{
		ID:         tradeID,
		Instrument: req.Instrument,
		Units:      req.Units,
		EntryPrice: fillPrice,
		OpenTime:   tick.Time,
		Commission: commission,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Open:       true,
	}
	e.trades[tradeID] = trade
	e.acct.Balance -= commission
	e.acct.Equity = e.acct.Balance

	return broker.OrderFill{
		TradeID:    tradeID,
		Instrument: req.Instrument,
		Units:      req.Units,
		Price:      fillPrice,
		Time:       tick.Time,
		Commission: commission,
	}, nil
}

// PendingOrderRequest places a limit or stop order.
type PendingOrderRequest struct {
	Type       broker.OrderType
	Instrument string
	Units      float64
	Price      float64
	StopLoss   *float64
	TakeProfit *float64
}

// CreatePendingOrder registers a limit or stop order. It does not fill until
// a tick trades through the order price.
func (e *Engine) CreatePendingOrder(ctx context.Context, req PendingOrderRequest) (*Order, error) {
	if req.Type != broker.OrderLimit && req.Type != broker.OrderStop {
		return nil, fmt.Errorf("pending order: unsupported type %q", req.Type)
	}
	if req.Units == 0 {
		return nil, fmt.Errorf("pending order: units must be non-zero")
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("pending order: price must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if t, err := e.ticks.Get(req.Instrument); err == nil && !t.Time.IsZero() {
		now = t.Time
	}

	o := &Order{
		ID:         id.New(),
		Type:       req.Type,
		Instrument: req.Instrument,
		Units:      req.Units,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		State:      broker.OrderPending,
		CreatedAt:  now,
	}
	e.orders[o.ID] = o
	return o, nil
}

// CancelOrder cancels a pending order.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel order: order %q not found", orderID)
	}
	if o.State != broker.OrderPending {
		return fmt.Errorf("cancel order: order %q is %s", orderID, o.State)
	}
	o.State = broker.OrderCancelled
	return nil
}

// CloseTrade closes an open trade at the current market price. Longs close
// on bid, shorts on ask.
func (e *Engine) CloseTrade(ctx context.Context, tradeID string, reason string) error {
	if reason == "" {
		reason = ReasonManual
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.trades[tradeID]
	if !ok {
		return fmt.Errorf("close trade: trade %q not found", tradeID)
	}
	if !t.Open {
		return fmt.Errorf("close trade: trade %q is already closed", tradeID)
	}

	tick, err := e.ticks.Get(t.Instrument)
	if err != nil {
		return fmt.Errorf("close trade: no price for %q: %w", t.Instrument, err)
	}

	closePrice := tick.Bid
	if t.Units < 0 {
		closePrice = tick.Ask
	}

	closeTime := tick.Time
	if closeTime.IsZero() {
		closeTime = time.Now()
	}

	return e.closeTradeLocked(t, closePrice, closeTime, reason)
}

// IsTradeOpen reports whether the trade exists and is still open. Strategies
// use it to resync after the engine auto-closes a trade.
func (e *Engine) IsTradeOpen(tradeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.trades[tradeID]
	return ok && t.Open
}

// OpenTrades returns open trades ordered by open time.
func (e *Engine) OpenTrades() []*Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openLocked()
}

// ClosedTrades returns closed trades in close order.
func (e *Engine) ClosedTrades() []*Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Trade, len(e.closed))
	copy(out, e.closed)
	return out
}

// PendingOrders returns orders still waiting to fill, oldest first.
func (e *Engine) PendingOrders() []*Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingLocked()
}

func (e *Engine) openLocked() []*Trade {
	var out []*Trade
	for _, t := range e.trades {
		if t.Open {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenTime.Equal(out[j].OpenTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].OpenTime.Before(out[j].OpenTime)
	})
	return out
}

func (e *Engine) pendingLocked() []*Order {
	var out []*Order
	for _, o := range e.orders {
		if o.State == broker.OrderPending {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Engine) fillOrderLocked(o *Order, price float64, at time.Time) error {
	tradeID := id.New()
	commission := abs(o.Units) * e.CommissionRate

	trade := &Trade{
		ID:         tradeID,
		Instrument: o.Instrument,
		Units:      o.Units,
		EntryPrice: price,
		OpenTime:   at,
		Commission: commission,
		StopLoss:   o.StopLoss,
		TakeProfit: o.TakeProfit,
		Open:       true,
	}
	e.trades[tradeID] = trade
	e.acct.Balance -= commission
	e.acct.Equity = e.acct.Balance

	o.State = broker.OrderFilled
	o.FilledAt = at
	o.TradeID = tradeID
	return nil
}

func (e *Engine) closeTradeLocked(t *Trade, closePrice float64, closeTime time.Time, reason string) error {
	t.ClosePrice = closePrice
	t.CloseTime = closeTime
	t.CloseReason = reason
	t.RealizedPL = t.Units * (closePrice - t.EntryPrice)
	t.Open = false
	e.closed = append(e.closed, t)

	e.acct.Balance += t.RealizedPL
	e.acct.Equity = e.acct.Balance

	if err := e.jrnl.RecordTrade(journal.TradeRecord{
		TradeID:    t.ID,
		Instrument: t.Instrument,
		Units:      t.Units,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ClosePrice,
		OpenTime:   t.OpenTime,
		CloseTime:  t.CloseTime,
		RealizedPL: t.RealizedPL,
		Commission: t.Commission,
		Reason:     reason,
	}); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}

	if err := e.jrnl.RecordEquity(journal.EquitySnapshot{
		Time:    closeTime,
		Balance: e.acct.Balance,
		Equity:  e.acct.Equity,
	}); err != nil {
		return fmt.Errorf("record equity: %w", err)
	}

	return nil
}

func (e *Engine) slipLocked() float64 {
	if e.MaxSlippage <= 0 {
		return 0
	}
	return (e.rng.Float64()*2 - 1) * e.MaxSlippage
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
