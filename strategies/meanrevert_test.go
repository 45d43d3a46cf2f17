package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/sim"
)

func newTestRig(t *testing.T, window int) (*sim.Engine, *MeanReversion) {
	t.Helper()

	e := sim.NewEngine(broker.Account{ID: "T", Currency: "USD", Balance: 10000}, nil)
	e.MaxSlippage = 0
	e.CommissionRate = 0

	s := NewMeanReversion(&MeanReversionConfig{
		Instrument: "EUR_USD",
		Window:     window,
		Units:      1000,
	})
	return e, s
}

func tickAt(mid float64) market.Tick {
	const halfSpread = 0.0001
	return market.Tick{
		Instrument: "EUR_USD",
		Time:       time.Now(),
		Bid:        mid - halfSpread,
		Ask:        mid + halfSpread,
	}
}

func feed(t *testing.T, e *sim.Engine, s *MeanReversion, mid float64) {
	t.Helper()
	tk := tickAt(mid)
	require.NoError(t, e.UpdateTick(tk))
	require.NoError(t, s.OnTick(context.Background(), e, tk))
}

func TestNoTradeBeforeWarmup(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	feed(t, e, s, 1.1650)
	assert.Equal(t, 0, s.Position())
	assert.Empty(t, e.OpenTrades())
}

func TestBuysBelowAverage(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	feed(t, e, s, 1.1650)
	// Second price below the running mean triggers a long entry.
	feed(t, e, s, 1.1640)

	assert.Equal(t, 1, s.Position())
	open := e.OpenTrades()
	require.Len(t, open, 1)
	assert.Equal(t, 1000.0, open[0].Units)
	assert.Equal(t, s.OpenTradeID(), open[0].ID)
}

func TestSellsAboveAverage(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	feed(t, e, s, 1.1650)
	feed(t, e, s, 1.1660)

	assert.Equal(t, -1, s.Position())
	open := e.OpenTrades()
	require.Len(t, open, 1)
	assert.Equal(t, -1000.0, open[0].Units)
}

func TestNoReentrySameDirection(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	feed(t, e, s, 1.1650)
	feed(t, e, s, 1.1640) // long
	feed(t, e, s, 1.1635) // still below MA, still long
	feed(t, e, s, 1.1630)

	assert.Equal(t, 1, s.Position())
	assert.Len(t, e.OpenTrades(), 1)
	assert.Empty(t, e.ClosedTrades())
}

func TestReversalClosesThenOpens(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 3)

	feed(t, e, s, 1.1650)
	feed(t, e, s, 1.1640) // long entry
	require.Equal(t, 1, s.Position())

	// Price jumps well above the 3-point average: close long, open short.
	feed(t, e, s, 1.1700)

	assert.Equal(t, -1, s.Position())

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, sim.ReasonReversal, closed[0].CloseReason)
	assert.Equal(t, 1000.0, closed[0].Units)
	// Long entered at ask, exited at a higher bid: profitable reversal.
	assert.Greater(t, closed[0].RealizedPL, 0.0)

	open := e.OpenTrades()
	require.Len(t, open, 1)
	assert.Equal(t, -1000.0, open[0].Units)
}

func TestIgnoresOtherInstruments(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	tk := market.Tick{Instrument: "USD_JPY", Time: time.Now(), Bid: 150.48, Ask: 150.52}
	require.NoError(t, e.UpdateTick(tk))
	require.NoError(t, s.OnTick(context.Background(), e, tk))
	require.NoError(t, s.OnTick(context.Background(), e, tk))

	assert.Equal(t, 0, s.Position())
	assert.Empty(t, e.OpenTrades())
}

func TestCloseOpenAtSessionEnd(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	feed(t, e, s, 1.1650)
	feed(t, e, s, 1.1640)
	require.Equal(t, 1, s.Position())

	require.NoError(t, s.CloseOpen(context.Background(), e, sim.ReasonEndSession))
	assert.Equal(t, 0, s.Position())
	assert.Empty(t, e.OpenTrades())

	closed := e.ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, sim.ReasonEndSession, closed[0].CloseReason)

	// Idempotent when flat.
	assert.NoError(t, s.CloseOpen(context.Background(), e, sim.ReasonEndSession))
}

func TestOnSignalCallback(t *testing.T) {
	t.Parallel()

	e, s := newTestRig(t, 20)

	var gotDir int
	var gotMA float64
	s.OnSignal = func(fill broker.OrderFill, dir int, ma float64) {
		gotDir = dir
		gotMA = ma
	}

	feed(t, e, s, 1.1650)
	feed(t, e, s, 1.1640)

	assert.Equal(t, 1, gotDir)
	assert.InDelta(t, 1.1645, gotMA, 1e-9)
}

func TestDefaultsClampConfig(t *testing.T) {
	t.Parallel()

	s := NewMeanReversion(&MeanReversionConfig{Instrument: "EUR_USD", Window: 0, Units: -5})
	assert.Equal(t, 2, s.Window)
	assert.Equal(t, 1000.0, s.Units)

	d := MeanReversionDefaults()
	assert.Equal(t, 20, d.Window)
	assert.Equal(t, "EUR_USD", d.Instrument)
}
