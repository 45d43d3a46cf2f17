package monitor

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxsession/market"
)

func tickAt(instrument string, mid float64) market.Tick {
	return market.Tick{
		Instrument: instrument,
		Time:       time.Now().UTC(),
		Bid:        mid - 0.0001,
		Ask:        mid + 0.0001,
	}
}

func TestMonitorCountsAndMoves(t *testing.T) {
	t.Parallel()

	m := New()
	mids := []float64{1.1650, 1.1652, 1.1651, 1.1651, 1.1658}
	for _, mid := range mids {
		m.OnTick(tickAt("EUR_USD", mid))
	}

	st := m.Snapshot()
	assert.Equal(t, 5, st.TotalTicks)
	require.Len(t, st.Instruments, 1)

	is := st.Instruments[0]
	assert.Equal(t, "EUR_USD", is.Instrument)
	assert.Equal(t, 5, is.Ticks)
	assert.Equal(t, 2, is.UpMoves)
	assert.Equal(t, 1, is.DownMoves)
	// only the 1.1651 -> 1.1658 jump clears the 0.0005 threshold
	assert.Equal(t, 1, is.SignificantMoves)
	assert.InDelta(t, 0.0008, is.NetChange, 1e-9)
	assert.InDelta(t, 0.0002, is.AvgSpread, 1e-9)
	assert.Greater(t, is.Volatility, 0.0)
}

func TestMonitorPerInstrument(t *testing.T) {
	t.Parallel()

	m := New()
	m.OnTick(tickAt("EUR_USD", 1.1650))
	m.OnTick(tickAt("USD_JPY", 151.20))
	m.OnTick(tickAt("EUR_USD", 1.1651))

	st := m.Snapshot()
	assert.Equal(t, 3, st.TotalTicks)
	require.Len(t, st.Instruments, 2)

	// sorted by name
	assert.Equal(t, "EUR_USD", st.Instruments[0].Instrument)
	assert.Equal(t, 2, st.Instruments[0].Ticks)
	assert.Equal(t, "USD_JPY", st.Instruments[1].Instrument)
	assert.Equal(t, 1, st.Instruments[1].Ticks)
}

func TestMonitorBufferBounded(t *testing.T) {
	t.Parallel()

	m := New(WithBufferSize(10))
	for i := 0; i < 25; i++ {
		m.OnTick(tickAt("EUR_USD", 1.1650+float64(i)*0.0001))
	}

	recent := m.Recent("EUR_USD", 0)
	require.Len(t, recent, 10)
	// the newest tick survives, the oldest fifteen were dropped
	assert.InDelta(t, 1.1674, recent[len(recent)-1].Mid(), 1e-9)
	assert.InDelta(t, 1.1665, recent[0].Mid(), 1e-9)

	assert.Len(t, m.Recent("EUR_USD", 3), 3)
	assert.Nil(t, m.Recent("GBP_USD", 5))
}

func TestMonitorSignificantMoveOption(t *testing.T) {
	t.Parallel()

	m := New(WithSignificantMove(0.0001))
	m.OnTick(tickAt("EUR_USD", 1.1650))
	m.OnTick(tickAt("EUR_USD", 1.1655))
	m.OnTick(tickAt("EUR_USD", 1.16555)) // half the threshold, not counted

	st := m.Snapshot()
	assert.Equal(t, 1, st.Instruments[0].SignificantMoves)
}

func TestMonitorVolatilityPctChanges(t *testing.T) {
	t.Parallel()

	m := New()
	for _, mid := range []float64{1.1000, 1.1010, 1.0990, 1.1030} {
		m.OnTick(tickAt("EUR_USD", mid))
	}

	// Sample stdev of the tick-to-tick percentage changes:
	// +0.090909%, -0.181653%, +0.363967%
	st := m.Snapshot()
	assert.InDelta(t, 0.27281, st.Instruments[0].Volatility, 1e-4)
}

func TestMonitorWriteReport(t *testing.T) {
	t.Parallel()

	m := New()
	m.OnTick(tickAt("EUR_USD", 1.1650))
	m.OnTick(tickAt("EUR_USD", 1.1652))

	var buf bytes.Buffer
	require.NoError(t, m.WriteReport(&buf))

	out := buf.String()
	assert.Contains(t, out, "STREAM STATISTICS")
	assert.Contains(t, out, "EUR_USD")
	assert.Contains(t, out, "Total ticks:   2")
}
