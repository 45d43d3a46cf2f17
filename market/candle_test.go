package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandleRange(t *testing.T) {
	t.Parallel()

	c := Candle{Open: 1.10, High: 1.12, Low: 1.09, Close: 1.11}
	assert.InDelta(t, 0.03, c.Range(), 1e-12)
}

func TestCloses(t *testing.T) {
	t.Parallel()

	candles := []Candle{
		{Close: 1.10},
		{Close: 1.14},
		{Close: 1.08},
		{Close: 1.12},
	}

	stats := Closes(candles)
	assert.InDelta(t, 1.12, stats.Last, 1e-12)
	assert.InDelta(t, 1.14, stats.High, 1e-12)
	assert.InDelta(t, 1.08, stats.Low, 1e-12)
	assert.InDelta(t, 1.11, stats.Mean, 1e-12)
}

func TestClosesEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CloseStats{}, Closes(nil))
}

func TestInstrumentPip(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0001, Instruments["EUR_USD"].Pip(), 1e-12)
	assert.InDelta(t, 0.01, Instruments["USD_JPY"].Pip(), 1e-12)
}
