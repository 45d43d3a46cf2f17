package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnrealizedPL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		trade        Trade
		currentPrice float64
		expected     float64
	}{
		{
			name:         "long_profit",
			trade:        Trade{Units: 1000, EntryPrice: 1.2000},
			currentPrice: 1.2050,
			expected:     5.0,
		},
		{
			name:         "long_loss",
			trade:        Trade{Units: 1000, EntryPrice: 1.2000},
			currentPrice: 1.1900,
			expected:     -10.0,
		},
		{
			name:         "short_profit",
			trade:        Trade{Units: -1000, EntryPrice: 1.2000},
			currentPrice: 1.1900,
			expected:     10.0,
		},
		{
			name:         "short_loss",
			trade:        Trade{Units: -1000, EntryPrice: 1.2000},
			currentPrice: 1.2050,
			expected:     -5.0,
		},
		{
			name:         "zero_units",
			trade:        Trade{Units: 0, EntryPrice: 1.2000},
			currentPrice: 1.2500,
			expected:     0.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.trade.UnrealizedPL(tt.currentPrice)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestStopTriggers(t *testing.T) {
	t.Parallel()

	stop := 1.1900
	take := 1.2100

	long := Trade{Units: 1000, EntryPrice: 1.2000, StopLoss: &stop, TakeProfit: &take}
	assert.False(t, long.triggerStopLoss(1.1950))
	assert.True(t, long.triggerStopLoss(1.1900))
	assert.False(t, long.triggerTakeProfit(1.2050))
	assert.True(t, long.triggerTakeProfit(1.2100))

	shortStop := 1.2100
	shortTake := 1.1900
	short := Trade{Units: -1000, EntryPrice: 1.2000, StopLoss: &shortStop, TakeProfit: &shortTake}
	assert.True(t, short.triggerStopLoss(1.2100))
	assert.False(t, short.triggerStopLoss(1.2050))
	assert.True(t, short.triggerTakeProfit(1.1900))

	bare := Trade{Units: 1000, EntryPrice: 1.2000}
	assert.False(t, bare.triggerStopLoss(1.0))
	assert.False(t, bare.triggerTakeProfit(2.0))
}
