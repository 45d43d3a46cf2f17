package sim

import "time"

// Trade is one simulated position, open or closed.
type Trade struct {
	ID         string
	Instrument string
	Units      float64
	EntryPrice float64
	OpenTime   time.Time
	Commission float64

	StopLoss   *float64
	TakeProfit *float64

	// Realized
	ClosePrice  float64
	CloseTime   time.Time
	CloseReason string
	RealizedPL  float64
	Open        bool
}

func (t *Trade) triggerStopLoss(price float64) bool {
	if t.StopLoss == nil {
		return false
	}
	if t.Units > 0 {
		return price <= *t.StopLoss
	}
	return price >= *t.StopLoss
}

func (t *Trade) triggerTakeProfit(price float64) bool {
	if t.TakeProfit == nil {
		return false
	}
	if t.Units > 0 {
		return price >= *t.TakeProfit
	}
	return price <= *t.TakeProfit
}

// UnrealizedPL values the open trade at currentPrice in quote currency.
func (t *Trade) UnrealizedPL(currentPrice float64) float64 {
	return t.Units * (currentPrice - t.EntryPrice)
}
