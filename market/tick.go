package market

import (
	"errors"
	"sync"
	"time"
)

// Tick is a single bid/ask quote for an instrument.
type Tick struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
}

// Mid returns the midpoint of bid and ask.
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Spread returns the ask-bid spread in price terms.
func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// ErrNoTick is returned when a TickStore has no quote for an instrument.
var ErrNoTick = errors.New("no tick for instrument")

// TickStore holds the latest tick per instrument.
type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewTickStore() *TickStore {
	return &TickStore{ticks: make(map[string]Tick)}
}

func (ts *TickStore) Set(t Tick) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.ticks[t.Instrument] = t
}

func (ts *TickStore) Get(instrument string) (Tick, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.ticks[instrument]
	if !ok {
		return Tick{}, ErrNoTick
	}
	return t, nil
}
