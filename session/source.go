package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/oanda"
)

// PriceSource supplies the current quote for one instrument. The session
// polls it once per interval.
type PriceSource interface {
	CurrentTick(ctx context.Context) (market.Tick, error)
}

// OandaSource polls the live pricing endpoint.
type OandaSource struct {
	Client     *oanda.Client
	Instrument string
}

func (s *OandaSource) CurrentTick(ctx context.Context) (market.Tick, error) {
	ticks, err := s.Client.GetPricing(ctx, s.Instrument)
	if err != nil {
		return market.Tick{}, err
	}
	if len(ticks) == 0 {
		return market.Tick{}, fmt.Errorf("pricing: no tick for %s", s.Instrument)
	}
	return ticks[0], nil
}

// RandomWalk generates synthetic quotes around a base price. It stands in
// for the live feed in offline demos, the same fallback the broker-less
// demo scripts use.
type RandomWalk struct {
	Instrument string
	Base       float64
	Spread     float64
	MaxStep    float64

	rng *rand.Rand
	mid float64
}

// NewRandomWalk builds a EUR/USD-flavored synthetic source.
func NewRandomWalk(instrument string) *RandomWalk {
	return &RandomWalk{
		Instrument: instrument,
		Base:       1.1650,
		Spread:     0.0003,
		MaxStep:    0.0005,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RandomWalk) CurrentTick(ctx context.Context) (market.Tick, error) {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.mid == 0 {
		s.mid = s.Base
	}
	s.mid += (s.rng.Float64()*2 - 1) * s.MaxStep

	return market.Tick{
		Instrument: s.Instrument,
		Time:       time.Now().UTC(),
		Bid:        s.mid - s.Spread/2,
		Ask:        s.mid + s.Spread/2,
	}, nil
}
