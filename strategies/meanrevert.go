package strategies

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/indicators"
	"github.com/rustyeddy/fxsession/market"
	"github.com/rustyeddy/fxsession/sim"
)

// MeanReversion trades a single instrument against a rolling moving average
// of mid prices:
//   - BUY when the price is below the average (expecting it to revert up)
//   - SELL when the price is above the average (expecting it to revert down)
//   - never re-enters in the direction already held
//   - an opposite signal closes the open position, then opens the new one
var _ TickStrategy = (*MeanReversion)(nil)

type MeanReversion struct {
	*MeanReversionConfig

	ma *indicators.RollingMean

	openTradeID string
	openUnits   float64 // >0 long, <0 short

	// OnSignal, when set, is called after each executed entry with the
	// signal direction and the moving average at that moment. The session
	// uses it to annotate trade records.
	OnSignal func(fill broker.OrderFill, dir int, movingAverage float64)
}

type MeanReversionConfig struct {
	Instrument string  `json:"instrument" yaml:"instrument"`
	Window     int     `json:"window" yaml:"window"`     // price points in the moving average
	Units      float64 `json:"units" yaml:"units"`       // position size per trade
}

func MeanReversionDefaults() *MeanReversionConfig {
	return &MeanReversionConfig{
		Instrument: "EUR_USD",
		Window:     20,
		Units:      1000,
	}
}

func NewMeanReversion(cfg *MeanReversionConfig) *MeanReversion {
	if cfg.Window < 2 {
		cfg.Window = 2
	}
	if cfg.Units <= 0 {
		cfg.Units = 1000
	}

	return &MeanReversion{
		MeanReversionConfig: cfg,
		ma:                  indicators.NewRollingMean(cfg.Window),
	}
}

// MovingAverage returns the current moving-average value, or 0 before warmup.
func (s *MeanReversion) MovingAverage() float64 {
	return s.ma.Value()
}

// Position reports the current direction: +1 long, -1 short, 0 flat.
func (s *MeanReversion) Position() int {
	switch {
	case s.openUnits > 0:
		return 1
	case s.openUnits < 0:
		return -1
	default:
		return 0
	}
}

// OpenTradeID returns the trade the strategy currently holds, if any.
func (s *MeanReversion) OpenTradeID() string { return s.openTradeID }

// syncOpenState clears position state if the engine already closed the trade
// (e.g. a stop loss attached elsewhere).
func (s *MeanReversion) syncOpenState(b broker.Broker) {
	if s.openTradeID == "" {
		return
	}
	if eng, ok := b.(interface{ IsTradeOpen(string) bool }); ok {
		if !eng.IsTradeOpen(s.openTradeID) {
			s.openTradeID = ""
			s.openUnits = 0
		}
	}
}

func (s *MeanReversion) OnTick(ctx context.Context, b broker.Broker, tick market.Tick) error {
	if tick.Instrument != s.Instrument {
		return nil
	}

	mid := tick.Mid()
	s.ma.Update(mid)

	// The average needs at least two prices before it means anything.
	if !s.ma.Ready() {
		return nil
	}
	ma := s.ma.Value()

	switch {
	case mid < ma && s.Position() != 1:
		return s.enter(ctx, b, tick.Time, +1, ma)
	case mid > ma && s.Position() != -1:
		return s.enter(ctx, b, tick.Time, -1, ma)
	default:
		return nil
	}
}

func (s *MeanReversion) enter(ctx context.Context, b broker.Broker, now time.Time, dir int, ma float64) error {
	s.syncOpenState(b)

	// Opposite position still open: close it first.
	if s.openTradeID != "" {
		if err := b.CloseTrade(ctx, s.openTradeID, sim.ReasonReversal); err != nil {
			return fmt.Errorf("close before reversal: %w", err)
		}
		s.openTradeID = ""
		s.openUnits = 0
	}

	units := s.Units * float64(dir)
	fill, err := b.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: s.Instrument,
		Units:      units,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Instrument, err)
	}

	s.openTradeID = fill.TradeID
	s.openUnits = units

	if s.OnSignal != nil {
		s.OnSignal(fill, dir, ma)
	}
	return nil
}

// CloseOpen closes any position the strategy still holds, with the given
// reason. The session calls it when time runs out.
func (s *MeanReversion) CloseOpen(ctx context.Context, b broker.Broker, reason string) error {
	s.syncOpenState(b)
	if s.openTradeID == "" {
		return nil
	}
	if err := b.CloseTrade(ctx, s.openTradeID, reason); err != nil {
		return err
	}
	s.openTradeID = ""
	s.openUnits = 0
	return nil
}
