// Package session runs the time-boxed moving-average trading loop: poll a
// price, feed the strategy, let the paper engine fill orders, and report
// the results when the clock runs out.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/config"
	"github.com/rustyeddy/fxsession/internal/metrics"
	"github.com/rustyeddy/fxsession/journal"
	"github.com/rustyeddy/fxsession/report"
	"github.com/rustyeddy/fxsession/sim"
	"github.com/rustyeddy/fxsession/strategies"
)

// statusEvery controls how often the loop logs a status line, in ticks.
const statusEvery = 5

// Session wires a price source, the paper engine and the mean-reversion
// strategy into one run.
type Session struct {
	cfg    *config.Config
	source PriceSource
	engine *sim.Engine
	strat  *strategies.MeanReversion
	log    zerolog.Logger

	// moving average per trade ID, captured at entry time
	entryMA map[string]float64
}

// New builds a session from config. The journal j may be nil.
func New(cfg *config.Config, source PriceSource, j journal.Journal, log zerolog.Logger) *Session {
	engine := sim.NewEngine(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Balance:  cfg.Account.Balance,
	}, j)

	strat := strategies.NewMeanReversion(&strategies.MeanReversionConfig{
		Instrument: cfg.Strategy.Instrument,
		Window:     cfg.Strategy.Window,
		Units:      cfg.Strategy.PositionSize,
	})

	s := &Session{
		cfg:     cfg,
		source:  source,
		engine:  engine,
		strat:   strat,
		log:     log,
		entryMA: make(map[string]float64),
	}

	strat.OnSignal = func(fill broker.OrderFill, dir int, ma float64) {
		s.entryMA[fill.TradeID] = ma
		metrics.OrdersTotal.WithLabelValues(fill.Instrument, report.Side(fill.Units)).Inc()
		s.log.Info().
			Str("trade_id", fill.TradeID).
			Str("side", report.Side(fill.Units)).
			Float64("units", fill.Units).
			Float64("price", fill.Price).
			Float64("ma", ma).
			Msg("trade opened")
	}

	return s
}

// Engine exposes the paper engine, mainly for tests and the CLI.
func (s *Session) Engine() *sim.Engine { return s.engine }

// Run executes the trading session until the configured duration elapses or
// ctx is cancelled, then closes any open position and returns the results.
func (s *Session) Run(ctx context.Context) (*report.Results, error) {
	duration, err := s.cfg.Session.ParseDuration()
	if err != nil {
		return nil, fmt.Errorf("session duration: %w", err)
	}
	interval, err := s.cfg.Session.ParsePollInterval()
	if err != nil {
		return nil, fmt.Errorf("poll interval: %w", err)
	}

	start := time.Now()
	deadline := start.Add(duration)

	s.log.Info().
		Str("instrument", s.cfg.Strategy.Instrument).
		Dur("duration", duration).
		Int("window", s.cfg.Strategy.Window).
		Float64("position_size", s.cfg.Strategy.PositionSize).
		Float64("balance", s.cfg.Account.Balance).
		Msg("session starting")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	iteration := 0

loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			s.log.Warn().Msg("session interrupted")
			break loop
		case <-ticker.C:
		}

		iteration++
		if err := s.step(ctx, iteration); err != nil {
			// A failed poll is not fatal; log and keep trading.
			s.log.Error().Err(err).Msg("tick failed")
		}
	}

	if err := s.closeOut(ctx); err != nil {
		return nil, err
	}

	end := time.Now()
	results := s.results(start, end, duration)

	s.log.Info().
		Int("trades", results.Metrics.TotalTrades).
		Float64("total_pl", results.Metrics.TotalProfitLoss).
		Float64("final_balance", results.Metrics.FinalBalance).
		Msg("session complete")

	return results, nil
}

func (s *Session) step(ctx context.Context, iteration int) error {
	tick, err := s.source.CurrentTick(ctx)
	if err != nil {
		return fmt.Errorf("current tick: %w", err)
	}

	metrics.TicksTotal.WithLabelValues(tick.Instrument).Inc()

	if err := s.engine.UpdateTick(tick); err != nil {
		return fmt.Errorf("update tick: %w", err)
	}
	if err := s.strat.OnTick(ctx, s.engine, tick); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	if iteration%statusEvery == 0 {
		s.log.Info().
			Float64("price", tick.Mid()).
			Float64("ma", s.strat.MovingAverage()).
			Int("position", s.strat.Position()).
			Msg("status")
	}
	return nil
}

func (s *Session) closeOut(ctx context.Context) error {
	if s.strat.Position() == 0 {
		return nil
	}

	// Refresh the quote so the close uses the latest price.
	if tick, err := s.source.CurrentTick(ctx); err == nil {
		if err := s.engine.UpdateTick(tick); err != nil {
			return fmt.Errorf("final tick: %w", err)
		}
	}
	if err := s.strat.CloseOpen(ctx, s.engine, sim.ReasonEndSession); err != nil {
		return fmt.Errorf("close at session end: %w", err)
	}
	return nil
}

func (s *Session) results(start, end time.Time, duration time.Duration) *report.Results {
	var trades []report.Trade

	for _, t := range s.engine.ClosedTrades() {
		pl := t.RealizedPL
		trades = append(trades, report.Trade{
			TradeID:       t.ID,
			Type:          report.Side(t.Units),
			Instrument:    t.Instrument,
			Units:         t.Units,
			EntryPrice:    t.EntryPrice,
			ClosePrice:    t.ClosePrice,
			OpenTime:      t.OpenTime,
			CloseTime:     t.CloseTime,
			ProfitLoss:    &pl,
			MovingAverage: s.entryMA[t.ID],
			CloseReason:   t.CloseReason,
		})
		metrics.TradesClosed.WithLabelValues(t.Instrument, t.CloseReason).Inc()
	}
	for _, t := range s.engine.OpenTrades() {
		trades = append(trades, report.Trade{
			TradeID:       t.ID,
			Type:          report.Side(t.Units),
			Instrument:    t.Instrument,
			Units:         t.Units,
			EntryPrice:    t.EntryPrice,
			OpenTime:      t.OpenTime,
			MovingAverage: s.entryMA[t.ID],
		})
	}

	acct, _ := s.engine.GetAccount(context.Background())
	m := report.Analyze(s.cfg.Account.Balance, acct.Balance, trades)

	return &report.Results{
		Session: report.SessionInfo{
			StartTime:      start,
			EndTime:        end,
			Duration:       duration.String(),
			Instrument:     s.cfg.Strategy.Instrument,
			Window:         s.cfg.Strategy.Window,
			PositionSize:   s.cfg.Strategy.PositionSize,
			InitialBalance: s.cfg.Account.Balance,
		},
		Metrics: m,
		Trades:  trades,
	}
}
