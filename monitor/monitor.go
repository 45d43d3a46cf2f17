// Package monitor accumulates statistics over a live price stream: tick
// rates, spreads, price changes and short-horizon volatility. It backs the
// stream command's end-of-run report.
package monitor

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/fxsession/indicators"
	"github.com/rustyeddy/fxsession/market"
)

const (
	// DefaultBufferSize bounds the per-instrument tick history.
	DefaultBufferSize = 1000

	// DefaultSignificantMove is the tick-to-tick mid change, in price units,
	// counted as a significant move.
	DefaultSignificantMove = 0.0005

	// volatility window in ticks
	volatilityWindow = 100
)

// instrumentStats tracks one instrument's running numbers.
type instrumentStats struct {
	ticks      int
	firstMid   float64
	lastTick   market.Tick
	minSpread  float64
	maxSpread  float64
	sumSpread  float64
	upMoves    int
	downMoves  int
	bigMoves   int
	volatility *indicators.RollingStdev

	buffer []market.Tick
}

// Monitor observes ticks across instruments. Safe for concurrent use.
type Monitor struct {
	mu sync.Mutex

	bufferSize      int
	significantMove float64
	started         time.Time
	total           int
	byInstrument    map[string]*instrumentStats
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithBufferSize sets how many recent ticks are kept per instrument.
func WithBufferSize(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.bufferSize = n
		}
	}
}

// WithSignificantMove sets the threshold for counting a big tick-to-tick move.
func WithSignificantMove(delta float64) Option {
	return func(m *Monitor) {
		if delta > 0 {
			m.significantMove = delta
		}
	}
}

func New(opts ...Option) *Monitor {
	m := &Monitor{
		bufferSize:      DefaultBufferSize,
		significantMove: DefaultSignificantMove,
		started:         time.Now(),
		byInstrument:    make(map[string]*instrumentStats),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// OnTick folds one tick into the running statistics.
func (m *Monitor) OnTick(t market.Tick) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++

	s, ok := m.byInstrument[t.Instrument]
	if !ok {
		s = &instrumentStats{
			firstMid:   t.Mid(),
			minSpread:  math.Inf(1),
			maxSpread:  math.Inf(-1),
			volatility: indicators.NewRollingStdev(volatilityWindow),
			buffer:     make([]market.Tick, 0, m.bufferSize),
		}
		m.byInstrument[t.Instrument] = s
	}

	spread := t.Spread()
	s.sumSpread += spread
	if spread < s.minSpread {
		s.minSpread = spread
	}
	if spread > s.maxSpread {
		s.maxSpread = spread
	}

	if s.ticks > 0 {
		lastMid := s.lastTick.Mid()
		delta := t.Mid() - lastMid
		switch {
		case delta > 0:
			s.upMoves++
		case delta < 0:
			s.downMoves++
		}
		if math.Abs(delta) > m.significantMove {
			s.bigMoves++
		}
		// Volatility is the stdev of percentage changes, not raw deltas.
		s.volatility.Update(delta / lastMid * 100)
	}

	s.ticks++
	s.lastTick = t

	s.buffer = append(s.buffer, t)
	if len(s.buffer) > m.bufferSize {
		s.buffer = s.buffer[1:]
	}
}

// TotalTicks returns the count of ticks observed across all instruments.
func (m *Monitor) TotalTicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Recent returns up to n most recent ticks for an instrument, oldest first.
func (m *Monitor) Recent(instrument string, n int) []market.Tick {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byInstrument[instrument]
	if !ok {
		return nil
	}
	buf := s.buffer
	if n > 0 && n < len(buf) {
		buf = buf[len(buf)-n:]
	}
	out := make([]market.Tick, len(buf))
	copy(out, buf)
	return out
}

// InstrumentStats is a snapshot of one instrument's numbers.
type InstrumentStats struct {
	Instrument       string
	Ticks            int
	LastBid          float64
	LastAsk          float64
	NetChange        float64
	MinSpread        float64
	MaxSpread        float64
	AvgSpread        float64
	UpMoves          int
	DownMoves        int
	SignificantMoves int
	Volatility       float64
}

// Stats is a snapshot of the whole run.
type Stats struct {
	Started     time.Time
	Elapsed     time.Duration
	TotalTicks  int
	TicksPerSec float64
	Instruments []InstrumentStats
}

// Snapshot computes the current statistics.
func (m *Monitor) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := time.Since(m.started)
	st := Stats{
		Started:    m.started,
		Elapsed:    elapsed,
		TotalTicks: m.total,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		st.TicksPerSec = float64(m.total) / secs
	}

	for name, s := range m.byInstrument {
		is := InstrumentStats{
			Instrument:       name,
			Ticks:            s.ticks,
			LastBid:          s.lastTick.Bid,
			LastAsk:          s.lastTick.Ask,
			NetChange:        s.lastTick.Mid() - s.firstMid,
			MinSpread:        s.minSpread,
			MaxSpread:        s.maxSpread,
			UpMoves:          s.upMoves,
			DownMoves:        s.downMoves,
			SignificantMoves: s.bigMoves,
			Volatility:       s.volatility.Value(),
		}
		if s.ticks > 0 {
			is.AvgSpread = s.sumSpread / float64(s.ticks)
		}
		st.Instruments = append(st.Instruments, is)
	}
	sort.Slice(st.Instruments, func(i, j int) bool {
		return st.Instruments[i].Instrument < st.Instruments[j].Instrument
	})
	return st
}

// WriteReport renders the statistics as a human-readable summary.
func (m *Monitor) WriteReport(w io.Writer) error {
	st := m.Snapshot()

	fmt.Fprintln(w, "STREAM STATISTICS")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Elapsed:       %s\n", st.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Total ticks:   %d\n", st.TotalTicks)
	fmt.Fprintf(w, "Ticks/sec:     %.2f\n", st.TicksPerSec)

	for _, is := range st.Instruments {
		fmt.Fprintf(w, "\n%s\n", is.Instrument)
		fmt.Fprintf(w, "  ticks:             %d\n", is.Ticks)
		fmt.Fprintf(w, "  last bid/ask:      %.5f / %.5f\n", is.LastBid, is.LastAsk)
		fmt.Fprintf(w, "  net change:        %+.5f\n", is.NetChange)
		fmt.Fprintf(w, "  spread min/avg/max: %.5f / %.5f / %.5f\n",
			is.MinSpread, is.AvgSpread, is.MaxSpread)
		fmt.Fprintf(w, "  moves up/down:     %d / %d\n", is.UpMoves, is.DownMoves)
		fmt.Fprintf(w, "  significant moves: %d (> %.4f)\n", is.SignificantMoves, m.significantMove)
		fmt.Fprintf(w, "  volatility:        %.6f\n", is.Volatility)
	}
	return nil
}
