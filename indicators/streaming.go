package indicators

import (
	"fmt"
	"math"
)

// RollingMean is a streaming arithmetic mean over a bounded window of prices.
// It becomes Ready once minSamples prices have been observed, before the
// window itself is full, matching how the session algorithm warms up.
type RollingMean struct {
	window     int
	minSamples int
	prices     []float64
}

// NewRollingMean creates a rolling mean over the last window prices.
// The mean is considered ready after two samples.
func NewRollingMean(window int) *RollingMean {
	return &RollingMean{
		window:     window,
		minSamples: 2,
		prices:     make([]float64, 0, window),
	}
}

func (m *RollingMean) Name() string {
	return fmt.Sprintf("MA(%d)", m.window)
}

func (m *RollingMean) Window() int { return m.window }

func (m *RollingMean) Count() int { return len(m.prices) }

func (m *RollingMean) Reset() {
	m.prices = m.prices[:0]
}

// Update appends a price, dropping the oldest once the window is full.
func (m *RollingMean) Update(price float64) {
	m.prices = append(m.prices, price)
	if len(m.prices) > m.window {
		m.prices = m.prices[1:]
	}
}

func (m *RollingMean) Ready() bool {
	return len(m.prices) >= m.minSamples
}

// Value returns the mean of the buffered prices, or 0 before Ready.
func (m *RollingMean) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, p := range m.prices {
		sum += p
	}
	return sum / float64(len(m.prices))
}

// RollingStdev is a streaming sample standard deviation over a bounded window.
// The stream monitor uses it for tick-to-tick volatility.
type RollingStdev struct {
	window int
	values []float64
}

func NewRollingStdev(window int) *RollingStdev {
	return &RollingStdev{
		window: window,
		values: make([]float64, 0, window),
	}
}

func (s *RollingStdev) Count() int { return len(s.values) }

func (s *RollingStdev) Update(v float64) {
	s.values = append(s.values, v)
	if len(s.values) > s.window {
		s.values = s.values[1:]
	}
}

// Value returns the sample standard deviation, or 0 with fewer than two values.
func (s *RollingStdev) Value() float64 {
	return Stdev(s.values)
}

// Stdev computes the sample standard deviation of values.
func Stdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
