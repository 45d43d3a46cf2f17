package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingMeanWarmup(t *testing.T) {
	t.Parallel()

	m := NewRollingMean(5)
	assert.False(t, m.Ready())
	assert.Equal(t, 0.0, m.Value())

	m.Update(1.10)
	assert.False(t, m.Ready())

	m.Update(1.12)
	assert.True(t, m.Ready())
	assert.InDelta(t, 1.11, m.Value(), 1e-9)
}

func TestRollingMeanWindowBound(t *testing.T) {
	t.Parallel()

	m := NewRollingMean(3)
	for _, p := range []float64{1, 2, 3, 4, 5} {
		m.Update(p)
	}

	// Only the last three prices remain.
	assert.Equal(t, 3, m.Count())
	assert.InDelta(t, 4.0, m.Value(), 1e-9)
}

func TestRollingMeanReset(t *testing.T) {
	t.Parallel()

	m := NewRollingMean(4)
	m.Update(1.0)
	m.Update(2.0)
	assert.True(t, m.Ready())

	m.Reset()
	assert.False(t, m.Ready())
	assert.Equal(t, 0, m.Count())
}

func TestRollingMeanName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MA(20)", NewRollingMean(20).Name())
}

func TestStdev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Stdev(nil))
	assert.Equal(t, 0.0, Stdev([]float64{1.5}))

	// Sample stdev of 2,4,4,4,5,5,7,9 is ~2.138.
	got := Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.1380899, got, 1e-6)
}

func TestRollingStdevWindow(t *testing.T) {
	t.Parallel()

	s := NewRollingStdev(3)
	s.Update(10)
	assert.Equal(t, 0.0, s.Value())

	s.Update(10)
	s.Update(10)
	assert.Equal(t, 0.0, s.Value())

	// Window slides; values become {10, 10, 13}.
	s.Update(13)
	assert.Equal(t, 3, s.Count())
	assert.InDelta(t, 1.7320508, s.Value(), 1e-6)
}
