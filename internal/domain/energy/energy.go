// Package energy tracks the crowd energy signal over one performance.
package energy

import "math/rand"

// Default tracker configuration constants.
const (
	defaultInitial   = 50.0
	defaultMaxDelta  = 10.0 // natural drift drawn uniformly from [-maxDelta, +maxDelta]
	responseMidpoint = 50.0
	responseDivisor  = 2.0
	minEnergy        = 0.0
	maxEnergy        = 100.0
)

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithInitial sets the energy value a reset starts from.
func WithInitial(initial float64) Option {
	return func(t *Tracker) {
		if initial >= minEnergy && initial <= maxEnergy {
			t.initial = initial
		}
	}
}

// WithMaxDelta sets the half-width of the natural fluctuation range.
func WithMaxDelta(delta float64) Option {
	return func(t *Tracker) {
		if delta > 0 {
			t.maxDelta = delta
		}
	}
}

// Tracker maintains the crowd energy scalar and its full history.
// The history gains one sample per natural fluctuation and one additional
// sample per event outcome, so event-heavy phases contribute two
// observations each. That is intentional: drift and correction are kept as
// distinct samples for averaging.
type Tracker struct {
	current  float64
	history  []float64
	initial  float64
	maxDelta float64
	rng      *rand.Rand
}

// New creates a Tracker using rng for natural fluctuation draws.
func New(rng *rand.Rand, opts ...Option) *Tracker {
	t := &Tracker{
		initial:  defaultInitial,
		maxDelta: defaultMaxDelta,
		rng:      rng,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Reset()
	return t
}

// Reset restores the initial energy and seeds the history with it.
func (t *Tracker) Reset() {
	t.current = t.initial
	t.history = []float64{t.initial}
}

// NaturalFluctuation applies a symmetric random drift, clamps to [0,100],
// appends the new value to the history and returns it.
func (t *Tracker) NaturalFluctuation() float64 {
	delta := (t.rng.Float64()*2 - 1) * t.maxDelta
	t.current = clamp(t.current + delta)
	t.history = append(t.history, t.current)
	return t.current
}

// ApplyEventOutcome converts a 0-100 response score into a signed energy
// delta centered on 50, clamps, appends and returns the new value.
func (t *Tracker) ApplyEventOutcome(score int) float64 {
	delta := (float64(score) - responseMidpoint) / responseDivisor
	t.current = clamp(t.current + delta)
	t.history = append(t.history, t.current)
	return t.current
}

// Current returns the present energy value.
func (t *Tracker) Current() float64 {
	return t.current
}

// History returns the recorded samples in append order.
// Callers must treat the slice as read-only.
func (t *Tracker) History() []float64 {
	return t.history
}

// Peak returns the highest sample recorded so far.
func (t *Tracker) Peak() float64 {
	peak := minEnergy
	for _, v := range t.history {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Average returns the mean of all recorded samples.
func (t *Tracker) Average() float64 {
	if len(t.history) == 0 {
		return t.initial
	}
	var sum float64
	for _, v := range t.history {
		sum += v
	}
	return sum / float64(len(t.history))
}

func clamp(v float64) float64 {
	if v < minEnergy {
		return minEnergy
	}
	if v > maxEnergy {
		return maxEnergy
	}
	return v
}
