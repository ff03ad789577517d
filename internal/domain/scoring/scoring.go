// Package scoring computes the final performance score from assembled metrics.
package scoring

import (
	"math"

	"github.com/okian/encore/internal/domain/model"
)

// weightTolerance bounds the allowed drift of a weight vector's sum from 1.0.
const weightTolerance = 1e-6

// Weights is the convex weight vector applied to the metrics.
type Weights struct {
	SongFamiliarity float64
	GearQuality     float64
	BandChemistry   float64
	SetlistFlow     float64
	CrowdManagement float64
	EventResponses  float64
}

// DefaultWeights returns the standard weight vector.
func DefaultWeights() Weights {
	return Weights{
		SongFamiliarity: 0.25,
		GearQuality:     0.15,
		BandChemistry:   0.20,
		SetlistFlow:     0.15,
		CrowdManagement: 0.15,
		EventResponses:  0.10,
	}
}

// sum returns the total of all weight components.
func (w Weights) sum() float64 {
	return w.SongFamiliarity + w.GearQuality + w.BandChemistry +
		w.SetlistFlow + w.CrowdManagement + w.EventResponses
}

// valid reports whether the vector is convex: non-negative components
// summing to 1.
func (w Weights) valid() bool {
	for _, v := range []float64{
		w.SongFamiliarity, w.GearQuality, w.BandChemistry,
		w.SetlistFlow, w.CrowdManagement, w.EventResponses,
	} {
		if v < 0 {
			return false
		}
	}
	return math.Abs(w.sum()-1) <= weightTolerance
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the default weight vector. Invalid vectors are ignored.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.valid() {
			e.weights = w
		}
	}
}

// Engine maps a bounded metric vector to a single 0-100 score.
// Score is pure: no randomness, no I/O, no state mutation.
type Engine struct {
	weights Weights
}

// New creates an Engine with the default weights unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the weighted sum of the metric vector, rounded to the
// nearest integer. Inputs must already be bounded to [0,100]; missing-metric
// defaulting is the assembler's job, never this function's.
func (e *Engine) Score(m model.PerformanceMetrics) int {
	w := e.weights
	total := w.SongFamiliarity*m.SongFamiliarity +
		w.GearQuality*m.GearQuality +
		w.BandChemistry*m.BandChemistry +
		w.SetlistFlow*m.SetlistFlow +
		w.CrowdManagement*m.CrowdManagement +
		w.EventResponses*m.EventResponses
	return int(math.Round(total))
}
