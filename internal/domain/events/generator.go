package events

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/encore/internal/domain/model"
)

// defaultProbability is the chance an advance produces an event.
const defaultProbability = 0.4

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithProbability sets the per-advance event probability in [0,1].
func WithProbability(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.probability = p
		}
	}
}

// WithTemplates replaces the built-in template catalog.
func WithTemplates(templates []Template) Option {
	return func(g *Generator) {
		if len(templates) > 0 {
			g.templates = templates
		}
	}
}

// Generator rolls for performance events during phase advances.
type Generator struct {
	probability float64
	templates   []Template
	rng         *rand.Rand
}

// New creates a Generator drawing from rng.
func New(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		probability: defaultProbability,
		templates:   catalog,
		rng:         rng,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaybeGenerate rolls the event probability and, on a hit, instantiates a
// fresh event from a uniformly chosen template. Returns nil on a miss.
// Callers must not invoke it while another event is pending.
func (g *Generator) MaybeGenerate(now time.Time) *model.PerformanceEvent {
	if g.rng.Float64() >= g.probability {
		return nil
	}
	tpl := g.templates[g.rng.Intn(len(g.templates))]
	options := make([]model.EventOption, len(tpl.Options))
	copy(options, tpl.Options)
	return &model.PerformanceEvent{
		ID:          uuid.NewString(),
		Type:        tpl.Type,
		Description: tpl.Description,
		Options:     options,
		CreatedAt:   now,
	}
}
