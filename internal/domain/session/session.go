// Package session owns the finite-state machine of one live performance.
//
// A Session is single-writer: callers must serialize Advance, ResolveEvent,
// DiscardPendingEvent and Complete against the same instance. The engine
// never sleeps, schedules or performs I/O; phase advances are externally
// triggered.
package session

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/encore/internal/domain/energy"
	"github.com/okian/encore/internal/domain/events"
	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/internal/domain/review"
	"github.com/okian/encore/internal/domain/rewards"
	"github.com/okian/encore/internal/domain/scoring"
)

// Neutral defaults substituted at metric-assembly time, never inside the
// pure scoring function.
const (
	neutralEventResponses = 70.0
	minMetric             = 0.0
	maxMetric             = 100.0
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithRand injects the pseudo-random source. Seeded sources make a session
// fully replayable.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithEventProbability sets the per-advance event chance in [0,1].
func WithEventProbability(p float64) Option {
	return func(s *Session) {
		if p >= 0 && p <= 1 {
			s.eventProbability = p
		}
	}
}

// WithScoringWeights overrides the default scoring weight vector.
func WithScoringWeights(w scoring.Weights) Option {
	return func(s *Session) {
		s.weights = &w
	}
}

// WithInitialEnergy sets the crowd energy a started session opens with.
func WithInitialEnergy(v float64) Option {
	return func(s *Session) {
		if v >= minMetric && v <= maxMetric {
			s.initialEnergy = v
		}
	}
}

// WithEnergyMaxDelta sets the half-width of the natural fluctuation range.
func WithEnergyMaxDelta(v float64) Option {
	return func(s *Session) {
		if v > 0 {
			s.energyMaxDelta = v
		}
	}
}

// Session is the mutable root of one performance. All state transitions go
// through the exported operations; no field is externally writable.
type Session struct {
	id       string
	pctx     model.PerformanceContext
	snapshot model.BandSnapshot

	phases       []model.Phase
	currentPhase int
	active       bool
	completed    bool

	tracker   *energy.Tracker
	generator *events.Generator
	scorer    *scoring.Engine
	reviewer  *review.Generator

	pending   *model.PerformanceEvent
	responses []int

	rng              *rand.Rand
	eventProbability float64
	initialEnergy    float64
	energyMaxDelta   float64
	weights          *scoring.Weights
}

// New creates a Session for one scheduled performance. The snapshot must
// already be validated by the provider; New performs no I/O.
func New(pctx model.PerformanceContext, snapshot model.BandSnapshot, opts ...Option) *Session {
	s := &Session{
		id:               uuid.NewString(),
		pctx:             pctx,
		snapshot:         snapshot,
		phases:           model.Phases(),
		eventProbability: -1, // generator default unless overridden
		initialEnergy:    50,
		energyMaxDelta:   10,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // game simulation, not crypto
	}

	genOpts := []events.Option{}
	if s.eventProbability >= 0 {
		genOpts = append(genOpts, events.WithProbability(s.eventProbability))
	}
	s.generator = events.New(s.rng, genOpts...)

	scorerOpts := []scoring.Option{}
	if s.weights != nil {
		scorerOpts = append(scorerOpts, scoring.WithWeights(*s.weights))
	}
	s.scorer = scoring.New(scorerOpts...)

	s.tracker = energy.New(s.rng,
		energy.WithInitial(s.initialEnergy),
		energy.WithMaxDelta(s.energyMaxDelta),
	)
	s.reviewer = review.New(s.rng)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// BandID returns the performing band's identifier.
func (s *Session) BandID() string {
	return s.pctx.BandID
}

// Active reports whether the session has started and not yet completed.
func (s *Session) Active() bool {
	return s.active
}

// CurrentPhase returns the current phase descriptor and its index.
func (s *Session) CurrentPhase() (model.Phase, int) {
	return s.phases[s.currentPhase], s.currentPhase
}

// CrowdEnergy returns the present crowd energy value.
func (s *Session) CrowdEnergy() float64 {
	return s.tracker.Current()
}

// PendingEvent returns the outstanding event, or nil. Read-only for callers.
func (s *Session) PendingEvent() *model.PerformanceEvent {
	return s.pending
}

// Start resets the session to phase zero with fresh energy, history and
// responses, and activates it. A session runs exactly one performance:
// starting an active or completed session fails.
func (s *Session) Start() error {
	if s.active {
		return fmt.Errorf("start: already running: %w", ErrInvalidState)
	}
	if s.completed {
		return fmt.Errorf("start: already completed: %w", ErrInvalidState)
	}
	s.currentPhase = 0
	s.tracker.Reset()
	s.responses = nil
	s.pending = nil
	s.active = true
	return nil
}

// Advance moves to the next phase. On each real advance it first rolls for a
// new event (only when none is pending), then applies a natural energy
// fluctuation. At the final phase it is a no-op. Returns the newly generated
// event, if any.
func (s *Session) Advance() (*model.PerformanceEvent, error) {
	if !s.active {
		return nil, fmt.Errorf("advance: session not running: %w", ErrInvalidState)
	}
	if s.currentPhase >= len(s.phases)-1 {
		return nil, nil
	}
	s.currentPhase++

	var generated *model.PerformanceEvent
	if s.pending == nil {
		if ev := s.generator.MaybeGenerate(time.Now()); ev != nil {
			s.pending = ev
			generated = ev
		}
	}
	s.tracker.NaturalFluctuation()
	return generated, nil
}

// ResolveEvent consumes the pending event by choosing one of its options.
// The option's fixed score is recorded and fed back into crowd energy.
// Returns the new crowd energy.
func (s *Session) ResolveEvent(eventID string, optionIndex int) (float64, error) {
	if s.pending == nil {
		return 0, fmt.Errorf("resolve: no pending event: %w", ErrInvalidEvent)
	}
	if s.pending.ID != eventID {
		return 0, fmt.Errorf("resolve: event %s is not pending: %w", eventID, ErrInvalidEvent)
	}
	if optionIndex < 0 || optionIndex >= len(s.pending.Options) {
		return 0, fmt.Errorf("resolve: option %d out of range: %w", optionIndex, ErrInvalidEvent)
	}
	score := s.pending.Options[optionIndex].Score
	s.pending = nil
	s.responses = append(s.responses, score)
	return s.tracker.ApplyEventOutcome(score), nil
}

// DiscardPendingEvent drops the outstanding event without scoring it. Its
// score never contributes to the result.
func (s *Session) DiscardPendingEvent() error {
	if s.pending == nil {
		return fmt.Errorf("discard: no pending event: %w", ErrInvalidEvent)
	}
	s.pending = nil
	return nil
}

// Complete is the single terminal operation. It fails while an event is
// still pending (resolve or discard first) and on sessions that are not
// running, including already-completed ones. On success it assembles the
// metric vector, runs scoring, rewards and review, deactivates the session
// and returns the immutable result.
func (s *Session) Complete() (*model.PerformanceResult, error) {
	if !s.active {
		return nil, fmt.Errorf("complete: session not running: %w", ErrInvalidState)
	}
	if s.pending != nil {
		return nil, fmt.Errorf("complete: event %s still pending: %w", s.pending.ID, ErrInvalidState)
	}

	metrics := s.assembleMetrics()
	score := s.scorer.Score(metrics)
	breakdown := rewards.Calculate(rewards.Input{
		Score:        score,
		BasePayment:  s.pctx.BasePayment,
		BaseFame:     s.pctx.BaseFame,
		BaseMerch:    s.pctx.BaseMerch,
		AudienceSize: s.pctx.AudienceSize,
		AvgEnergy:    s.tracker.Average(),
	})
	rev := s.reviewer.Generate(score)

	s.active = false
	s.completed = true

	return &model.PerformanceResult{
		SessionID:     s.id,
		BandID:        s.pctx.BandID,
		Venue:         s.pctx.Venue,
		Score:         score,
		Metrics:       metrics,
		EnergyPeak:    s.tracker.Peak(),
		EnergyAverage: s.tracker.Average(),
		Payment:       breakdown.Payment,
		Fame:          breakdown.Fame,
		MerchRevenue:  breakdown.MerchRevenue,
		NewFans:       breakdown.NewFans,
		CriticScore:   rev.CriticScore,
		FanScore:      rev.FanScore,
		Headline:      rev.Headline,
		Summary:       rev.Summary,
		Highlights:    s.highlights(rev.Category),
		CompletedAt:   time.Now().UTC(),
	}, nil
}

// assembleMetrics builds the scoring input vector. Snapshot values are
// clamped so the scoring function never sees out-of-range input; an empty
// response list substitutes the neutral default instead of dividing by zero.
func (s *Session) assembleMetrics() model.PerformanceMetrics {
	eventResponses := neutralEventResponses
	if len(s.responses) > 0 {
		var sum int
		for _, r := range s.responses {
			sum += r
		}
		eventResponses = float64(sum) / float64(len(s.responses))
	}
	return model.PerformanceMetrics{
		SongFamiliarity: clampMetric(s.snapshot.SongFamiliarity),
		GearQuality:     clampMetric(s.snapshot.GearQuality),
		BandChemistry:   clampMetric(s.snapshot.BandChemistry),
		SetlistFlow:     clampMetric(s.snapshot.SetlistFlow),
		CrowdManagement: clampMetric(s.tracker.Average()),
		EventResponses:  clampMetric(eventResponses),
	}
}

// highlights derives the moment-by-moment callouts shown with the result.
func (s *Session) highlights(category review.Category) []string {
	hl := []string{
		fmt.Sprintf("Crowd energy peaked at %d%%", int(math.Round(s.tracker.Peak()))),
	}
	if n := len(s.responses); n > 0 {
		noun := "surprises"
		if n == 1 {
			noun = "surprise"
		}
		hl = append(hl, fmt.Sprintf("The band handled %d onstage %s", n, noun))
	}
	switch category {
	case review.CategoryExcellent:
		hl = append(hl, "The whole room was singing by the final song")
	case review.CategoryPoor:
		hl = append(hl, "The crowd thinned out before the set ended")
	case review.CategoryGood, review.CategoryAverage:
	}
	return hl
}

func clampMetric(v float64) float64 {
	if v < minMetric {
		return minMetric
	}
	if v > maxMetric {
		return maxMetric
	}
	return v
}
