// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// It owns the live-session registry and the persistence pipeline. The
// session FSM itself carries no locks; the service serializes every
// operation against a session through its per-session mutex, honoring the
// engine's single-writer invariant.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/encore/internal/adapters/mq/queue"
	"github.com/okian/encore/internal/adapters/mq/worker"
	"github.com/okian/encore/internal/adapters/provider"
	"github.com/okian/encore/internal/adapters/repository"
	"github.com/okian/encore/internal/domain/dedupe"
	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/internal/domain/scoring"
	"github.com/okian/encore/internal/domain/session"
	"github.com/okian/encore/pkg/logger"
	"github.com/okian/encore/pkg/metrics"
)

// sessionHandle pairs a session with the mutex serializing calls into it.
type sessionHandle struct {
	mu sync.Mutex
	s  *session.Session
}

// SessionState is a read-only snapshot of a live session for the API.
type SessionState struct {
	SessionID    string                  `json:"session_id"`
	BandID       string                  `json:"band_id"`
	Active       bool                    `json:"active"`
	PhaseIndex   int                     `json:"phase_index"`
	Phase        model.Phase             `json:"phase"`
	CrowdEnergy  float64                 `json:"crowd_energy"`
	PendingEvent *model.PerformanceEvent `json:"pending_event,omitempty"`
}

// Stats summarizes service health for the /stats endpoint.
type Stats struct {
	ActiveSessions   int   `json:"active_sessions"`
	CompletedResults int   `json:"completed_results"`
	QueueLength      int   `json:"queue_length"`
	DedupeSize       int64 `json:"dedupe_size"`
}

// Service implements the API dependencies for the performance engine.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHandle

	provider provider.SnapshotProvider
	store    repository.Store
	queue    queue.Queue
	pool     *worker.Pool
	deduper  dedupe.Deduper

	// Configuration
	eventProbability float64
	initialEnergy    float64
	energyMaxDelta   float64
	weights          *scoring.Weights
	randomSeed       int64
	queueSize        int
	workerCount      int
	dedupeSize       int
	maxChartLimit    int

	// State
	started   bool
	stop      context.CancelFunc
	completed atomic.Int64
	seedSeq   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the band snapshot provider.
func WithProvider(p provider.SnapshotProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithStore sets the result repository.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventProbability sets the per-advance event chance.
func WithEventProbability(p float64) Option {
	return func(s *Service) {
		if p >= 0 && p <= 1 {
			s.eventProbability = p
		}
	}
}

// WithInitialEnergy sets the crowd energy sessions start from.
func WithInitialEnergy(v float64) Option {
	return func(s *Service) {
		if v >= 0 && v <= 100 {
			s.initialEnergy = v
		}
	}
}

// WithEnergyMaxDelta sets the natural fluctuation half-width.
func WithEnergyMaxDelta(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.energyMaxDelta = v
		}
	}
}

// WithScoringWeights sets the scoring weight map. The map must carry all six
// metric keys; config validation guarantees that for loaded configs.
func WithScoringWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) == 0 {
			return
		}
		s.weights = &scoring.Weights{
			SongFamiliarity: weights["song_familiarity"],
			GearQuality:     weights["gear_quality"],
			BandChemistry:   weights["band_chemistry"],
			SetlistFlow:     weights["setlist_flow"],
			CrowdManagement: weights["crowd_management"],
			EventResponses:  weights["event_responses"],
		}
	}
}

// WithRandomSeed sets the base seed for per-session randomness. The nth
// session created draws from base+n, so each show rolls its own numbers
// while any single session stays replayable. Zero keeps time-based seeds.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.randomSeed = seed
	}
}

// WithQueueSize sets the persistence queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of persist workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxChartLimit caps chart queries on the default store. A store passed
// via WithStore carries its own cap.
func WithMaxChartLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxChartLimit = limit
		}
	}
}

// New creates a Service with configuration options applied.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:         make(map[string]*sessionHandle),
		eventProbability: 0.4,
		initialEnergy:    50,
		energyMaxDelta:   10,
		queueSize:        10_000,
		workerCount:      4,
		dedupeSize:       50_000,
		maxChartLimit:    100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.provider == nil {
		s.provider = provider.NewInMemoryProvider()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithMaxLimit(s.maxChartLimit))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start launches the persistence pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	s.pool = worker.NewPool(s.queue, s.store,
		worker.WithCount(s.workerCount),
		worker.WithLogger(s.logger.Named("persist")),
	)
	s.pool.Start(runCtx)
	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
	)
	return nil
}

// Stop drains and shuts down the persistence pipeline.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.started = false
	queueRef := s.queue
	poolRef := s.pool
	stop := s.stop
	s.mu.Unlock()

	if err := queueRef.Close(); err != nil {
		s.logger.Warn(ctx, "queue close failed", logger.Error(err))
	}
	poolRef.Wait()
	stop()
	s.logger.Info(ctx, "service stopped")
	return nil
}

// CreateSession fetches the band snapshot and registers a new session.
// The fetch must succeed before the session exists at all: a failed or
// out-of-range snapshot never yields a startable session.
func (s *Service) CreateSession(ctx context.Context, pctx model.PerformanceContext) (string, error) {
	snap, err := s.provider.Snapshot(ctx, pctx.BandID)
	if err != nil {
		metrics.RecordSnapshotFetchError()
		return "", fmt.Errorf("create session: %w", err)
	}

	seed := s.randomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		// Offset by the creation sequence so sessions sharing a base
		// seed do not replay the same show.
		seed += s.seedSeq.Add(1) - 1
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // game simulation, not crypto

	sessOpts := []session.Option{
		session.WithRand(rng),
		session.WithEventProbability(s.eventProbability),
		session.WithInitialEnergy(s.initialEnergy),
		session.WithEnergyMaxDelta(s.energyMaxDelta),
	}
	if s.weights != nil {
		sessOpts = append(sessOpts, session.WithScoringWeights(*s.weights))
	}
	sess := session.New(pctx, snap, sessOpts...)

	s.mu.Lock()
	s.sessions[sess.ID()] = &sessionHandle{s: sess}
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(active)
	s.logger.Info(ctx, "session created",
		logger.String("session_id", sess.ID()),
		logger.String("band_id", pctx.BandID),
		logger.String("venue", pctx.Venue),
	)
	return sess.ID(), nil
}

// StartSession begins the performance at phase zero.
func (s *Service) StartSession(ctx context.Context, sessionID string) error {
	h, err := s.handle(sessionID)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s.Start()
}

// AdvanceSession moves the session to its next phase and returns the newly
// generated event, if any.
func (s *Service) AdvanceSession(ctx context.Context, sessionID string) (*model.PerformanceEvent, error) {
	h, err := s.handle(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ev, err := h.s.Advance()
	if err != nil {
		return nil, err
	}
	metrics.RecordPhaseAdvance()
	if ev != nil {
		metrics.RecordEventGenerated(string(ev.Type))
	}
	return ev, nil
}

// ResolveEvent consumes the pending event with the chosen option and returns
// the new crowd energy.
func (s *Service) ResolveEvent(ctx context.Context, sessionID, eventID string, optionIndex int) (float64, error) {
	h, err := s.handle(sessionID)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.s.ResolveEvent(eventID, optionIndex)
	if err != nil {
		return 0, err
	}
	metrics.RecordEventResolved()
	return e, nil
}

// DiscardEvent drops the pending event without scoring it.
func (s *Service) DiscardEvent(ctx context.Context, sessionID string) error {
	h, err := s.handle(sessionID)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.s.DiscardPendingEvent(); err != nil {
		return err
	}
	metrics.RecordEventDiscarded()
	return nil
}

// CompleteSession finalizes the performance, hands the result to the
// persistence pipeline and returns it to the caller.
func (s *Service) CompleteSession(ctx context.Context, sessionID string) (*model.PerformanceResult, error) {
	h, err := s.handle(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	result, err := h.s.Complete()
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.completed.Add(1)
	metrics.RecordSessionCompleted()
	metrics.RecordPerformanceScore(float64(result.Score))
	metrics.RecordCrowdEnergyAverage(result.EnergyAverage)

	// The FSM already rejects a second Complete; the deduper guards the
	// async pipeline against replayed results.
	if s.deduper.SeenAndRecord(ctx, result.SessionID) {
		metrics.RecordResultDuplicate()
		return result, nil
	}
	if !s.queue.Enqueue(ctx, result) {
		s.deduper.Unrecord(ctx, result.SessionID)
		s.logger.Warn(ctx, "result queue full; result not persisted",
			logger.String("session_id", result.SessionID),
		)
	}

	s.logger.Info(ctx, "performance completed",
		logger.String("session_id", result.SessionID),
		logger.String("band_id", result.BandID),
		logger.Int("score", result.Score),
		logger.Int("payment", result.Payment),
		logger.Int("fame", result.Fame),
	)
	return result, nil
}

// ReleaseSession removes a session from the registry. Abandoning before
// completion is a valid terminal state: no partial rewards are computed.
func (s *Service) ReleaseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	h, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("release %s: %w", sessionID, ErrSessionNotFound)
	}
	metrics.UpdateActiveSessions(active)

	h.mu.Lock()
	abandoned := h.s.Active()
	h.mu.Unlock()
	if abandoned {
		metrics.RecordSessionAbandoned()
		s.logger.Info(ctx, "session abandoned", logger.String("session_id", sessionID))
	}
	return nil
}

// SessionState returns a read-only view of a session.
func (s *Service) SessionState(ctx context.Context, sessionID string) (SessionState, error) {
	h, err := s.handle(sessionID)
	if err != nil {
		return SessionState{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	phase, idx := h.s.CurrentPhase()
	return SessionState{
		SessionID:    h.s.ID(),
		BandID:       h.s.BandID(),
		Active:       h.s.Active(),
		PhaseIndex:   idx,
		Phase:        phase,
		CrowdEnergy:  h.s.CrowdEnergy(),
		PendingEvent: h.s.PendingEvent(),
	}, nil
}

// Result returns a persisted performance result.
func (s *Service) Result(ctx context.Context, sessionID string) (*model.PerformanceResult, error) {
	return s.store.Get(ctx, sessionID)
}

// History returns a band's persisted results in completion order.
func (s *Service) History(ctx context.Context, bandID string) ([]*model.PerformanceResult, error) {
	return s.store.History(ctx, bandID)
}

// Chart returns the top-n performances ordered by score.
func (s *Service) Chart(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.store.TopN(ctx, n)
}

// ServiceStats reports current service health.
func (s *Service) ServiceStats(ctx context.Context) Stats {
	s.mu.RLock()
	active := len(s.sessions)
	s.mu.RUnlock()
	return Stats{
		ActiveSessions:   active,
		CompletedResults: s.store.Count(ctx),
		QueueLength:      s.queue.Len(ctx),
		DedupeSize:       s.deduper.Size(),
	}
}

func (s *Service) handle(sessionID string) (*sessionHandle, error) {
	s.mu.RLock()
	h, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return h, nil
}
