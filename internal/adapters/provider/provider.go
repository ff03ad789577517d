// Package provider defines the band metrics snapshot boundary.
//
// The snapshot fetch is the one potentially suspending operation in a
// performance's lifecycle. It must succeed, or fail, before a session may
// start; a failed fetch never silently defaults, since defaults would mask a
// real upstream failure. Retry policy belongs to the caller.
package provider

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/encore/internal/domain/model"
)

// Default simulated latency bounds for the in-memory implementation.
const (
	defaultMinLatency = 5 * time.Millisecond
	defaultMaxLatency = 20 * time.Millisecond
	defaultRandomSeed = 42
)

// SnapshotProvider fetches the read-only metrics snapshot for a band.
type SnapshotProvider interface {
	// Snapshot returns the band's current metrics, honoring ctx for
	// cancellation. Unknown bands fail with ErrUnavailable; out-of-range
	// metrics fail with ErrOutOfRange.
	Snapshot(ctx context.Context, bandID string) (model.BandSnapshot, error)
}

// Option applies a configuration option to the InMemoryProvider.
type Option func(*InMemoryProvider)

// WithLatencyRange sets the simulated fetch latency bounds.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(p *InMemoryProvider) {
		if minLatency > 0 && maxLatency > minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithBands seeds the provider with known bands.
func WithBands(bands map[string]model.BandSnapshot) Option {
	return func(p *InMemoryProvider) {
		for id, snap := range bands {
			p.bands[id] = snap
		}
	}
}

// InMemoryProvider implements SnapshotProvider with simulated backend latency.
type InMemoryProvider struct {
	mu         sync.RWMutex
	bands      map[string]model.BandSnapshot
	minLatency time.Duration
	maxLatency time.Duration
	rng        *rand.Rand
	rngMu      sync.Mutex
}

// NewInMemoryProvider creates a provider with configuration options.
func NewInMemoryProvider(opts ...Option) *InMemoryProvider {
	p := &InMemoryProvider{
		bands:      make(map[string]model.BandSnapshot),
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // latency jitter, not crypto
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetBand registers or replaces a band's snapshot.
func (p *InMemoryProvider) SetBand(bandID string, snap model.BandSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bands[bandID] = snap
}

// Snapshot returns the stored snapshot after a simulated backend delay.
func (p *InMemoryProvider) Snapshot(ctx context.Context, bandID string) (model.BandSnapshot, error) {
	p.rngMu.Lock()
	latency := p.minLatency + time.Duration(p.rng.Int63n(int64(p.maxLatency-p.minLatency)))
	p.rngMu.Unlock()

	select {
	case <-ctx.Done():
		return model.BandSnapshot{}, fmt.Errorf("snapshot fetch canceled: %w", ctx.Err())
	case <-time.After(latency):
	}

	p.mu.RLock()
	snap, ok := p.bands[bandID]
	p.mu.RUnlock()
	if !ok {
		return model.BandSnapshot{}, fmt.Errorf("band %s: %w", bandID, ErrUnavailable)
	}
	if err := Validate(snap); err != nil {
		return model.BandSnapshot{}, err
	}
	return snap, nil
}

// Validate checks every snapshot metric is within [0,100].
func Validate(snap model.BandSnapshot) error {
	metrics := map[string]float64{
		"song_familiarity": snap.SongFamiliarity,
		"gear_quality":     snap.GearQuality,
		"band_chemistry":   snap.BandChemistry,
		"setlist_flow":     snap.SetlistFlow,
	}
	for name, v := range metrics {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s=%.2f: %w", name, v, ErrOutOfRange)
		}
	}
	return nil
}
