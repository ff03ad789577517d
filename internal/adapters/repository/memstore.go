package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/pkg/metrics"
)

// defaultMaxLimit caps TopN queries.
const defaultMaxLimit = 100

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxLimit caps the largest allowed TopN query.
func WithMaxLimit(limit int) Option {
	return func(s *MemStore) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// MemStore implements Store with an in-memory map. Tie-breaking on equal
// scores is by session ID so chart order is stable across calls.
type MemStore struct {
	mu       sync.RWMutex
	results  map[string]*model.PerformanceResult
	byBand   map[string][]*model.PerformanceResult
	maxLimit int
}

// NewMemStore creates an empty in-memory result store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		results:  make(map[string]*model.PerformanceResult),
		byBand:   make(map[string][]*model.PerformanceResult),
		maxLimit: defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a finalized result keyed by session ID.
func (s *MemStore) Save(_ context.Context, result *model.PerformanceResult) error {
	if result == nil {
		return ErrMissingResult
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[result.SessionID]; ok {
		return fmt.Errorf("session %s: %w", result.SessionID, ErrDuplicate)
	}
	s.results[result.SessionID] = result
	s.byBand[result.BandID] = append(s.byBand[result.BandID], result)
	metrics.RecordResultPersisted()
	return nil
}

// Get returns the result for a session.
func (s *MemStore) Get(_ context.Context, sessionID string) (*model.PerformanceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return result, nil
}

// History returns a band's results in completion order.
func (s *MemStore) History(_ context.Context, bandID string) ([]*model.PerformanceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byBand[bandID]
	out := make([]*model.PerformanceResult, len(history))
	copy(out, history)
	return out, nil
}

// TopN returns the best n performances ordered by score descending.
func (s *MemStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > s.maxLimit {
		return nil, fmt.Errorf("limit %d: %w", n, ErrInvalidLimit)
	}
	s.mu.RLock()
	all := make([]*model.PerformanceResult, 0, len(s.results))
	for _, r := range s.results {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].SessionID < all[j].SessionID
	})
	if len(all) > n {
		all = all[:n]
	}

	entries := make([]Entry, len(all))
	for i, r := range all {
		entries[i] = Entry{
			Rank:      i + 1,
			BandID:    r.BandID,
			SessionID: r.SessionID,
			Venue:     r.Venue,
			Score:     r.Score,
			Headline:  r.Headline,
		}
	}
	return entries, nil
}

// Count returns the number of stored results.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
