// Package repository defines the performance-result store interface.
//
// The engine itself never touches storage; completed results are handed to
// this boundary by the persistence pipeline, and the read side serves the
// game's performance chart.
package repository

import (
	"context"

	"github.com/okian/encore/internal/domain/model"
)

// Entry is one row of the performance chart.
type Entry struct {
	Rank      int    `json:"rank"`
	BandID    string `json:"band_id"`
	SessionID string `json:"session_id"`
	Venue     string `json:"venue"`
	Score     int    `json:"score"`
	Headline  string `json:"headline"`
}

// Store provides write and read access to finalized performance results.
type Store interface {
	// Save stores a finalized result. Saving the same session twice fails
	// with ErrDuplicate.
	Save(ctx context.Context, result *model.PerformanceResult) error

	// Get returns the result for a session, or ErrNotFound.
	Get(ctx context.Context, sessionID string) (*model.PerformanceResult, error)

	// History returns a band's results in completion order.
	History(ctx context.Context, bandID string) ([]*model.PerformanceResult, error)

	// TopN returns the best n performances ordered by score descending.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of stored results.
	Count(ctx context.Context) int
}
