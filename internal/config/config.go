// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventProbability is the chance each phase advance spawns an event.
	EventProbability float64 `koanf:"event_probability"`

	// InitialEnergy is the crowd energy a session starts from.
	InitialEnergy float64 `koanf:"initial_energy"`

	// EnergyMaxDelta bounds the natural per-advance energy drift.
	EnergyMaxDelta float64 `koanf:"energy_max_delta"`

	// ScoringWeights maps metric names to their scoring weights. When set,
	// all six metrics must be present and the weights must sum to 1.
	ScoringWeights map[string]float64 `koanf:"scoring_weights"`

	// RandomSeed seeds per-session randomness. Zero selects a time-based
	// seed per session.
	RandomSeed int64 `koanf:"random_seed"`

	// ResultQueueSize bounds the persistence queue.
	ResultQueueSize int `koanf:"result_queue_size"`

	// WorkerCount sets the number of persist workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxChartLimit caps GET /chart?limit.
	MaxChartLimit int `koanf:"max_chart_limit"`

	// SnapshotLatencyMinMS and SnapshotLatencyMaxMS simulate the band
	// metrics backend latency bounds.
	SnapshotLatencyMinMS int `koanf:"snapshot_latency_min_ms"`
	SnapshotLatencyMaxMS int `koanf:"snapshot_latency_max_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		EventProbability:     0.4,
		InitialEnergy:        50,
		EnergyMaxDelta:       10,
		RandomSeed:           0,
		ResultQueueSize:      10_000,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           50_000,
		MaxChartLimit:        100,
		SnapshotLatencyMinMS: 5,
		SnapshotLatencyMaxMS: 20,
	}
}
