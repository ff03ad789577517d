package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// weightKeys are the metric names a full scoring weight map must cover.
var weightKeys = []string{
	"song_familiarity",
	"gear_quality",
	"band_chemistry",
	"setlist_flow",
	"crowd_management",
	"event_responses",
}

// weightSumTolerance bounds the allowed drift of a weight map's sum from 1.0.
const weightSumTolerance = 1e-6

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ENCORE_CONFIG is set
//  3. env (prefix ENCORE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("ENCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ENCORE_ADDR, ENCORE_EVENT_PROBABILITY, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("ENCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "encore_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.EventProbability < 0 || cfg.EventProbability > 1:
		return fmt.Errorf("%w: event_probability must be in [0,1]", ErrInvalidConfig)
	case cfg.InitialEnergy < 0 || cfg.InitialEnergy > 100:
		return fmt.Errorf("%w: initial_energy must be in [0,100]", ErrInvalidConfig)
	case cfg.EnergyMaxDelta <= 0:
		return fmt.Errorf("%w: energy_max_delta must be positive", ErrInvalidConfig)
	case cfg.SnapshotLatencyMinMS < 0 || cfg.SnapshotLatencyMaxMS < cfg.SnapshotLatencyMinMS:
		return fmt.Errorf("%w: snapshot latency bounds are inverted", ErrInvalidConfig)
	}
	if len(cfg.ScoringWeights) > 0 {
		var sum float64
		for _, key := range weightKeys {
			w, ok := cfg.ScoringWeights[key]
			if !ok {
				return fmt.Errorf("%w: scoring_weights missing %s", ErrInvalidConfig, key)
			}
			if w < 0 {
				return fmt.Errorf("%w: scoring_weights[%s] must be non-negative", ErrInvalidConfig, key)
			}
			sum += w
		}
		if math.Abs(sum-1) > weightSumTolerance {
			return fmt.Errorf("%w: scoring_weights must sum to 1, got %.6f", ErrInvalidConfig, sum)
		}
	}
	return nil
}
