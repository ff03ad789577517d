package worker

import (
	"github.com/okian/encore/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithCount sets the number of persist workers.
func WithCount(count int) Option {
	return func(p *Pool) {
		if count > 0 {
			p.count = count
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
