// Package worker runs the persist workers draining the result queue.
package worker

import (
	"context"
	"sync"

	"github.com/okian/encore/internal/adapters/mq/queue"
	"github.com/okian/encore/pkg/logger"
	"github.com/okian/encore/pkg/metrics"
)

// defaultWorkerCount is used when no option overrides it.
const defaultWorkerCount = 4

// Persister writes a finalized result to durable storage.
type Persister interface {
	Save(ctx context.Context, result queue.Result) error
}

// Source is how workers receive results.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Result
}

// Pool runs a fixed set of persist workers over a shared source.
type Pool struct {
	source    Source
	persister Persister
	count     int
	logger    logger.Logger
	wg        sync.WaitGroup
}

// NewPool creates a worker pool with configuration options.
func NewPool(source Source, persister Persister, opts ...Option) *Pool {
	p := &Pool{
		source:    source,
		persister: persister,
		count:     defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker")
	}
	return p
}

// Start launches the workers. They exit when ctx is canceled or the source
// channel closes.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerCount(p.count)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateWorkerCount(0)
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	results := p.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			// Drain what is already buffered before exiting.
			p.drain(results)
			return
		case r, ok := <-results:
			if !ok {
				return
			}
			p.persist(ctx, id, r)
		}
	}
}

func (p *Pool) drain(results <-chan queue.Result) {
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return
			}
			p.persist(context.Background(), 0, r)
		default:
			return
		}
	}
}

func (p *Pool) persist(ctx context.Context, id int, r queue.Result) {
	metrics.RecordQueueDequeue()
	if err := p.persister.Save(ctx, r); err != nil {
		metrics.RecordPersistError()
		p.logger.Error(ctx, "failed to persist result",
			logger.Int("worker", id),
			logger.String("session_id", r.SessionID),
			logger.Error(err),
		)
		return
	}
	p.logger.Debug(ctx, "result persisted",
		logger.Int("worker", id),
		logger.String("session_id", r.SessionID),
		logger.Int("score", r.Score),
	)
}
