// Package queue defines the bounded in-memory queue feeding persist workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/pkg/metrics"
)

// defaultCapacity bounds the queue when no option overrides it.
const defaultCapacity = 10000

// Result is the payload type flowing through the queue.
type Result = *model.PerformanceResult

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a result. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, r Result) bool

	// Dequeue returns the channel persist workers consume from. The channel
	// is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Result

	// Len returns the current number of queued results.
	Len(ctx context.Context) int

	// Close stops the queue. No further enqueues succeed.
	Close() error

	// IsClosed reports whether Close has been called.
	IsClosed() bool
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	results  chan Result
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.results = make(chan Result, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a result without blocking.
func (q *InMemoryQueue) Enqueue(_ context.Context, r Result) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.results <- r:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.results))
		return true
	default:
		metrics.RecordQueueDropped()
		return false
	}
}

// Dequeue exposes the consumer channel.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Result {
	return q.results
}

// Len returns the number of buffered results.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.results)
}

// Close stops the queue and closes the consumer channel.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrAlreadyClosed
	}
	q.closed = true
	close(q.results)
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
