package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by AsyncEmitter.EmitEvent.
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncEmitterConfig sizes the queue and the worker pool of an AsyncEmitter.
type AsyncEmitterConfig struct {
	// QueueSize bounds the number of events waiting for delivery.
	QueueSize int

	// WorkerCount is the number of delivery goroutines. Values below one
	// are raised to one.
	WorkerCount int
}

// AsyncEmitter queues events and delivers them to a downstream emitter from
// a pool of background workers, so request handling never waits on
// handlers. Delivery order across workers is not guaranteed.
type AsyncEmitter struct {
	next   EventEmitter
	queue  chan *TaskEvent
	logger *slog.Logger

	workerCount int
	wg          sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	started bool
}

var _ EventEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter creates an AsyncEmitter that forwards to next.
// Call Start before emitting and Stop to drain the queue.
func NewAsyncEmitter(next EventEmitter, cfg AsyncEmitterConfig, logger *slog.Logger) *AsyncEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "async_event_emitter")

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
		workerCount = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 0 {
		queueSize = 0
	}

	return &AsyncEmitter{
		next:        next,
		queue:       make(chan *TaskEvent, queueSize),
		logger:      logger,
		workerCount: workerCount,
	}
}

// Start launches the workers. Calling Start more than once has no effect.
func (e *AsyncEmitter) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed {
		return
	}
	e.started = true

	for i := 0; i < e.workerCount; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	e.logger.Info("event workers started", "worker_count", e.workerCount, "queue_cap", cap(e.queue))
}

// Stop closes the queue and waits until every queued event is delivered.
func (e *AsyncEmitter) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
	e.logger.Info("event workers stopped")
}

// EmitEvent enqueues event without blocking. It returns ErrQueueFull when
// the queue is at capacity and ErrQueueClosed after Stop.
func (e *AsyncEmitter) EmitEvent(_ context.Context, event *TaskEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrQueueClosed
	}

	select {
	case e.queue <- event:
		e.logger.Debug("event enqueued",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_len", len(e.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(e.queue))
	}
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()
	e.logger.Debug("starting worker", "worker_id", id)

	for event := range e.queue {
		// Request contexts are gone by now; delivery runs detached.
		if err := e.next.EmitEvent(context.Background(), event); err != nil {
			e.logger.Error("event delivery failed",
				"error", err,
				"worker_id", id,
				"event_id", event.ID,
				"event_type", event.Type)
		}
	}

	e.logger.Debug("event queue closed, stopping worker", "worker_id", id)
}
