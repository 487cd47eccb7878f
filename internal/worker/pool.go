// Package worker runs the bounded pool that processes webhook events after
// they have been acknowledged. Jobs arrive typed and deduplicated; a worker
// simply routes each one and logs the outcome. There is no retry loop:
// processing is at-most-once, and anything that fails mid-way has already
// apologized to the sender.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"zalo-hr-gateway/internal/events"
	"zalo-hr-gateway/internal/models"
)

// Processor handles one event and reports what was done with it.
type Processor interface {
	Route(ctx context.Context, event models.WebhookEvent) events.Outcome
}

// Pool manages the worker goroutines and the job queue.
type Pool struct {
	JobQueue  chan models.Job
	wg        sync.WaitGroup
	logger    *slog.Logger
	processor Processor
}

// NewPool creates a pool with a bounded queue. The handler enqueues with a
// non-blocking send, so the queue size is the backpressure limit.
func NewPool(maxQueueSize int, processor Processor, logger *slog.Logger) *Pool {
	return &Pool{
		JobQueue:  make(chan models.Job, maxQueueSize),
		logger:    logger,
		processor: processor,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(numWorkers int) {
	for i := 1; i <= numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop closes the queue and waits for in-flight jobs to drain.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool... Closing job queue.")
	close(p.JobQueue)
	p.wg.Wait()
	p.logger.Info("All workers have stopped.")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.logger.Info("Worker started", "worker_id", id)

	for job := range p.JobQueue {
		logger := p.logger.With("worker_id", id, "event_id", job.Key, "event_name", job.Event.EventName)

		// Workers outlive any single request, so processing is not tied to
		// the webhook request context.
		outcome := p.processor.Route(context.Background(), job.Event)
		logger.Info("Event processed", "outcome", outcome)
	}
}
