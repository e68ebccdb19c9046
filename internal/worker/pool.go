package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently. Each
// ownership computation is self-contained (own mapping and matrices), so
// workers share nothing beyond the queue.
//
// Both channels are bounded, so a producer must run alongside a consumer:
// submit from one goroutine, call Close when done, and drain with Wait in
// another. Submitting everything before Wait wedges once the queue, the
// workers, and the results buffer are all full.
type Pool struct {
	workers   int
	jobQueue  chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	queueOnce sync.Once
	closeOnce sync.Once
}

// NewPool creates a new worker pool bound to the caller's context.
// Canceling the context stops the workers and unblocks any pending Submit.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool. It reports false when the pool's
// context was canceled and the job was not accepted.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close marks submission complete. Call it once no more Submits are coming;
// workers exit after the queue drains.
func (p *Pool) Close() {
	p.queueOnce.Do(func() {
		close(p.jobQueue)
	})
}

// Wait drains results until every worker has exited and returns them. It
// must run concurrently with submission so a full results buffer never
// blocks the workers (and, through the bounded queue, Submit).
func (p *Pool) Wait() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
