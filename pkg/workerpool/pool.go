// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The propagation sweeps triggered by product edits run on a Pool so a burst
// of admin edits cannot spawn unbounded goroutines. When all workers are busy
// and the queue is full, Submit fails immediately and the caller decides what
// to do with the job.
package workerpool

import (
	"errors"
	"sync"

	"github.com/miraedance/atelier/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the job
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool runs submitted jobs on a fixed set of worker goroutines.
type Pool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closing chan struct{}
}

// New creates a Pool with the given worker count and a job queue sized to
// absorb bursts of queue× jobs beyond the running ones.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{
		jobs:    make(chan func(), queue),
		closing: make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Submit enqueues job without blocking. ErrPoolFull when the queue is at
// capacity, ErrPoolClosed after Shutdown.
func (p *Pool) Submit(job func()) error {
	select {
	case <-p.closing:
		return ErrPoolClosed
	default:
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the job is enqueued or the pool is shut down.
func (p *Pool) SubmitWait(job func()) error {
	select {
	case <-p.closing:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closing:
		return ErrPoolClosed
	case p.jobs <- job:
		return nil
	}
}

// Shutdown stops accepting jobs and waits for queued and in-flight jobs to
// finish. Safe to call more than once.
//
// The jobs channel is never closed: submitters race shutdown, and a send on
// a closed channel would panic the process. Workers exit via the closing
// signal instead, after draining whatever is already queued.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closing)
		p.wg.Wait()
	})
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			runJob(job)
		case <-p.closing:
			for {
				select {
				case job := <-p.jobs:
					runJob(job)
				default:
					return
				}
			}
		}
	}
}

// runJob executes job, recovering and logging panics so a bad job cannot
// take a worker down with it.
func runJob(job func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: job panicked", "panic", r)
		}
	}()
	job()
}
