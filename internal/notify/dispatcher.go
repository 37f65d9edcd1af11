package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrDispatcherClosed = errors.New("dispatcher is closed")

// Job is a best-effort task run after a record has been persisted
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher runs jobs on background workers, detached from the request that
// enqueued them. A failed or dropped job is logged and counted, never
// reported back to the caller.
type Dispatcher struct {
	jobs       chan Job
	log        *slog.Logger
	jobTimeout time.Duration
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	failures atomic.Int64
}

// NewDispatcher starts workers goroutines consuming a queue of queueSize jobs
func NewDispatcher(log *slog.Logger, workers, queueSize int, jobTimeout time.Duration) *Dispatcher {
	d := &Dispatcher{
		jobs:       make(chan Job, queueSize),
		log:        log,
		jobTimeout: jobTimeout,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Enqueue hands jobs to the workers without blocking. Jobs that do not fit in
// the queue are dropped.
func (d *Dispatcher) Enqueue(jobs ...Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, job := range jobs {
		if d.closed {
			d.fail(job, ErrDispatcherClosed)
			continue
		}

		select {
		case d.jobs <- job:
		default:
			d.fail(job, errors.New("notification queue is full"))
		}
	}
}

// Failures returns how many jobs failed or were dropped since start
func (d *Dispatcher) Failures() int64 {
	return d.failures.Load()
}

// Shutdown stops accepting jobs and waits for queued ones to finish or ctx to expire
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.run(job)
	}
}

func (d *Dispatcher) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.fail(job, errors.New("job panicked"))
		}
	}()

	if err := job.Run(ctx); err != nil {
		d.fail(job, err)
		return
	}
	d.log.Debug("notification job completed", "job", job.Name)
}

func (d *Dispatcher) fail(job Job, err error) {
	d.failures.Add(1)
	d.log.Error("notification job failed", "job", job.Name, "error", err)
}
