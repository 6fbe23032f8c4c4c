// Package worker precomputes momentum outputs for queued matches.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/pkg/logger"
	"github.com/okian/momentum/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.Job

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// MatchSource looks up the match a job refers to.
type MatchSource interface {
	Get(ctx context.Context, id string) (model.Match, error)
}

// Calculator computes the momentum output of a match.
type Calculator interface {
	Calculate(ctx context.Context, m model.Match) (model.MomentumOutput, error)
}

// ResultSink receives computed outputs.
type ResultSink interface {
	Put(id string, out model.MomentumOutput)
}

// Worker processes jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	source     MatchSource
	calculator Calculator
	sink       ResultSink
	name       string
	tracker    *tracker

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, source MatchSource, calculator Calculator, sink ResultSink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		source:     source,
		calculator: calculator,
		sink:       sink,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("matchID", job.MatchID), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process computes and stores the output of a single job. A panic in the
// calculator fails the job instead of the process.
func (w *InMemoryWorker) process(ctx context.Context, job Job) (err error) {
	w.tracker.busy()
	defer w.tracker.idle()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "panic")
			err = fmt.Errorf("compute match %s: %w: %v", job.MatchID, ErrPanic, r)
		}
	}()

	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	m, err := w.source.Get(ctx, job.MatchID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "lookup_error")
		return fmt.Errorf("lookup match %s: %w", job.MatchID, err)
	}

	out, err := w.calculator.Calculate(ctx, m)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "compute_error")
		return fmt.Errorf("compute match %s: %w", job.MatchID, err)
	}

	w.sink.Put(job.MatchID, out)
	w.tracker.processed()
	w.logger.Debug(ctx, "precomputed momentum",
		logger.String("matchID", job.MatchID),
		logger.Int("games", len(out.States)),
		logger.Int("events", len(out.Events)),
	)
	return nil
}

// tracker keeps the pool's busy and processed counters. A nil tracker is a no-op.
type tracker struct {
	size   int
	active atomic.Int64
	done   atomic.Int64
}

func (t *tracker) busy() {
	if t == nil {
		return
	}
	t.report(t.active.Add(1))
}

func (t *tracker) idle() {
	if t == nil {
		return
	}
	t.report(t.active.Add(-1))
}

func (t *tracker) processed() {
	if t != nil {
		t.done.Add(1)
	}
}

func (t *tracker) report(active int64) {
	metrics.UpdateWorkerActiveCount(int(active))
	metrics.UpdateWorkerIdleCount(t.size - int(active))
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	tracker *tracker

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount uses one
// worker per CPU.
func NewPool(workerCount int, queue Queue, source MatchSource, calculator Calculator, sink ResultSink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		tracker: &tracker{size: workerCount},
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			source,
			calculator,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
			withTracker(pool.tracker),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Active returns the number of workers computing a job right now.
func (p *Pool) Active() int {
	return int(p.tracker.active.Load())
}

// Processed returns the number of jobs completed successfully.
func (p *Pool) Processed() int64 {
	return p.tracker.done.Load()
}

// Shutdown closes the queue so workers drain what is pending, then waits
// for every worker to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
		}
	}

	return nil
}
