// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/momentum/internal/adapters/mq/queue"
	workerpool "github.com/okian/momentum/internal/adapters/mq/worker"
	"github.com/okian/momentum/internal/adapters/repository"
	"github.com/okian/momentum/internal/domain/dedupe"
	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/domain/momentum"
	"github.com/okian/momentum/pkg/logger"
	"github.com/okian/momentum/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	defaultCacheSize = 256
	stopTimeout      = 10 * time.Second
)

// instrumented records pipeline metrics around a Calculator.
type instrumented struct {
	next momentum.Calculator
}

func (c instrumented) Calculate(ctx context.Context, m model.Match) (model.MomentumOutput, error) {
	start := time.Now()
	out, err := c.next.Calculate(ctx, m)
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordComputeFailure()
		metrics.RecordErrorLatency("pipeline", "compute_error", ms)
		return out, err
	}

	metrics.RecordPipelineLatency(ms)
	metrics.RecordMatchComputed()
	metrics.RecordGamesProcessed(len(out.States))
	for _, e := range out.Events {
		metrics.RecordEventDetected(string(e.Type))
	}
	return out, nil
}

// releasingSource frees a match's pending mark as its job is picked up, so a
// registration arriving while the job runs schedules a fresh one.
type releasingSource struct {
	store   repository.Store
	pending dedupe.Deduper
}

func (r releasingSource) Get(ctx context.Context, id string) (model.Match, error) {
	r.pending.Unrecord(ctx, id)
	return r.store.Get(ctx, id)
}

// Service implements the API dependencies for the momentum system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.MemoryStore
	cache      *repository.ResultCache
	jobs       *jobqueue.InMemoryQueue
	pending    dedupe.Deduper
	calculator momentum.Calculator
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	cacheSize   int
	catalogFile string
	player1Name string
	player2Name string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		cacheSize:   defaultCacheSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the catalog, cache, queue and worker pool, loads the catalog
// file when one is configured and schedules a precompute job per match.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting momentum service...")

	cache, err := repository.NewResultCache(s.cacheSize)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	var seed []model.Match
	if s.catalogFile != "" {
		seed, err = repository.LoadCatalog(ctx, s.catalogFile)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.logger.Info(ctx, "loaded match catalog",
			logger.String("file", s.catalogFile),
			logger.Int("matches", len(seed)),
		)
	}

	s.store = repository.NewMemoryStore(repository.WithMatches(seed...))
	s.cache = cache
	s.jobs = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.queueSize))
	s.calculator = instrumented{next: momentum.NewEngine(momentum.WithDefaultPlayerNames(s.player1Name, s.player2Name))}

	s.workerPool = workerpool.NewPool(
		s.workerCount,
		s.jobs,
		releasingSource{store: s.store, pending: s.pending},
		s.calculator,
		s.cache,
	)
	// Workers outlive the Start call; Stop ends them through the queue.
	s.workerPool.Start(context.WithoutCancel(ctx))

	scheduled := 0
	for i := range seed {
		if s.schedule(ctx, seed[i].ID) {
			scheduled++
		}
	}

	s.started = true
	s.logger.Info(ctx, "momentum service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.Int("scheduled", scheduled),
	)

	return nil
}

// Stop drains the precompute queue and shuts the worker pool down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping momentum service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "momentum service stopped")
}

// schedule queues a precompute job for id unless one is already pending.
// It reports whether a new job was queued.
func (s *Service) schedule(ctx context.Context, id string) bool {
	if s.pending.SeenAndRecord(ctx, id) {
		if !s.pending.Contains(ctx, id) {
			s.logger.Warn(ctx, "pending tracker full, falling back to on-demand",
				logger.String("matchID", id),
				logger.Int("limit", s.queueSize),
			)
		}
		return false
	}
	if err := s.jobs.Enqueue(ctx, model.Job{MatchID: id}); err != nil {
		s.pending.Unrecord(ctx, id)
		s.logger.Warn(ctx, "precompute not scheduled, falling back to on-demand",
			logger.String("matchID", id),
			logger.Error(err),
		)
		return false
	}
	return true
}

// ready returns ErrNotStarted until Start succeeds. The caller holds s.mu.
func (s *Service) ready() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ListMatches returns summaries of every match in the catalog.
func (s *Service) ListMatches(ctx context.Context) ([]model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.List(ctx), nil
}

// Match returns the match with id or repository.ErrNotFound.
func (s *Service) Match(ctx context.Context, id string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return model.Match{}, err
	}
	return s.store.Get(ctx, id)
}

// Momentum returns the momentum output of a stored match, computing and
// caching it when no precomputed result is available.
func (s *Service) Momentum(ctx context.Context, id string) (model.MomentumOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return model.MomentumOutput{}, err
	}
	if out, ok := s.cache.Get(id); ok {
		return out, nil
	}

	m, err := s.store.Get(ctx, id)
	if err != nil {
		return model.MomentumOutput{}, err
	}
	out, err := s.calculator.Calculate(ctx, m)
	if err != nil {
		return model.MomentumOutput{}, fmt.Errorf("compute match %s: %w", id, err)
	}
	s.cache.Put(id, out)
	return out, nil
}

// Compute runs the pipeline on an ad-hoc match. Nothing is stored.
func (s *Service) Compute(ctx context.Context, m model.Match) (model.MomentumOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return model.MomentumOutput{}, err
	}
	if err := m.Validate(); err != nil {
		metrics.RecordInvalidMatch()
		return model.MomentumOutput{}, err
	}
	return s.calculator.Calculate(ctx, m)
}

// Register validates and stores m, assigning a UUID when it has no id. Any
// cached output for the id is dropped and a precompute job is scheduled.
// Registration takes the write lock so an on-demand computation can never
// cache an output of the replaced record.
func (s *Service) Register(ctx context.Context, m model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return model.Match{}, err
	}
	if err := m.Validate(); err != nil {
		metrics.RecordInvalidMatch()
		return model.Match{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	created, err := s.store.Put(ctx, m)
	if err != nil {
		return model.Match{}, err
	}
	s.cache.Remove(m.ID)
	metrics.RecordMatchRegistered()

	queued := s.schedule(ctx, m.ID)
	s.logger.Debug(ctx, "match registered",
		logger.String("matchID", m.ID),
		logger.Bool("created", created),
		logger.Bool("queued", queued),
	)
	return m.Clone(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
	}

	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.jobs.Len(ctx)
		stats["pendingJobs"] = s.pending.Size()
		stats["catalogMatches"] = s.store.Count(ctx)
		stats["cachedResults"] = s.cache.Len()
		stats["activeWorkers"] = s.workerPool.Active()
		stats["processedJobs"] = s.workerPool.Processed()
	}

	return stats
}
