package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/pkg/metrics"
)

// MemoryStore is an in-memory Store. Matches are copied on the way in and on
// the way out so callers can never alias stored point logs.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Match
	order []string
}

// NewMemoryStore constructs an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Match)}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateCatalogMatches(len(s.byID))
	return s
}

// Get returns a copy of the match with id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Match, error) {
	start := time.Now()
	defer observe("get", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Match{}, ErrNotFound
	}
	return m.Clone(), nil
}

// List returns match summaries in insertion order.
func (s *MemoryStore) List(ctx context.Context) []model.MatchSummary {
	start := time.Now()
	defer observe("list", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MatchSummary, 0, len(s.order))
	for _, id := range s.order {
		m := s.byID[id]
		out = append(out, m.Summary())
	}
	return out
}

// Put inserts or replaces m.
func (s *MemoryStore) Put(ctx context.Context, m Match) (bool, error) {
	start := time.Now()
	defer observe("put", start)

	if m.ID == "" {
		metrics.RecordErrorByComponent("repository", "missing_id")
		return false, ErrMissingID
	}

	s.mu.Lock()
	created := s.put(m)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateCatalogMatches(count)
	return created, nil
}

// put stores a copy of m. The caller holds the write lock.
func (s *MemoryStore) put(m Match) bool {
	_, exists := s.byID[m.ID]
	s.byID[m.ID] = m.Clone()
	if !exists {
		s.order = append(s.order, m.ID)
	}
	return !exists
}

// Count returns the number of stored matches.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func observe(operation string, start time.Time) {
	metrics.RecordRepositoryLatency(operation, float64(time.Since(start).Microseconds())/1000)
}
