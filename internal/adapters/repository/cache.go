package repository

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/pkg/metrics"
)

// ResultCache memoizes computed momentum outputs by match id. The pipeline is
// deterministic, so an entry stays valid until the match it was computed from
// is replaced.
type ResultCache struct {
	entries *lru.Cache[string, model.MomentumOutput]
}

// NewResultCache creates a cache holding at most size outputs.
func NewResultCache(size int) (*ResultCache, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCacheSize, size)
	}
	entries, err := lru.New[string, model.MomentumOutput](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &ResultCache{entries: entries}, nil
}

// Get returns a copy of the cached output for id.
func (c *ResultCache) Get(id string) (model.MomentumOutput, bool) {
	out, ok := c.entries.Get(id)
	if !ok {
		metrics.RecordCacheMiss()
		return model.MomentumOutput{}, false
	}
	metrics.RecordCacheHit()
	return cloneOutput(out), true
}

// Put stores a copy of out under id.
func (c *ResultCache) Put(id string, out model.MomentumOutput) {
	c.entries.Add(id, cloneOutput(out))
}

// Remove drops the entry for id and reports whether one existed.
func (c *ResultCache) Remove(id string) bool {
	return c.entries.Remove(id)
}

// Len returns the number of cached outputs.
func (c *ResultCache) Len() int {
	return c.entries.Len()
}

func cloneOutput(out model.MomentumOutput) model.MomentumOutput {
	return model.MomentumOutput{
		States:        append(make([]float64, 0, len(out.States)), out.States...),
		Events:        append(make([]model.MomentumEvent, 0, len(out.Events)), out.Events...),
		Colors:        append(make([]string, 0, len(out.Colors)), out.Colors...),
		Positions:     append(make([]model.Position, 0, len(out.Positions)), out.Positions...),
		SetSeparators: append(make([]float64, 0, len(out.SetSeparators)), out.SetSeparators...),
	}
}
