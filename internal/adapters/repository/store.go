// Package repository holds the match catalog and the computed momentum cache.
package repository

import (
	"context"

	"github.com/okian/momentum/internal/domain/model"
)

// Match is the record type held by the catalog.
type Match = model.Match

// Store provides read/write access to the match catalog.
type Store interface {
	// Get returns a copy of the match with id, or ErrNotFound.
	Get(ctx context.Context, id string) (Match, error)

	// List returns summaries of every match in insertion order.
	List(ctx context.Context) []model.MatchSummary

	// Put inserts or replaces a match. It reports whether the id was new.
	Put(ctx context.Context, m Match) (bool, error)

	// Count returns the number of matches in the catalog.
	Count(ctx context.Context) int
}
