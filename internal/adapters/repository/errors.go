package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound         = errors.New("match not found")
	ErrMissingID        = errors.New("match id is required")
	ErrInvalidCacheSize = errors.New("invalid result cache size")
	ErrInvalidCatalog   = errors.New("invalid match catalog")
)
