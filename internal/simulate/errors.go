package simulate

import "errors"

// Sentinel errors for simulation runs.
var (
	ErrInvalidConfig  = errors.New("invalid simulation config")
	ErrUnhealthy      = errors.New("service unhealthy")
	ErrUnexpectedCode = errors.New("unexpected status code")
	ErrInvariant      = errors.New("momentum invariant violated")
)
