package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrNilManager = errors.New("nil metrics manager")
)
