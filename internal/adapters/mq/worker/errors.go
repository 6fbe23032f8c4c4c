package worker

import "errors"

// ErrPanic marks a job whose computation panicked.
var ErrPanic = errors.New("calculator panicked")
