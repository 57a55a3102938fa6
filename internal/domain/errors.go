package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound   = errors.New("not found")
	ErrUnknownJob = errors.New("no handler registered for job")
	ErrBusFull    = errors.New("dispatch queue is at capacity, try again later")
	ErrNoRunsYet  = errors.New("no newsletter run has completed yet")
)
