package officepool

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration.
var (
	// ErrInvalidArgument is returned by a setter whose argument is unusable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned by Build when the configuration as a whole
	// cannot produce a working pool.
	ErrInvalidState = errors.New("invalid state")
)

// Sentinel errors for the pool manager.
var (
	ErrPoolClosed     = errors.New("pool manager is stopped")
	ErrPoolNotStarted = errors.New("pool manager is not started")
	ErrQueueTimeout   = errors.New("timed out waiting for an available worker")
	ErrWorkerStart    = errors.New("failed to start office worker")
	ErrWorkerRunning  = errors.New("an office process is already bound to the endpoint")
)

func invalidArgument(option, problem string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, option, problem)
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
