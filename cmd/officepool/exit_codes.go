package main

import (
	"errors"
	"fmt"
	"strings"

	officepool "github.com/alnah/go-officepool"
	"github.com/alnah/go-officepool/internal/config"
)

// Exit codes for the officepool CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, arguments, or config file
	ExitState   = 3 // Configuration cannot produce a working pool
	ExitWorker  = 4 // Office workers failed to start or serve
)

// ErrUsage marks command-line mistakes.
var ErrUsage = errors.New("usage error")

func usageError(err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

func errUnexpectedArgs(args []string) error {
	return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
}

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Worker errors (exit 4)
	if errors.Is(err, officepool.ErrWorkerStart) ||
		errors.Is(err, officepool.ErrWorkerRunning) ||
		errors.Is(err, officepool.ErrQueueTimeout) {
		return ExitWorker
	}

	// Whole-configuration errors (exit 3)
	if errors.Is(err, officepool.ErrInvalidState) {
		return ExitState
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, officepool.ErrInvalidArgument) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) {
		return ExitUsage
	}

	return ExitGeneral
}
