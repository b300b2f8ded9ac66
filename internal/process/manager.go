// Package process inspects and terminates the operating system processes
// backing office workers.
//
// Three strategies implement Manager. Resolver picks the most capable one for
// the running environment: the gopsutil-backed enhanced strategy when it can
// enumerate processes, the ps-based Linux strategy on Linux-family systems, and
// the portable strategy everywhere else.
package process

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Sentinel errors returned by FindPID.
var (
	// ErrPIDNotFound means no running process matched the query.
	ErrPIDNotFound = errors.New("no matching process found")

	// ErrPIDUnknown means the strategy cannot inspect processes on this
	// platform, so the caller cannot know whether a match exists.
	ErrPIDUnknown = errors.New("process id cannot be determined")

	// ErrKill is returned when a strategy fails to terminate a process.
	ErrKill = errors.New("failed to kill process")
)

// Manager finds and kills worker processes.
type Manager interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string

	// FindPID returns the pid of a running process matching q.
	FindPID(ctx context.Context, q Query) (int, error)

	// Kill terminates the worker. proc may be nil when the process was not
	// started by this program; pid may be zero when it is unknown.
	Kill(ctx context.Context, proc *os.Process, pid int) error
}

// Query selects a process by its command line.
type Query struct {
	Command  string // substring of the executable path, e.g. "soffice.bin"
	Argument string // substring of the arguments, e.g. the accept string
	Launcher string // command line prefix of an elevation wrapper, never matched
}

// Matches reports whether a full command line satisfies the query.
func (q Query) Matches(cmdline string) bool {
	if q.Launcher != "" && strings.HasPrefix(strings.TrimSpace(cmdline), q.Launcher) {
		return false
	}
	return strings.Contains(cmdline, q.Command) && strings.Contains(cmdline, q.Argument)
}
