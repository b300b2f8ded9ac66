package process

import (
	"context"
	"os"
)

// PortableManager works anywhere ps(1) or taskkill is present. Listing relies
// on the width of ps output, which some Unix variants truncate, so FindPID may
// miss long command lines there.
type PortableManager struct {
	run runFunc
}

// Compile-time interface check.
var _ Manager = (*PortableManager)(nil)

// NewPortableManager creates a PortableManager.
func NewPortableManager() *PortableManager {
	return &PortableManager{run: execRun}
}

// Name implements Manager.
func (m *PortableManager) Name() string { return "portable" }

// FindPID implements Manager. It returns ErrPIDUnknown where no
// listing command is available.
func (m *PortableManager) FindPID(ctx context.Context, q Query) (int, error) {
	if listCommand == nil {
		return 0, ErrPIDUnknown
	}
	out, err := m.run(ctx, listCommand[0], listCommand[1:]...)
	if err != nil {
		return 0, err
	}
	return findInListing(out, q)
}

// Kill implements Manager. Known pids are killed with their whole process
// group; otherwise the handle is killed directly.
func (m *PortableManager) Kill(_ context.Context, proc *os.Process, pid int) error {
	if pid <= 0 {
		return killHandle(proc)
	}
	KillProcessGroup(pid)
	return killHandle(proc)
}
