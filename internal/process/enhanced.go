package process

import (
	"context"
	"fmt"
	"os"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v4/process"
)

// probeTimeout bounds the capability probe so a slow /proc never stalls Build.
const probeTimeout = 2 * time.Second

// EnhancedManager reads process tables natively through gopsutil instead of
// parsing ps output, so long command lines are never truncated.
type EnhancedManager struct{}

// Compile-time interface check.
var _ Manager = (*EnhancedManager)(nil)

// NewEnhancedManager creates an EnhancedManager.
func NewEnhancedManager() *EnhancedManager {
	return &EnhancedManager{}
}

// Name implements Manager.
func (m *EnhancedManager) Name() string { return "enhanced" }

// FindPID implements Manager.
func (m *EnhancedManager) FindPID(ctx context.Context, q Query) (int, error) {
	procs, err := gopsprocess.ProcessesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}
	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil {
			// Exited or inaccessible since listing
			continue
		}
		if q.Matches(cmdline) {
			return int(p.Pid), nil
		}
	}
	return 0, ErrPIDNotFound
}

// Kill implements Manager.
func (m *EnhancedManager) Kill(ctx context.Context, proc *os.Process, pid int) error {
	if pid <= 0 {
		return killHandle(proc)
	}
	p, err := gopsprocess.NewProcessWithContext(ctx, int32(pid)) // #nosec G115 -- pids fit in int32
	if err != nil {
		// Already gone
		return killHandle(proc)
	}
	if err := p.KillWithContext(ctx); err != nil {
		return fmt.Errorf("%w: pid %d: %v", ErrKill, pid, err)
	}
	return nil
}

// EnhancedAvailable reports whether gopsutil can enumerate processes here.
// It never fails: any error or panic from the probe means "not available".
func EnhancedAvailable() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	pids, err := gopsprocess.PidsWithContext(ctx)
	if err != nil || len(pids) == 0 {
		return false
	}
	self, err := gopsprocess.NewProcessWithContext(ctx, int32(os.Getpid())) // #nosec G115 -- pids fit in int32
	if err != nil {
		return false
	}
	_, err = self.CmdlineWithContext(ctx)
	return err == nil
}
