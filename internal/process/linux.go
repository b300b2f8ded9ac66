package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// LinuxManager inspects processes with procps ps and kills them with kill(1).
// Both commands can be run through a privilege-elevation prefix such as
// "sudo -n -u office", for workers launched as another user.
type LinuxManager struct {
	runAsArgs []string
	run       runFunc
}

// Compile-time interface check.
var _ Manager = (*LinuxManager)(nil)

// NewLinuxManager creates a LinuxManager without elevation.
func NewLinuxManager() *LinuxManager {
	return &LinuxManager{run: execRun}
}

// SetRunAsArgs sets the elevation prefix used for ps and kill.
func (m *LinuxManager) SetRunAsArgs(args ...string) {
	m.runAsArgs = append([]string(nil), args...)
}

// RunAsArgs returns the elevation prefix.
func (m *LinuxManager) RunAsArgs() []string {
	return append([]string(nil), m.runAsArgs...)
}

// Name implements Manager.
func (m *LinuxManager) Name() string { return "linux" }

// FindPID implements Manager.
func (m *LinuxManager) FindPID(ctx context.Context, q Query) (int, error) {
	name, args := withPrefix(m.runAsArgs, "ps", "-e", "-o", "pid,args")
	out, err := m.run(ctx, name, args...)
	if err != nil {
		return 0, err
	}
	return findInListing(out, q)
}

// Kill implements Manager.
func (m *LinuxManager) Kill(ctx context.Context, proc *os.Process, pid int) error {
	if pid <= 0 {
		return killHandle(proc)
	}
	name, args := withPrefix(m.runAsArgs, "kill", "-KILL", strconv.Itoa(pid))
	if _, err := m.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: pid %d: %v", ErrKill, pid, err)
	}
	return nil
}

// killHandle kills a process through its handle when no pid is known.
func killHandle(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("%w: %v", ErrKill, err)
	}
	return nil
}
