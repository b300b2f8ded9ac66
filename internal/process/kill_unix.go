//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a worker and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; callers fall back to killing the process handle
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// SysProcAttr places a launched worker in its own process group so
// KillProcessGroup also reaches the processes it forks.
func SysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
