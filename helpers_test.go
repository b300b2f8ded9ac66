package officepool

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Notes:
// - fakeOfficeHome lays out a directory that passes Build validation on the
//   running platform. On Unix the executable is a shell script that sleeps,
//   which lets worker tests launch a real child process without office.
// - fakeProcessManager never touches the system process table.

// fakeOfficeHome creates an office home whose executable sleeps for a minute.
func fakeOfficeHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	exe := OfficeExecutable(home)
	if err := os.MkdirAll(filepath.Dir(exe), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(exe, []byte("#!/bin/sh\nexec sleep 60\n"), 0o755); err != nil { // #nosec G306 -- test executable
		t.Fatalf("setup: %v", err)
	}
	return home
}

// fakeProfileDir creates a directory holding a minimal user profile.
func fakeProfileDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	user := filepath.Join(dir, profileMarker)
	if err := os.MkdirAll(user, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(user, "registrymodifications.xcu"), []byte("<items/>"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return dir
}

// fakeProcessManager answers FindPID from a callback and records kills.
type fakeProcessManager struct {
	mu        sync.Mutex
	find      func(q ProcessQuery) (int, error)
	findCalls int
	killed    []int
	killErr   error
}

// Compile-time interface check.
var _ ProcessManager = (*fakeProcessManager)(nil)

func (f *fakeProcessManager) Name() string { return "fake" }

func (f *fakeProcessManager) FindPID(_ context.Context, q ProcessQuery) (int, error) {
	f.mu.Lock()
	f.findCalls++
	find := f.find
	f.mu.Unlock()

	if find == nil {
		return 0, ErrPIDUnknown
	}
	return find(q)
}

func (f *fakeProcessManager) Kill(_ context.Context, proc *os.Process, pid int) error {
	f.mu.Lock()
	f.killed = append(f.killed, pid)
	f.mu.Unlock()

	if proc != nil {
		_ = proc.Kill()
	}
	return f.killErr
}

func (f *fakeProcessManager) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls
}

func (f *fakeProcessManager) kills() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.killed...)
}

// validConfiguration returns a configuration that builds without touching
// the system: fake office home, temp work dir, fake strategy.
func validConfiguration(t *testing.T) (*Configuration, *fakeProcessManager) {
	t.Helper()

	pm := &fakeProcessManager{}
	c := NewConfiguration()
	if _, err := c.Apply(
		WithOfficeHome(fakeOfficeHome(t)),
		WithWorkDir(t.TempDir()),
		WithProcessManager(pm),
	); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return c, pm
}
