package officepool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alnah/go-officepool/internal/fileutil"
	"github.com/alnah/go-officepool/internal/process"
)

// instanceDirPrefix names per-worker profile directories under the work dir.
const instanceDirPrefix = ".officepool_"

// stopGrace is how long Stop waits for a killed worker to exit before
// killing the process handle directly.
const stopGrace = 5 * time.Second

// officeFlags disable every interactive feature of a headless worker.
var officeFlags = []string{
	"--headless",
	"--invisible",
	"--nocrashreport",
	"--nodefault",
	"--nofirststartwizard",
	"--nolockcheck",
	"--nologo",
	"--norestore",
}

// Worker is one office process bound to one endpoint.
type Worker struct {
	id                 string
	endpoint           Endpoint
	officeHome         string
	instanceDir        string
	templateProfileDir string
	runAsArgs          []string
	pm                 ProcessManager
	retryTimeout       time.Duration
	retryInterval      time.Duration
	log                zerolog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	pid    int
	exited chan struct{}
	tasks  int
}

func newWorker(s ManagerSettings, e Endpoint) *Worker {
	id := uuid.NewString()
	return &Worker{
		id:                 id,
		endpoint:           e,
		officeHome:         s.OfficeHome,
		instanceDir:        instanceProfileDir(s.WorkDir, e),
		templateProfileDir: s.TemplateProfileDir,
		runAsArgs:          s.RunAsArgs,
		pm:                 s.ProcessManager,
		retryTimeout:       s.RetryTimeout,
		retryInterval:      s.RetryInterval,
		log:                s.Logger.With().Str("worker", id).Stringer("endpoint", e).Logger(),
	}
}

// instanceProfileDir derives a filesystem-safe directory name from the
// endpoint's accept string.
func instanceProfileDir(workDir string, e Endpoint) string {
	name := strings.NewReplacer(",", "_", "=", "-").Replace(e.AcceptString())
	return filepath.Join(workDir, instanceDirPrefix+name)
}

// ID returns a unique identifier for log correlation.
func (w *Worker) ID() string { return w.id }

// Endpoint returns the endpoint the worker listens on.
func (w *Worker) Endpoint() Endpoint { return w.endpoint }

// InstanceProfileDir returns the worker's private user profile directory.
func (w *Worker) InstanceProfileDir() string { return w.instanceDir }

// PID returns the office process id, or 0 when stopped or unknown.
func (w *Worker) PID() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pid
}

// Running reports whether the worker has a live process.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cmd != nil
}

// TasksExecuted returns the number of tasks served since the last start.
func (w *Worker) TasksExecuted() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks
}

func (w *Worker) recordTask() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks++
	return w.tasks
}

// CommandLine returns the full launch command, elevation prefix included.
func (w *Worker) CommandLine() []string {
	args := make([]string, 0, len(w.runAsArgs)+3+len(officeFlags))
	args = append(args, w.runAsArgs...)
	args = append(args,
		OfficeExecutable(w.officeHome),
		"-accept="+w.endpoint.AcceptString()+";urp;",
		"-env:UserInstallation="+fileutil.FileURL(w.instanceDir),
	)
	return append(args, officeFlags...)
}

// query matches this worker's process in a process listing.
func (w *Worker) query() ProcessQuery {
	return ProcessQuery{
		Command:  "soffice",
		Argument: w.endpoint.AcceptString(),
		Launcher: strings.Join(w.runAsArgs, " "),
	}
}

// Start launches the office process and waits until the process manager can
// see it. Starting a running worker is a no-op.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd != nil {
		return nil
	}

	pid, err := w.pm.FindPID(ctx, w.query())
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s (pid %d)", ErrWorkerRunning, w.endpoint, pid)
	case errors.Is(err, ErrPIDNotFound), errors.Is(err, ErrPIDUnknown):
	default:
		return fmt.Errorf("%w: %s: checking for existing process: %v", ErrWorkerStart, w.endpoint, err)
	}

	if err := w.prepareInstanceDir(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWorkerStart, w.endpoint, err)
	}

	argv := w.CommandLine()
	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 -- executable comes from the validated office home
	cmd.SysProcAttr = process.SysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWorkerStart, w.endpoint, err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	pid, err = w.waitForPID(ctx, cmd, exited)
	if err != nil {
		process.KillProcessGroup(cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-exited
		_ = os.RemoveAll(w.instanceDir)
		return err
	}

	w.cmd, w.pid, w.exited, w.tasks = cmd, pid, exited, 0
	w.log.Info().Int("pid", pid).Msg("office worker started")
	return nil
}

// waitForPID polls the process manager until the new process is listed.
// When the manager cannot inspect processes, the launched pid is used
// unless an elevation prefix stands between us and the office process.
func (w *Worker) waitForPID(ctx context.Context, cmd *exec.Cmd, exited <-chan struct{}) (int, error) {
	var pid int
	err := retryUntil(ctx, w.retryTimeout, w.retryInterval, func() (bool, error) {
		found, err := w.pm.FindPID(ctx, w.query())
		switch {
		case err == nil:
			pid = found
			return true, nil
		case errors.Is(err, ErrPIDUnknown):
			if len(w.runAsArgs) == 0 {
				pid = cmd.Process.Pid
			}
			return true, nil
		case errors.Is(err, ErrPIDNotFound):
			select {
			case <-exited:
				return false, fmt.Errorf("%w: %s: process exited during startup", ErrWorkerStart, w.endpoint)
			default:
				return false, nil
			}
		default:
			return false, fmt.Errorf("%w: %s: %v", ErrWorkerStart, w.endpoint, err)
		}
	})
	if errors.Is(err, errRetryTimeout) {
		return 0, fmt.Errorf("%w: %s: process not found within %s", ErrWorkerStart, w.endpoint, w.retryTimeout)
	}
	return pid, err
}

// prepareInstanceDir resets the instance profile, seeding it from the
// template profile when one is configured.
func (w *Worker) prepareInstanceDir() error {
	if err := os.RemoveAll(w.instanceDir); err != nil {
		return fmt.Errorf("removing stale profile: %w", err)
	}
	if w.templateProfileDir == "" {
		return nil
	}
	return fileutil.CopyDir(w.templateProfileDir, w.instanceDir)
}

// Stop kills the office process through the process manager and removes the
// instance profile. Stopping a stopped worker is a no-op.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil {
		return nil
	}

	killErr := w.pm.Kill(ctx, w.cmd.Process, w.pid)

	select {
	case <-w.exited:
	case <-time.After(stopGrace):
		_ = w.cmd.Process.Kill()
		<-w.exited
	}

	var rmErr error
	if err := os.RemoveAll(w.instanceDir); err != nil {
		rmErr = fmt.Errorf("removing instance profile: %w", err)
	}

	w.log.Info().Int("pid", w.pid).Msg("office worker stopped")
	w.cmd, w.pid, w.exited = nil, 0, nil
	return errors.Join(killErr, rmErr)
}

// Restart stops and starts the worker.
func (w *Worker) Restart(ctx context.Context) error {
	if err := w.Stop(ctx); err != nil {
		return err
	}
	return w.Start(ctx)
}
