package officepool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ManagerSettings is the complete, validated bundle a PoolManager runs from.
// Configuration.Build produces it; len(Endpoints) is the pool size.
type ManagerSettings struct {
	OfficeHome           string
	Endpoints            []Endpoint
	RunAsArgs            []string
	TemplateProfileDir   string // empty = fresh profile per worker
	WorkDir              string
	TaskQueueTimeout     time.Duration
	TaskExecutionTimeout time.Duration
	MaxTasksPerWorker    int
	RetryTimeout         time.Duration
	RetryInterval        time.Duration
	ProcessManager       ProcessManager
	Logger               zerolog.Logger
}

// clone returns a copy that shares no slices with s.
func (s ManagerSettings) clone() ManagerSettings {
	s.Endpoints = append([]Endpoint(nil), s.Endpoints...)
	s.RunAsArgs = append([]string(nil), s.RunAsArgs...)
	return s
}

// PoolManager supervises one office worker per endpoint.
// Workers are launched by Start and handed out by Acquire/Release.
type PoolManager struct {
	settings ManagerSettings
	workers  []*Worker
	idle     chan *Worker
	done     chan struct{}
	log      zerolog.Logger

	lifecycle sync.Mutex // serializes Start, Stop and restarts
	mu        sync.Mutex
	started   bool
	closed    bool

	// Overridden by tests to avoid launching office processes.
	startWorker func(context.Context, *Worker) error
	stopWorker  func(context.Context, *Worker) error
}

// NewPoolManager creates a manager for the given settings without starting
// any worker. Most callers obtain one through Configuration.Build.
func NewPoolManager(s ManagerSettings) (*PoolManager, error) {
	if len(s.Endpoints) == 0 {
		return nil, invalidArgument("endpoints", "must not be empty")
	}
	if s.ProcessManager == nil {
		return nil, invalidArgument("processManager", "must not be nil")
	}

	s = s.clone()
	m := &PoolManager{
		settings: s,
		workers:  make([]*Worker, 0, len(s.Endpoints)),
		idle:     make(chan *Worker, len(s.Endpoints)),
		done:     make(chan struct{}),
		log:      s.Logger,
	}
	for _, e := range s.Endpoints {
		m.workers = append(m.workers, newWorker(s, e))
	}
	m.startWorker = func(ctx context.Context, w *Worker) error { return w.Start(ctx) }
	m.stopWorker = func(ctx context.Context, w *Worker) error { return w.Stop(ctx) }
	return m, nil
}

// Settings returns a copy of the settings the manager was built from.
func (m *PoolManager) Settings() ManagerSettings {
	return m.settings.clone()
}

// Size returns the number of workers.
func (m *PoolManager) Size() int {
	return len(m.workers)
}

// Workers returns the workers in endpoint order.
func (m *PoolManager) Workers() []*Worker {
	return append([]*Worker(nil), m.workers...)
}

// Start launches every worker concurrently. If any worker fails, the ones
// already running are stopped and the first error is returned.
func (m *PoolManager) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	closed, started := m.closed, m.started
	m.mu.Unlock()
	if closed {
		return ErrPoolClosed
	}
	if started {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range m.workers {
		g.Go(func() error {
			return m.startWorker(gctx, w)
		})
	}
	if err := g.Wait(); err != nil {
		_ = m.stopAll(context.WithoutCancel(ctx))
		return err
	}

	m.mu.Lock()
	m.started = true
	for _, w := range m.workers {
		m.idle <- w
	}
	m.mu.Unlock()

	m.log.Info().Int("workers", len(m.workers)).Msg("office pool started")
	return nil
}

// Acquire waits for an idle worker. The wait is bounded by the task queue
// timeout when positive, and always by ctx.
func (m *PoolManager) Acquire(ctx context.Context) (*Worker, error) {
	m.mu.Lock()
	closed, started := m.closed, m.started
	m.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}
	if !started {
		return nil, ErrPoolNotStarted
	}

	// Fast path
	select {
	case w := <-m.idle:
		return w, nil
	default:
	}

	var timeout <-chan time.Time
	if d := m.settings.TaskQueueTimeout; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case w := <-m.idle:
		return w, nil
	case <-m.done:
		return nil, ErrPoolClosed
	case <-timeout:
		return nil, fmt.Errorf("%w after %s", ErrQueueTimeout, m.settings.TaskQueueTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a worker to the pool. Releasing after Stop is a no-op.
func (m *PoolManager) Release(w *Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	// idle holds every worker at most once, so this never blocks
	select {
	case m.idle <- w:
	default:
	}
}

// Execute runs task on an idle worker under the task execution timeout.
// A worker that has served its task budget, or whose task timed out, is
// restarted before being returned to the pool.
func (m *PoolManager) Execute(ctx context.Context, task func(ctx context.Context, w *Worker) error) error {
	w, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer m.Release(w)

	taskCtx := ctx
	if d := m.settings.TaskExecutionTimeout; d > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	taskErr := task(taskCtx, w)
	served := w.recordTask()

	timedOut := errors.Is(taskCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	exhausted := m.settings.MaxTasksPerWorker > 0 && served >= m.settings.MaxTasksPerWorker
	if timedOut || exhausted {
		m.log.Info().
			Str("worker", w.ID()).
			Stringer("endpoint", w.Endpoint()).
			Int("tasks", served).
			Bool("timeout", timedOut).
			Msg("restarting office worker")
		if err := m.restart(context.WithoutCancel(ctx), w); err != nil {
			m.log.Error().Err(err).Str("worker", w.ID()).Msg("office worker restart failed")
		}
	}

	if timedOut && taskErr == nil {
		taskErr = taskCtx.Err()
	}
	return taskErr
}

// restart does nothing once the pool is closed: Stop has already stopped
// every worker.
func (m *PoolManager) restart(ctx context.Context, w *Worker) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil
	}

	if err := m.stopWorker(ctx, w); err != nil {
		return err
	}
	return m.startWorker(ctx, w)
}

// Stop kills every worker and removes their instance profiles.
// Pending Acquire calls return ErrPoolClosed. Stop is idempotent.
func (m *PoolManager) Stop(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	started := m.started
	m.mu.Unlock()

	if !started {
		return nil
	}
	err := m.stopAll(ctx)
	m.log.Info().Err(err).Msg("office pool stopped")
	return err
}

// stopAll stops every worker and aggregates failures.
func (m *PoolManager) stopAll(ctx context.Context) error {
	var errs []error
	for _, w := range m.workers {
		if err := m.stopWorker(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
