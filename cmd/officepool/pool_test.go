package main

// Notes:
// - poolOptions: we build real configurations from the options and inspect
//   PoolManager.Settings, which exercises the whole merge path without
//   starting any worker.
// - hintFor: we test that each error family maps to its hint.

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	officepool "github.com/alnah/go-officepool"
	"github.com/alnah/go-officepool/internal/config"
)

// buildSettings runs poolOptions and builds the resulting configuration.
func buildSettings(t *testing.T, cfg *config.Config, env *envConfig, args ...string) officepool.ManagerSettings {
	t.Helper()

	f, err := parsePoolFlags("check", args, io.Discard)
	if err != nil {
		t.Fatalf("parsePoolFlags: %v", err)
	}
	opts, err := poolOptions(cfg, env, f)
	if err != nil {
		t.Fatalf("poolOptions: %v", err)
	}
	c, err := officepool.NewConfiguration().Apply(opts...)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	pool, err := c.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return pool.Settings()
}

func endpointStrings(s officepool.ManagerSettings) []string {
	out := make([]string, len(s.Endpoints))
	for i, e := range s.Endpoints {
		out[i] = e.String()
	}
	return out
}

// ---------------------------------------------------------------------------
// TestPoolOptions - File, environment, and flag merging
// ---------------------------------------------------------------------------

func TestPoolOptions_FileValues(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Office.Home = fakeOfficeHome(t)
	cfg.Office.WorkDir = t.TempDir()
	cfg.Connection.Ports = []int{4000, 4001}
	cfg.Tasks.QueueTimeout = "3s"
	cfg.Tasks.ExecutionTimeout = "45s"
	cfg.Tasks.MaxPerWorker = 7
	cfg.Retry.Timeout = "10s"
	cfg.Retry.Interval = "50ms"

	s := buildSettings(t, cfg, &envConfig{})

	if diff := cmp.Diff([]string{"socket:4000", "socket:4001"}, endpointStrings(s)); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}
	if s.TaskQueueTimeout != 3*time.Second || s.TaskExecutionTimeout != 45*time.Second {
		t.Errorf("timeouts = %v, %v", s.TaskQueueTimeout, s.TaskExecutionTimeout)
	}
	if s.MaxTasksPerWorker != 7 {
		t.Errorf("MaxTasksPerWorker = %d, want 7", s.MaxTasksPerWorker)
	}
	if s.RetryTimeout != 10*time.Second || s.RetryInterval != 50*time.Millisecond {
		t.Errorf("retry = %v every %v", s.RetryTimeout, s.RetryInterval)
	}
	if s.WorkDir != cfg.Office.WorkDir {
		t.Errorf("WorkDir = %q, want %q", s.WorkDir, cfg.Office.WorkDir)
	}
}

func TestPoolOptions_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	home := fakeOfficeHome(t)
	cfg := config.DefaultConfig()
	cfg.Office.Home = "/does/not/exist"
	cfg.Office.WorkDir = "/does/not/exist"
	cfg.Connection.Ports = []int{4000}
	cfg.Tasks.QueueTimeout = "3s"
	cfg.Tasks.MaxPerWorker = 7

	workDir := t.TempDir()
	s := buildSettings(t, cfg, &envConfig{},
		"--office-home", home,
		"--work-dir", workDir,
		"--ports", "5000",
		"--queue-timeout", "9s",
		"--max-tasks", "0",
	)

	if s.OfficeHome != home || s.WorkDir != workDir {
		t.Errorf("OfficeHome = %q, WorkDir = %q", s.OfficeHome, s.WorkDir)
	}
	if diff := cmp.Diff([]string{"socket:5000"}, endpointStrings(s)); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}
	if s.TaskQueueTimeout != 9*time.Second {
		t.Errorf("TaskQueueTimeout = %v, want 9s", s.TaskQueueTimeout)
	}
	if s.MaxTasksPerWorker != 0 {
		t.Errorf("MaxTasksPerWorker = %d, want 0 (unlimited)", s.MaxTasksPerWorker)
	}
}

func TestPoolOptions_WorkersExpansion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  func(*config.Config)
		env  *envConfig
		args []string
		want []string
	}{
		{
			name: "flag expands first file port",
			cfg:  func(c *config.Config) { c.Connection.Ports = []int{3000, 9999} },
			env:  &envConfig{},
			args: []string{"--workers", "3"},
			want: []string{"socket:3000", "socket:3001", "socket:3002"},
		},
		{
			name: "env expands default port",
			cfg:  func(*config.Config) {},
			env:  &envConfig{Workers: 2},
			want: []string{"socket:2002", "socket:2003"},
		},
		{
			name: "flag wins over env",
			cfg:  func(*config.Config) {},
			env:  &envConfig{Workers: 4},
			args: []string{"-w", "1"},
			want: []string{"socket:2002"},
		},
		{
			name: "pipe names",
			cfg: func(c *config.Config) {
				c.Connection.Protocol = "pipe"
				c.Connection.PipeNames = []string{"conv"}
			},
			env:  &envConfig{},
			args: []string{"--workers", "2"},
			want: []string{"pipe:conv_0", "pipe:conv_1"},
		},
		{
			name: "file ports win over env",
			cfg:  func(c *config.Config) { c.Connection.Ports = []int{3000, 3001} },
			env:  &envConfig{Workers: 4},
			want: []string{"socket:3000", "socket:3001"},
		},
		{
			name: "file pipe names win over env",
			cfg: func(c *config.Config) {
				c.Connection.Protocol = "pipe"
				c.Connection.PipeNames = []string{"conv"}
			},
			env:  &envConfig{Workers: 3},
			want: []string{"pipe:conv"},
		},
		{
			name: "flag wins over file ports",
			cfg:  func(c *config.Config) { c.Connection.Ports = []int{3000, 3001} },
			env:  &envConfig{Workers: 4},
			args: []string{"--workers", "1"},
			want: []string{"socket:3000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Office.Home = fakeOfficeHome(t)
			cfg.Office.WorkDir = t.TempDir()
			tt.cfg(cfg)

			s := buildSettings(t, cfg, tt.env, tt.args...)
			if diff := cmp.Diff(tt.want, endpointStrings(s)); diff != "" {
				t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPoolOptions_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid duration in file", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Retry.Interval = "fast"
		f, _ := parsePoolFlags("check", nil, io.Discard)

		_, err := poolOptions(cfg, &envConfig{}, f)
		if !errors.Is(err, config.ErrConfigInvalid) {
			t.Errorf("error = %v, want ErrConfigInvalid", err)
		}
	})

	t.Run("unknown protocol flag", func(t *testing.T) {
		t.Parallel()
		f, _ := parsePoolFlags("check", []string{"--protocol", "carrier-pigeon"}, io.Discard)

		_, err := poolOptions(config.DefaultConfig(), &envConfig{}, f)
		if !errors.Is(err, officepool.ErrInvalidArgument) {
			t.Errorf("error = %v, want ErrInvalidArgument", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintFor - Error to hint mapping
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		err   error
		runAs []string
		want  string
	}{
		{"config not found", config.ErrConfigNotFound, nil, "--config"},
		{"worker running", officepool.ErrWorkerRunning, nil, "--ports"},
		{"worker start with sudo", officepool.ErrWorkerStart, []string{"sudo", "-n"}, "NOPASSWD"},
		{"queue timeout", officepool.ErrQueueTimeout, nil, "--workers"},
		{"office home", errors.Join(officepool.ErrInvalidState, errors.New("officeHome not set")), nil, "OFFICE_HOME"},
		{"work dir", errors.Join(officepool.ErrInvalidState, errors.New("workDir doesn't exist")), nil, "writable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err, "", tt.runAs)
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want to contain %q", tt.err, got, tt.want)
			}
		})
	}

	if got := hintFor(errors.New("boom"), "", nil); got != "" {
		t.Errorf("hintFor(unknown) = %q, want empty", got)
	}
}
