package main

// Notes:
// - loadEnvConfig: we test every OFFICEPOOL_* variable through an injected
//   getenv, so tests stay parallel. Invalid worker counts are ignored.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test priority behavior (env doesn't override config).

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/alnah/go-officepool/internal/config"
)

func getenvFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := loadEnvConfig(getenvFrom(map[string]string{
		"OFFICEPOOL_CONFIG":    "/etc/officepool/pool.yaml",
		"OFFICEPOOL_PROTOCOL":  "pipe",
		"OFFICEPOOL_WORK_DIR":  "/var/tmp/pool",
		"OFFICEPOOL_RUN_AS":    "sudo -n -u office",
		"OFFICEPOOL_LOG_LEVEL": "debug",
		"OFFICEPOOL_WORKERS":   "4",
	}))

	if cfg.ConfigPath != "/etc/officepool/pool.yaml" {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Protocol != "pipe" || cfg.WorkDir != "/var/tmp/pool" || cfg.LogLevel != "debug" {
		t.Errorf("Protocol = %q, WorkDir = %q, LogLevel = %q", cfg.Protocol, cfg.WorkDir, cfg.LogLevel)
	}
	if diff := cmp.Diff([]string{"sudo", "-n", "-u", "office"}, cfg.RunAs); diff != "" {
		t.Errorf("RunAs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoadEnvConfig_InvalidWorkers(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"abc", "-2", "0", ""} {
		cfg := loadEnvConfig(getenvFrom(map[string]string{"OFFICEPOOL_WORKERS": v}))
		if cfg.Workers != 0 {
			t.Errorf("OFFICEPOOL_WORKERS=%q: Workers = %d, want 0 (ignored)", v, cfg.Workers)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	warnUnknownEnvVars(log, []string{
		"OFFICEPOOL_WORKER=2",
		"OFFICEPOOL_WORKERS=2",
		"PATH=/usr/bin",
	})

	out := buf.String()
	if !strings.Contains(out, "OFFICEPOOL_WORKER\"") {
		t.Errorf("expected warning for OFFICEPOOL_WORKER, got %q", out)
	}
	if strings.Contains(out, "OFFICEPOOL_WORKERS") {
		t.Errorf("known variable should not warn, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one warning, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority behavior
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Protocol: "pipe",
		WorkDir:  "/env/work",
		RunAs:    []string{"sudo"},
		LogLevel: "debug",
	}

	t.Run("fills empty config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Connection.Protocol != "pipe" || cfg.Office.WorkDir != "/env/work" || cfg.Log.Level != "debug" {
			t.Errorf("config = %+v", cfg)
		}
		if len(cfg.Office.RunAs) != 1 || cfg.Office.RunAs[0] != "sudo" {
			t.Errorf("RunAs = %v, want [sudo]", cfg.Office.RunAs)
		}
	})

	t.Run("does not override config file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Connection.Protocol = "socket"
		cfg.Office.WorkDir = "/file/work"
		cfg.Office.RunAs = []string{"doas"}
		cfg.Log.Level = "warn"
		applyEnvConfig(env, cfg)

		if cfg.Connection.Protocol != "socket" || cfg.Office.WorkDir != "/file/work" || cfg.Log.Level != "warn" {
			t.Errorf("config overridden: %+v", cfg)
		}
		if cfg.Office.RunAs[0] != "doas" {
			t.Errorf("RunAs = %v, want [doas]", cfg.Office.RunAs)
		}
	})
}
