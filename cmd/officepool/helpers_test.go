package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	officepool "github.com/alnah/go-officepool"
)

// testEnv returns an Environment over vars with captured output.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Notify: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		},
	}
	return env, &stdout, &stderr
}

// fakeOfficeHome creates a directory that passes office home validation.
func fakeOfficeHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	exe := officepool.OfficeExecutable(home)
	if err := os.MkdirAll(filepath.Dir(exe), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil { // #nosec G306 -- test executable
		t.Fatalf("setup: %v", err)
	}
	return home
}

// writeFile writes content under a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}
