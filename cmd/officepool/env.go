package main

import (
	"context"
	"io"
	"os"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, process environment, and shutdown signalling.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Notify returns a context canceled on shutdown signals.
	Notify func(context.Context) (context.Context, context.CancelFunc)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Notify:  notifyContext,
	}
}
