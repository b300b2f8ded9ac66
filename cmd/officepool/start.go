package main

import (
	"context"
	"errors"
	"time"

	flag "github.com/spf13/pflag"
)

// shutdownTimeout bounds how long start waits for workers to stop.
const shutdownTimeout = 30 * time.Second

// runStartCmd launches the pool and supervises it until a shutdown signal.
func runStartCmd(args []string, env *Environment) int {
	f, err := parsePoolFlags("start", args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return fail(env.Stderr, err, "")
	}

	s, err := setupPool(f, env)
	if err != nil {
		return fail(env.Stderr, err, hintFor(err, configName(f, loadEnvConfig(env.Getenv)), nil))
	}
	runAs := s.pool.Settings().RunAsArgs

	ctx, stop := env.Notify(context.Background())
	defer stop()

	if err := s.pool.Start(ctx); err != nil {
		return fail(env.Stderr, err, hintFor(err, "", runAs))
	}
	for _, w := range s.pool.Workers() {
		s.log.Info().
			Str("connect", w.Endpoint().ConnectString()).
			Int("pid", w.PID()).
			Msg("worker ready")
	}
	s.log.Info().Int("workers", s.pool.Size()).Msg("office pool running, press Ctrl+C to stop")

	<-ctx.Done()
	s.log.Info().Msg("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.pool.Stop(stopCtx); err != nil {
		return fail(env.Stderr, err, "")
	}
	return ExitSuccess
}
