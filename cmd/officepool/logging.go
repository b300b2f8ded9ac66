package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// logLevel picks the log level: --verbose and --quiet win over the config
// file, which wins over the info default. Unknown names fall back to info.
func logLevel(f commonFlags, configured string) zerolog.Level {
	switch {
	case f.verbose:
		return zerolog.DebugLevel
	case f.quiet:
		return zerolog.ErrorLevel
	}
	if configured != "" {
		if lvl, err := zerolog.ParseLevel(configured); err == nil {
			return lvl
		}
	}
	return zerolog.InfoLevel
}

// newLogger returns a human-readable logger writing to w.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota, which the
// automatic worker count is derived from.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(log zerolog.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	}))
}
