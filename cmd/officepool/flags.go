package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// poolFlags holds the flags describing a pool, shared by check and start.
// Only flags reported by FlagSet.Changed override the config file.
type poolFlags struct {
	common          commonFlags
	officeHome      string
	protocol        string
	ports           []int
	pipeNames       []string
	workers         int
	runAs           []string
	templateProfile string
	workDir         string
	queueTimeout    time.Duration
	execTimeout     time.Duration
	maxTasks        int
	retryTimeout    time.Duration
	retryInterval   time.Duration
	json            bool

	fs *flag.FlagSet
}

// changed reports whether the named flag was given on the command line.
func (f *poolFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addPoolFlags adds pool description flags to a FlagSet.
func addPoolFlags(fs *flag.FlagSet, f *poolFlags) {
	fs.StringVar(&f.officeHome, "office-home", "", "office installation directory (default: auto-detect)")
	fs.StringVar(&f.protocol, "protocol", "", "connection protocol: socket, pipe")
	fs.IntSliceVarP(&f.ports, "ports", "p", nil, "worker ports, one worker per port")
	fs.StringSliceVar(&f.pipeNames, "pipe-names", nil, "worker pipe names, one worker per name")
	fs.IntVarP(&f.workers, "workers", "w", 0, "expand the first port or pipe name into N workers (0 = auto)")
	fs.StringSliceVar(&f.runAs, "run-as", nil, "privilege-elevation prefix, e.g. sudo,-n,-u,office")
	fs.StringVar(&f.templateProfile, "template-profile", "", "user profile copied into every worker")
	fs.StringVar(&f.workDir, "work-dir", "", "directory for worker instance profiles")
	fs.DurationVar(&f.queueTimeout, "queue-timeout", 0, "max wait for a free worker")
	fs.DurationVar(&f.execTimeout, "exec-timeout", 0, "max duration of one task")
	fs.IntVar(&f.maxTasks, "max-tasks", 0, "tasks per worker before restart")
	fs.DurationVar(&f.retryTimeout, "retry-timeout", 0, "max wait for a worker to come up")
	fs.DurationVar(&f.retryInterval, "retry-interval", 0, "pause between worker checks")
}

// parsePoolFlags parses check/start flags. Positional arguments are rejected.
func parsePoolFlags(name string, args []string, stderr io.Writer) (*poolFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &poolFlags{fs: fs}

	addCommonFlags(fs, &f.common)
	addPoolFlags(fs, f)
	if name == "check" {
		fs.BoolVar(&f.json, "json", false, "print the plan as JSON")
	}

	fs.Usage = func() { printPoolUsage(stderr, name) }

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	if fs.NArg() > 0 {
		return nil, usageError(errUnexpectedArgs(fs.Args()))
	}
	return f, nil
}
