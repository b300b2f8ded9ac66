package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	officepool "github.com/alnah/go-officepool"
	"github.com/alnah/go-officepool/internal/config"
	"github.com/alnah/go-officepool/internal/fileutil"
	"github.com/alnah/go-officepool/internal/hints"
)

// poolSetup is what check and start share once flags are parsed.
type poolSetup struct {
	cfg  *config.Config
	log  zerolog.Logger
	pool *officepool.PoolManager
}

// configName returns the config file named by --config, then OFFICEPOOL_CONFIG.
func configName(f *poolFlags, env *envConfig) string {
	if f.common.config != "" {
		return f.common.config
	}
	return env.ConfigPath
}

// loadConfig loads the named config file, or returns defaults when no file
// is named. A named file that cannot be found is an error.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

// setupPool merges file, environment, and flags into a built pool manager.
// No worker is started.
func setupPool(f *poolFlags, env *Environment) (*poolSetup, error) {
	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(configName(f, envCfg))
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)

	log := newLogger(env.Stderr, logLevel(f.common, cfg.Log.Level))
	warnUnknownEnvVars(log, env.Environ())
	setMaxProcs(log)

	opts, err := poolOptions(cfg, envCfg, f)
	if err != nil {
		return nil, err
	}
	opts = append(opts, officepool.WithLogger(log))

	c, err := officepool.NewConfiguration().Apply(opts...)
	if err != nil {
		return nil, err
	}
	pool, err := c.Build()
	if err != nil {
		return nil, err
	}

	return &poolSetup{cfg: cfg, log: log, pool: pool}, nil
}

// pick returns the flag value when the flag was given, else the file value.
func pick[T any](fileValue, flagValue T, changed bool) T {
	if changed {
		return flagValue
	}
	return fileValue
}

// poolOptions translates merged settings into configuration options.
// Settings left unset everywhere keep the library defaults.
func poolOptions(cfg *config.Config, env *envConfig, f *poolFlags) ([]officepool.Option, error) {
	var opts []officepool.Option

	if home := pick(cfg.Office.Home, f.officeHome, f.changed("office-home")); home != "" {
		opts = append(opts, officepool.WithOfficeHome(home))
	}
	if name := pick(cfg.Connection.Protocol, f.protocol, f.changed("protocol")); name != "" {
		p, err := officepool.ParseConnectionProtocol(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, officepool.WithConnectionProtocol(p))
	}

	ports := pick(cfg.Connection.Ports, f.ports, f.changed("ports"))
	pipes := pick(cfg.Connection.PipeNames, f.pipeNames, f.changed("pipe-names"))
	// An endpoint list from the config file outranks OFFICEPOOL_WORKERS.
	envWorkers := env.Workers > 0 && len(cfg.Connection.Ports) == 0 && len(cfg.Connection.PipeNames) == 0
	if f.changed("workers") || envWorkers {
		n := officepool.ResolvePoolSize(pick(env.Workers, f.workers, f.changed("workers")))
		first := officepool.DefaultPortNumber
		if len(ports) > 0 {
			first = ports[0]
		}
		base := officepool.DefaultPipeName
		if len(pipes) > 0 {
			base = pipes[0]
		}
		ports = officepool.ExpandPorts(first, n)
		pipes = officepool.ExpandPipeNames(base, n)
	}
	if len(ports) > 0 || f.changed("ports") {
		opts = append(opts, officepool.WithPortNumbers(ports...))
	}
	if len(pipes) > 0 || f.changed("pipe-names") {
		opts = append(opts, officepool.WithPipeNames(pipes...))
	}

	if runAs := pick(cfg.Office.RunAs, f.runAs, f.changed("run-as")); len(runAs) > 0 {
		opts = append(opts, officepool.WithRunAsArgs(runAs...))
	}
	if dir := pick(cfg.Office.TemplateProfileDir, f.templateProfile, f.changed("template-profile")); dir != "" {
		opts = append(opts, officepool.WithTemplateProfileDir(dir))
	}
	if dir := pick(cfg.Office.WorkDir, f.workDir, f.changed("work-dir")); dir != "" {
		opts = append(opts, officepool.WithWorkDir(dir))
	}

	durations := []struct {
		file  string
		flag  string
		value time.Duration
		with  func(time.Duration) officepool.Option
	}{
		{cfg.Tasks.QueueTimeout, "queue-timeout", f.queueTimeout, officepool.WithTaskQueueTimeout},
		{cfg.Tasks.ExecutionTimeout, "exec-timeout", f.execTimeout, officepool.WithTaskExecutionTimeout},
		{cfg.Retry.Timeout, "retry-timeout", f.retryTimeout, officepool.WithRetryTimeout},
		{cfg.Retry.Interval, "retry-interval", f.retryInterval, officepool.WithRetryInterval},
	}
	for _, d := range durations {
		if f.changed(d.flag) {
			opts = append(opts, d.with(d.value))
			continue
		}
		v, ok, err := config.ParseDuration(d.file)
		if err != nil {
			return nil, err
		}
		if ok {
			opts = append(opts, d.with(v))
		}
	}

	if f.changed("max-tasks") {
		opts = append(opts, officepool.WithMaxTasksPerWorker(f.maxTasks))
	} else if cfg.Tasks.MaxPerWorker != 0 {
		opts = append(opts, officepool.WithMaxTasksPerWorker(cfg.Tasks.MaxPerWorker))
	}

	return opts, nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, configName string, runAs []string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if configName != "" && !fileutil.IsFilePath(configName) {
			return hints.ForConfigNotFound(config.SearchPaths(configName))
		}
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, officepool.ErrWorkerRunning):
		return hints.ForWorkerRunning()
	case errors.Is(err, officepool.ErrWorkerStart):
		return hints.ForWorkerStart(runAs)
	case errors.Is(err, officepool.ErrQueueTimeout):
		return hints.ForQueueTimeout()
	case errors.Is(err, officepool.ErrInvalidState), errors.Is(err, officepool.ErrInvalidArgument):
		msg := err.Error()
		if strings.Contains(msg, "officeHome") {
			return hints.ForOfficeHome()
		}
		if strings.Contains(msg, "workDir") {
			return hints.ForWorkDir()
		}
	}
	return ""
}

// fail prints err with its hint and returns the matching exit code.
func fail(w io.Writer, err error, hint string) int {
	fmt.Fprintf(w, "error: %v%s\n", err, hint)
	return exitCodeFor(err)
}
