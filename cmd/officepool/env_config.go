package main

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-officepool/internal/config"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "OFFICEPOOL_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string   // OFFICEPOOL_CONFIG: config file name or path
	Protocol   string   // OFFICEPOOL_PROTOCOL: socket or pipe
	WorkDir    string   // OFFICEPOOL_WORK_DIR: instance profile directory
	RunAs      []string // OFFICEPOOL_RUN_AS: space-separated elevation prefix
	LogLevel   string   // OFFICEPOOL_LOG_LEVEL: debug, info, warn, error
	Workers    int      // OFFICEPOOL_WORKERS: worker count
}

// knownEnvVars lists valid OFFICEPOOL_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"OFFICEPOOL_CONFIG":    true,
	"OFFICEPOOL_PROTOCOL":  true,
	"OFFICEPOOL_WORK_DIR":  true,
	"OFFICEPOOL_RUN_AS":    true,
	"OFFICEPOOL_LOG_LEVEL": true,
	"OFFICEPOOL_WORKERS":   true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("OFFICEPOOL_CONFIG"),
		Protocol:   getenv("OFFICEPOOL_PROTOCOL"),
		WorkDir:    getenv("OFFICEPOOL_WORK_DIR"),
		RunAs:      strings.Fields(getenv("OFFICEPOOL_RUN_AS")),
		LogLevel:   getenv("OFFICEPOOL_LOG_LEVEL"),
	}

	// Parse int for workers
	if workers := getenv("OFFICEPOOL_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized OFFICEPOOL_* variables.
// Helps catch typos like OFFICEPOOL_WORKER instead of OFFICEPOOL_WORKERS.
func warnUnknownEnvVars(log zerolog.Logger, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.Warn().Str("variable", name).Msg("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty, so
// the precedence is: CLI flags > config file > env vars > defaults.
// (CLI flags are applied later via poolOptions, which also drops
// OFFICEPOOL_WORKERS when the config file lists endpoints)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Protocol != "" && cfg.Connection.Protocol == "" {
		cfg.Connection.Protocol = env.Protocol
	}
	if env.WorkDir != "" && cfg.Office.WorkDir == "" {
		cfg.Office.WorkDir = env.WorkDir
	}
	if len(env.RunAs) > 0 && len(cfg.Office.RunAs) == 0 {
		cfg.Office.RunAs = env.RunAs
	}
	if env.LogLevel != "" && cfg.Log.Level == "" {
		cfg.Log.Level = env.LogLevel
	}
}
