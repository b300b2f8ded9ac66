// Package config loads pool settings from YAML files.
//
// Every field is optional: an empty value means "keep the library default".
// Values are checked with validator struct tags before they reach the
// configuration builder, so file mistakes surface as ErrConfigInvalid rather
// than as builder argument errors.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/alnah/go-officepool/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
const MaxFileSize = 1 << 20

// appDirName is the directory searched under os.UserConfigDir.
const appDirName = "go-officepool"

// Config holds all file-level settings for an office worker pool.
type Config struct {
	Office     OfficeConfig     `yaml:"office"`
	Connection ConnectionConfig `yaml:"connection"`
	Tasks      TasksConfig      `yaml:"tasks"`
	Retry      RetryConfig      `yaml:"retry"`
	Log        LogConfig        `yaml:"log"`
}

// OfficeConfig locates the installation and the per-worker profile area.
type OfficeConfig struct {
	Home               string   `yaml:"home" validate:"max=4096"`               // Empty = auto-detect
	TemplateProfileDir string   `yaml:"templateProfileDir" validate:"max=4096"` // Must contain user/
	WorkDir            string   `yaml:"workDir" validate:"max=4096"`            // Empty = system temp dir
	RunAs              []string `yaml:"runAs" validate:"omitempty,dive,required"`
}

// ConnectionConfig defines the worker endpoints.
type ConnectionConfig struct {
	Protocol  string   `yaml:"protocol" validate:"omitempty,oneof=socket pipe"`
	Ports     []int    `yaml:"ports" validate:"omitempty,dive,min=1,max=65535"`
	PipeNames []string `yaml:"pipeNames" validate:"omitempty,dive,required,max=256"`
}

// TasksConfig bounds task waiting, execution, and worker reuse.
// Durations use Go syntax ("30s", "2m").
type TasksConfig struct {
	QueueTimeout     string `yaml:"queueTimeout" validate:"omitempty,duration"`
	ExecutionTimeout string `yaml:"executionTimeout" validate:"omitempty,duration"`
	MaxPerWorker     int    `yaml:"maxPerWorker"` // 0 = default
}

// RetryConfig controls polling while a worker starts.
type RetryConfig struct {
	Timeout  string `yaml:"timeout" validate:"omitempty,duration"`
	Interval string `yaml:"interval" validate:"omitempty,duration"`
}

// LogConfig sets the CLI log level.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a configuration that keeps every library default.
func DefaultConfig() *Config {
	return &Config{}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator returns the shared validator with custom rules registered.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report YAML key names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			_, err := time.ParseDuration(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks field values against their constraints.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		msgs = append(msgs, fmt.Sprintf("%s: failed %q rule (value %v)", field, ruleName(fe), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

// ruleName renders a validator tag with its parameter, e.g. "max=65535".
func ruleName(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// ParseDuration converts a validated duration field. Empty returns ok=false.
func ParseDuration(s string) (d time.Duration, ok bool, err error) {
	if s == "" {
		return 0, false, nil
	}
	d, err = time.ParseDuration(s)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return d, true, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parse strictly decodes YAML, rejecting unknown keys.
func parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxFileSize)
	}
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// SearchPaths lists, in lookup order, the files a config name resolves to:
// <name>.yaml and <name>.yml in the current directory, then in
// <UserConfigDir>/go-officepool/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
