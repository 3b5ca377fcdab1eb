// Package config defines the application configuration, its command-line
// flags, environment overrides and the YAML batch file format.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/logging"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "FANBATCH_"

// DefaultDrainTimeout is the default aggregate deadline on result collection.
const DefaultDrainTimeout = 10 * time.Second

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// BatchFile is a YAML batch definition. Empty runs the reference batch.
	BatchFile string
	// DrainTimeout bounds result collection. Zero blocks until every
	// outcome arrives or the run is canceled.
	DrainTimeout time.Duration
	// ChannelCapacity sizes the result channel. Zero sizes it to the batch.
	ChannelCapacity int
	// Fail lists workers whose computation is forced to fail.
	Fail []string

	Quiet   bool
	Verbose bool
	NoColor bool
	TUI     bool
	Trace   bool

	// MetricsFile receives a Prometheus text dump after the run.
	MetricsFile string
	// OutputFile receives a YAML report after the run.
	OutputFile string
	// EnvFile is a dotenv file loaded before environment overrides.
	EnvFile string

	LogLevel   string
	LogBackend string
}

// Default returns the configuration used when nothing is set.
func Default() AppConfig {
	return AppConfig{
		DrainTimeout: DefaultDrainTimeout,
		LogLevel:     "warn",
		LogBackend:   logging.BackendZerolog,
	}
}

// RegisterFlags binds cfg to flags on fs. Current values of cfg are used as
// defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVarP(&cfg.BatchFile, "batch", "b", cfg.BatchFile, "YAML batch file (default: the reference three-worker batch)")
	fs.DurationVar(&cfg.DrainTimeout, "drain-timeout", cfg.DrainTimeout, "Deadline for collecting all outcomes (0 blocks until every worker reports)")
	fs.IntVar(&cfg.ChannelCapacity, "capacity", cfg.ChannelCapacity, "Result channel capacity (0 or less than the batch size uses the batch size)")
	fs.StringSliceVar(&cfg.Fail, "fail", cfg.Fail, "Comma-separated worker names whose computation is forced to fail")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Print only the verdict line")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Print run id, elapsed time and memory usage")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Show the interactive dashboard")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "Print OpenTelemetry spans to stderr")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics in text format to this file")
	fs.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "Write a YAML report to this file")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Load environment overrides from a dotenv file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "Log backend: "+strings.Join(logging.Backends(), ", "))
}

// Finalize loads the env file if any, applies environment overrides for
// flags not set on the command line, and validates the result.
// Priority: CLI flags > environment (including the env file) > defaults.
func Finalize(cfg *AppConfig, fs *pflag.FlagSet) error {
	if !fs.Changed("env-file") {
		if v := envValue("ENV_FILE"); v != "" {
			cfg.EnvFile = v
		}
	}
	if cfg.EnvFile != "" {
		if err := LoadEnvFile(cfg.EnvFile); err != nil {
			return err
		}
	}
	applyEnvOverrides(cfg, fs)
	return cfg.Validate()
}

// ParseConfig parses args into a configuration. Usage and parse errors are
// written to errorOutput.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	cfg := Default()
	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SetOutput(errorOutput)
	RegisterFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := Finalize(&cfg, fs); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for semantic errors. Batch contents are
// validated when the batch is loaded.
func (c AppConfig) Validate() error {
	if c.DrainTimeout < 0 {
		return apperrors.ValidationError{Field: "drain-timeout", Message: fmt.Sprintf("must not be negative, got %s", c.DrainTimeout)}
	}
	if c.ChannelCapacity < 0 {
		return apperrors.ValidationError{Field: "capacity", Message: fmt.Sprintf("must not be negative, got %d", c.ChannelCapacity)}
	}
	if c.Quiet && c.TUI {
		return apperrors.ValidationError{Field: "tui", Message: "cannot be combined with --quiet"}
	}
	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		return apperrors.ValidationError{Field: "log-level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	if c.LogBackend != "" && !isBackend(c.LogBackend) {
		return apperrors.ValidationError{Field: "log-backend", Message: fmt.Sprintf("unknown backend %q (want one of %s)", c.LogBackend, strings.Join(logging.Backends(), ", "))}
	}
	for _, name := range c.Fail {
		if strings.TrimSpace(name) == "" {
			return apperrors.ValidationError{Field: "fail", Message: "worker names must not be empty"}
		}
	}
	return nil
}

func isBackend(name string) bool {
	for _, b := range logging.Backends() {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}
