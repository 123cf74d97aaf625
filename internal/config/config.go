// Package config loads the serenity settings from the config file and the
// command line
package config

import (
	"io"
	"log/slog"
	"os"
	"time"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Timer   TimerConfig   `mapstructure:"timer"`
		Alarm   AlarmConfig   `mapstructure:"alarm"`
		Storage StorageConfig `mapstructure:"storage"`
		Display DisplayConfig `mapstructure:"display"`
		Log     LogConfig     `mapstructure:"log"`
		CLI     CLIConfig     `mapstructure:"-"`
		// SoundsDir is where sound names without a path are looked up.
		SoundsDir string `mapstructure:"-"`
	}

	// TimerConfig holds countdown settings.
	TimerConfig struct {
		Sound           string        `mapstructure:"sound"`
		DefaultDuration time.Duration `mapstructure:"default_duration"`
	}

	// AlarmConfig selects how the wake-up alarm is delivered.
	AlarmConfig struct {
		Mode    string `mapstructure:"mode"`
		Command string `mapstructure:"command"`
	}

	// StorageConfig selects where the meditated days are kept.
	StorageConfig struct {
		Backend string `mapstructure:"backend"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme      bool `mapstructure:"dark_theme"`
		TwentyFourHour bool `mapstructure:"24hr_clock"`
	}

	// LogConfig controls the log file.
	LogConfig struct {
		Level      string `mapstructure:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	}

	// CLIConfig holds settings that only exist for the current invocation.
	CLIConfig struct {
		Duration time.Duration
		// StartNow is set when a duration was given on the command line.
		StartNow bool
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v1.0.0"

// Alarm delivery modes.
const (
	AlarmProcess = "process"
	AlarmLocal   = "local"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config, applies opts in order and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// WithSoundsDir sets the directory that sound names are resolved in.
func WithSoundsDir(dir string) Option {
	return func(c *Config) error {
		c.SoundsDir = dir
		return nil
	}
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// StartDuration returns the duration to preselect when the timer is idle.
func (c *Config) StartDuration() time.Duration {
	if c.CLI.StartNow {
		return c.CLI.Duration
	}

	return c.Timer.DefaultDuration
}
