package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyDefaultDuration = "timer.default_duration"
	keySound           = "timer.sound"
	keyAlarmMode       = "alarm.mode"
	keyAlarmCommand    = "alarm.command"
	keyStorageBackend  = "storage.backend"
	keyDarkTheme       = "display.dark_theme"
	keyTwentyFourHour  = "display.24hr_clock"
	keyLogLevel        = "log.level"
	keyLogMaxSize      = "log.max_size_mb"
	keyLogMaxBackups   = "log.max_backups"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. A missing file is created with the default settings.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper registers the defaults. Values already present in c, such as
// the answers to the first-run prompt, take precedence over them.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyDefaultDuration, "15m")
	v.SetDefault(keySound, "bell")
	v.SetDefault(keyAlarmMode, AlarmProcess)
	v.SetDefault(keyAlarmCommand, "")
	v.SetDefault(keyStorageBackend, "file")
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 5)
	v.SetDefault(keyLogMaxBackups, 3)

	if c.Timer.DefaultDuration > 0 {
		v.SetDefault(keyDefaultDuration, c.Timer.DefaultDuration.String())
	}

	if c.Timer.Sound != "" {
		v.SetDefault(keySound, c.Timer.Sound)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	// bare numbers are minutes
	d, err := parseDuration(v.GetString(keyDefaultDuration))
	if err != nil {
		return errInvalidConfigDuration.Fmt(keyDefaultDuration, err)
	}

	v.Set(keyDefaultDuration, d)

	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}

// parseDuration parses duration strings, treating a bare number as minutes.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if mins, err := strconv.Atoi(s); err == nil {
		return time.Duration(mins) * time.Minute, nil
	}

	return time.ParseDuration(s)
}
