package config

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jojocoffee/serenity/alarm"
	"github.com/jojocoffee/serenity/sound"
	"github.com/jojocoffee/serenity/store"
	"github.com/jojocoffee/serenity/timer"
)

var (
	alarmModes = []string{AlarmProcess, AlarmLocal}
	backends   = []string{store.BackendFile, store.BackendBolt, store.BackendSQLite}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := validateDuration("timer.default_duration", c.Timer.DefaultDuration); err != nil {
		return err
	}

	if c.CLI.StartNow {
		if err := validateDuration("--duration", c.CLI.Duration); err != nil {
			return err
		}
	}

	if err := c.validateSound(); err != nil {
		return err
	}

	if err := c.validateAlarm(); err != nil {
		return err
	}

	if !slices.Contains(backends, c.Storage.Backend) {
		return errUnknownBackend.Fmt(c.Storage.Backend, strings.Join(backends, ", "))
	}

	return c.validateLog()
}

func validateDuration(name string, d time.Duration) error {
	if d < 0 || d > timer.MaxDuration {
		return errInvalidDuration.Fmt(name, time.Duration(0), timer.MaxDuration, d)
	}

	return nil
}

// validateSound accepts the built-in sounds and files that can be found.
func (c *Config) validateSound() error {
	switch c.Timer.Sound {
	case "", sound.Off, sound.Bell:
		return nil
	}

	if _, err := sound.NewPlayer(c.SoundsDir).Resolve(c.Timer.Sound); err != nil {
		return errInvalidSound.Wrap(err)
	}

	return nil
}

func (c *Config) validateAlarm() error {
	if !slices.Contains(alarmModes, c.Alarm.Mode) {
		return errUnknownAlarmMode.Fmt(c.Alarm.Mode, strings.Join(alarmModes, ", "))
	}

	if strings.TrimSpace(c.Alarm.Command) == "" {
		return nil
	}

	// no process is started until the alarm is armed
	if _, err := alarm.NewProcess("", c.Alarm.Command); err != nil {
		return errInvalidAlarmCommand.Wrap(err)
	}

	return nil
}

func (c *Config) validateLog() error {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	if c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups < 0 {
		return errInvalidLogRotation
	}

	return nil
}
