package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Duration     string
	Sound        string
	Alarm        string
	Storage      string
	HasDuration  bool
	TwentyFourHr bool
}

// WithCLIConfig returns an Option that overrides settings with command-line
// flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Duration:     ctx.String("duration"),
			HasDuration:  ctx.IsSet("duration"),
			Sound:        ctx.String("sound"),
			Alarm:        ctx.String("alarm"),
			Storage:      ctx.String("storage"),
			TwentyFourHr: ctx.Bool("24hr"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.HasDuration {
		d, err := parseDuration(opts.Duration)
		if err != nil {
			return errInvalidCLIDuration.Fmt(opts.Duration, err)
		}

		c.CLI.Duration = d
		c.CLI.StartNow = true
	}

	if opts.Sound != "" {
		c.Timer.Sound = opts.Sound
	}

	if opts.Alarm != "" {
		c.Alarm.Mode = opts.Alarm
	}

	if opts.Storage != "" {
		c.Storage.Backend = opts.Storage
	}

	if opts.TwentyFourHr {
		c.Display.TwentyFourHour = true
	}

	return nil
}
