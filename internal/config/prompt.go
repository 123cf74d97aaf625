package config

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
 ___  ___ _ __ ___ _ __ (_) |_ _   _
/ __|/ _ \ '__/ _ \ '_ \| | __| | | |
\__ \  __/ | |  __/ | | | | |_| |_| |
|___/\___|_|  \___|_| |_|_|\__|\__, |
                               |___/`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Sound           string
	DefaultDuration int
}

// WithPromptConfig returns an Option that asks for the main settings when
// the config file does not exist yet.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return errPrompt.Wrap(err)
		}

		return applyPromptOptions(c, opts)
	}
}

func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Answer the prompts below to set up serenity for the first time.
Press ENTER to accept the defaults.
Run 'serenity edit-config' to change any setting later.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Preselected session length").
				Options(
					huh.NewOption("5 minutes", 5),
					huh.NewOption("10 minutes", 10),
					huh.NewOption("15 minutes", 15).Selected(true),
					huh.NewOption("20 minutes", 20),
					huh.NewOption("30 minutes", 30),
					huh.NewOption("45 minutes", 45),
					huh.NewOption("60 minutes", 60),
				).
				Value(&opts.DefaultDuration),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sound at the end of a session").
				Options(
					huh.NewOption("Bell", "bell").Selected(true),
					huh.NewOption("Silent", "off"),
				).
				Value(&opts.Sound),
		),
	).WithInput(Stdin).WithOutput(Stdout)

	if err := form.Run(); err != nil {
		return opts, err
	}

	return opts, nil
}

func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.Timer.DefaultDuration = time.Duration(opts.DefaultDuration) * time.Minute
	c.Timer.Sound = opts.Sound

	return nil
}
