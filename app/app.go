// Package app assembles the serenity command-line application
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/ui"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	ui.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the serenity app instance.
func Get() *cli.App {
	serenityApp := &cli.App{
		Name: "serenity",
		Usage: `
		Serenity is a meditation timer for the command-line. Pick a length,
		close your eyes, and a bell tells you when the session is over. Every
		day you complete a session is marked on your calendar.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "pause",
				Usage:  "Pause the running timer",
				Action: pauseAction,
				Flags:  []cli.Flag{alarmFlag},
			},
			{
				Name:   "resume",
				Usage:  "Resume a paused timer",
				Action: resumeAction,
				Flags:  []cli.Flag{alarmFlag},
			},
			{
				Name:   "reset",
				Usage:  "Cancel the timer whether it is running or paused",
				Action: resetAction,
				Flags:  []cli.Flag{alarmFlag},
			},
			{
				Name:   "status",
				Usage:  "Print the status of the timer",
				Action: statusAction,
			},
			{
				Name:    "calendar",
				Aliases: []string{"cal"},
				Usage: `
				Show the days you meditated on. Defaults to the current month`,
				Action: calendarAction,
				Flags: []cli.Flag{
					monthFlag,
					listFlag,
					jsonFlag,
					storageFlag,
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove a day from the meditation calendar",
				ArgsUsage: "<date>",
				Action:    deleteAction,
				Flags: []cli.Flag{
					yesFlag,
					storageFlag,
				},
			},
			{
				Name:   "sounds",
				Usage:  "List the sounds that can be played at the end of a session",
				Action: soundsAction,
			},
			{
				Name:   "howto",
				Usage:  "Learn how to meditate",
				Action: pageAction,
			},
			{
				Name:   "about",
				Usage:  "About serenity",
				Action: pageAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:   "fire",
				Usage:  "Wait until the wake-up instant and end the session",
				Hidden: true,
				Action: fireAction,
				Flags:  []cli.Flag{atFlag},
			},
		},
		Flags: []cli.Flag{
			durationFlag,
			soundFlag,
			alarmFlag,
			storageFlag,
			twentyFourHourFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return serenityApp
}
