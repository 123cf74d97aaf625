package app

import "github.com/urfave/cli/v2"

var (
	durationFlag = &cli.StringFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "Start a session right away. Accepts minutes (e.g. 20) or a Go duration (e.g. 12m30s), up to 60 minutes",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Sound to play when a session ends. Use 'bell', the name of a file in the sounds directory, a path to an\n\t\t\t\tmp3, ogg, flac or wav file, or 'off' to disable sound",
	}

	alarmFlag = &cli.StringFlag{
		Name:  "alarm",
		Usage: "How the end of a session is delivered: 'process' keeps a background process waiting even after\n\t\t\t\tserenity exits, 'local' only while serenity is open",
	}

	storageFlag = &cli.StringFlag{
		Name:  "storage",
		Usage: "Where meditated days are kept: file, bolt or sqlite",
	}

	twentyFourHourFlag = &cli.BoolFlag{
		Name:  "24hr",
		Usage: "Show the wake-up time in 24-hour format",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	monthFlag = &cli.StringFlag{
		Name:    "month",
		Aliases: []string{"m"},
		Usage:   "Month to show (e.g. '2024-03', 'march', 'last month')",
	}

	listFlag = &cli.BoolFlag{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "Print every meditated day in a table",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print every meditated day as JSON",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	atFlag = &cli.Int64Flag{
		Name:     "at",
		Usage:    "Wake-up instant in Unix milliseconds",
		Required: true,
	}
)
