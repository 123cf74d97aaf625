package app

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/timeutil"
	"github.com/jojocoffee/serenity/internal/ui"
	"github.com/jojocoffee/serenity/session"
)

// calendarAction shows the meditated days as a month grid, a table or JSON.
func calendarAction(ctx *cli.Context) error {
	now := time.Now()

	month, err := timeutil.MonthFromStr(ctx.String("month"), now)
	if err != nil {
		return err
	}

	return withEnv(ctx, envOptions{}, func(e *env) error {
		dates := e.dates.AllDates()

		switch {
		case ctx.Bool("json"):
			return session.WriteJSON(config.Stdout, dates)
		case ctx.Bool("list"):
			return session.PrintDatesTable(config.Stdout, dates)
		}

		pterm.Println(ui.RenderMonth(
			month,
			models.DateOf(now),
			e.dates.Has,
			ui.NewCalendarStyle(e.cfg.Display.DarkTheme),
		))

		return nil
	})
}
