package app

import (
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/timeutil"
	"github.com/jojocoffee/serenity/report"
)

// confirmDelete asks before a day is removed from the calendar.
var confirmDelete = func(d models.Date) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Remove " + d.String() + " from your meditation calendar?").
				Affirmative("Remove").
				Negative("Keep").
				Value(&ok),
		),
	).WithInput(config.Stdin).WithOutput(config.Stdout)

	if err := form.Run(); err != nil {
		return false, errConfirm.Wrap(err)
	}

	return ok, nil
}

// deleteAction removes a single day from the meditated days. The day may be
// an ISO date or a phrase such as "yesterday".
func deleteAction(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return errMissingDate
	}

	d, err := timeutil.FromStr(arg, time.Now())
	if err != nil {
		return err
	}

	return withEnv(ctx, envOptions{}, func(e *env) error {
		if !e.dates.Has(d) {
			report.Info("%s is not on your meditation calendar", d)
			return nil
		}

		if !ctx.Bool("yes") {
			ok, err := confirmDelete(d)
			if err != nil {
				return err
			}

			if !ok {
				return nil
			}
		}

		if err := e.dates.DeleteDate(d); err != nil {
			return err
		}

		report.Success("Removed %s from your meditation calendar", d)

		return nil
	})
}
