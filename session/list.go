package session

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/ui"
)

const (
	noDatesMsg = "No meditation sessions recorded yet"
)

// PrintDatesTable prints the meditated days to w, one row per day.
func PrintDatesTable(w io.Writer, dates []models.Date) error {
	if len(dates) == 0 {
		_, err := fmt.Fprintln(w, pterm.Info.Sprint(noDatesMsg))
		return err
	}

	tableBody := make([][]string, len(dates))

	for i, d := range dates {
		tableBody[i] = []string{
			fmt.Sprintf("%d", i+1),
			d.String(),
			d.Time(time.UTC).Weekday().String(),
		}
	}

	tableBody = append([][]string{
		{"#", "DATE", "WEEKDAY"},
	}, tableBody...)

	return ui.PrintTable(tableBody, w)
}

// WriteJSON writes the meditated days to w as a JSON array of ISO dates.
func WriteJSON(w io.Writer, dates []models.Date) error {
	if dates == nil {
		dates = []models.Date{}
	}

	b, err := json.Marshal(dates)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
