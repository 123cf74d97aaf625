// Package timeutil provides helpers for the clock arithmetic and date parsing
// used by the timer and the calendar.
package timeutil

import (
	"math"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/jojocoffee/serenity/internal/apperr"
	"github.com/jojocoffee/serenity/internal/models"
)

const secondsInAMinute = 60

var errParseDate = &apperr.Error{
	Message: "unable to parse %q as a date",
}

// Round rounds a time value in seconds or minutes to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecsToMinsAndSecs splits a seconds value into whole minutes and seconds.
// Fractions of a second are rounded up so that a countdown never displays
// 00:00 while time is still left.
func SecsToMinsAndSecs(secs float64) (mins, s int) {
	total := int(math.Ceil(secs))
	if total < 0 {
		total = 0
	}

	return total / secondsInAMinute, total % secondsInAMinute
}

// DaysIn returns the number of days in the month for the specified time.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FromStr parses a date relative to now. ISO dates are accepted directly;
// anything else ("yesterday", "3 days ago", "March 4") goes through
// go-dateparser.
func FromStr(s string, now time.Time) (models.Date, error) {
	s = strings.TrimSpace(s)

	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return models.Date{}, errParseDate.Fmt(s).Wrap(err)
	}

	return models.DateOf(dt.Time.In(now.Location())), nil
}

// MonthFromStr parses a month such as "2024-03" or "march 2024". An empty
// string yields the month containing now.
func MonthFromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StartOfMonth(now), nil
	}

	if t, err := time.ParseInLocation("2006-01", s, now.Location()); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errParseDate.Fmt(s).Wrap(err)
	}

	return StartOfMonth(dt.Time.In(now.Location())), nil
}
