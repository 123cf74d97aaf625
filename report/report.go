// Package report prints the outcome of a command to the terminal
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/jojocoffee/serenity/internal/osutil"
)

func Success(format string, args ...any) {
	pterm.Success.Printfln(format, args...)
}

func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

func Warn(err error) {
	pterm.Warning.Println(err)
}

func Error(err error) {
	pterm.Error.Println(err)
}

// Quit reports err and exits with a failure status.
func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(int(osutil.ExitError))
}
