package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/jojocoffee/serenity/countdown"
	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/osutil"
	"github.com/jojocoffee/serenity/internal/pathutil"
	"github.com/jojocoffee/serenity/internal/static"
	"github.com/jojocoffee/serenity/internal/timeutil"
	"github.com/jojocoffee/serenity/internal/ui"
	"github.com/jojocoffee/serenity/report"
	"github.com/jojocoffee/serenity/sound"
	"github.com/jojocoffee/serenity/timer"
)

const (
	envNoColor         = "NO_COLOR"
	envSerenityNoColor = "SERENITY_NO_COLOR"
)

// the fire process compares the wall clock against the wake-up instant at
// least this often, so that time spent suspended is accounted for
const fireCheckInterval = 15 * time.Second

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// withEnv runs fn with a fully wired environment and releases it afterwards.
func withEnv(ctx *cli.Context, o envOptions, fn func(e *env) error) error {
	e, err := newEnv(ctx, o)
	if err != nil {
		return err
	}

	err = fn(e)

	return errors.Join(err, e.close())
}

// defaultAction opens the countdown screen. A duration given with
// --duration starts a session straight away.
func defaultAction(ctx *cli.Context) error {
	return withEnv(ctx, envOptions{prompt: true, timer: true}, func(e *env) error {
		if e.cfg.CLI.StartNow {
			if st := e.sched.State(); st.Status != timer.Idle {
				report.Info("A session is already %s", st.Status)
			} else if err := e.sched.Start(e.cfg.CLI.Duration); err != nil {
				return err
			}
		}

		m := countdown.New(e.sched, countdown.Options{
			Style:          countdown.NewStyle(e.cfg.Display.DarkTheme),
			TwentyFourHour: e.cfg.Display.TwentyFourHour,
		})

		if _, err := tea.NewProgram(m).Run(); err != nil {
			return err
		}

		reportDetached(e)

		return nil
	})
}

// reportDetached tells the user what happens to a session that is still
// running after the countdown screen is closed.
func reportDetached(e *env) {
	st := e.sched.State()
	if st.Status != timer.Running {
		return
	}

	if e.local != nil {
		report.Info(
			"Your session ends at %s. Run serenity again to hear the bell",
			clock(e.cfg, st.WakeUp),
		)

		return
	}

	report.Info("The bell will ring at %s", clock(e.cfg, st.WakeUp))
}

func clock(cfg *config.Config, t time.Time) string {
	if cfg.Display.TwentyFourHour {
		return t.Format("15:04")
	}

	return t.Format("03:04 PM")
}

// statusLine describes st at now in a single line.
func statusLine(cfg *config.Config, st timer.State, now time.Time) string {
	remaining := st.Remaining

	switch st.Status {
	case timer.Running:
		remaining = max(st.WakeUp.Sub(now), 0)

		return fmt.Sprintf(
			"%s %s left (until %s)",
			ui.Green("Meditating:"),
			formatRemaining(remaining),
			ui.Cyan(clock(cfg, st.WakeUp)),
		)
	case timer.Paused:
		return fmt.Sprintf("%s %s left", ui.Yellow("Paused:"), formatRemaining(remaining))
	case timer.Idle:
	}

	return "No session in progress"
}

func formatRemaining(d time.Duration) string {
	m, s := timeutil.SecsToMinsAndSecs(d.Seconds())

	return fmt.Sprintf("%02d:%02d", m, s)
}

// statusAction prints the status of the timer.
func statusAction(ctx *cli.Context) error {
	return withEnv(ctx, envOptions{timer: true}, func(e *env) error {
		pterm.Println(statusLine(e.cfg, e.sched.State(), time.Now()))
		return nil
	})
}

// pauseAction pauses the running timer from the command line.
func pauseAction(ctx *cli.Context) error {
	return withEnv(ctx, envOptions{timer: true}, func(e *env) error {
		if err := e.sched.Pause(); err != nil {
			return err
		}

		pterm.Println(statusLine(e.cfg, e.sched.State(), time.Now()))

		return nil
	})
}

// resumeAction resumes a paused timer from the command line.
func resumeAction(ctx *cli.Context) error {
	return withEnv(ctx, envOptions{timer: true}, func(e *env) error {
		if e.sched.State().Status != timer.Paused {
			report.Info("There is no paused session to resume")
			return nil
		}

		if err := e.sched.Resume(); err != nil {
			return err
		}

		pterm.Println(statusLine(e.cfg, e.sched.State(), time.Now()))
		reportDetached(e)

		return nil
	})
}

// resetAction cancels the timer from the command line.
func resetAction(ctx *cli.Context) error {
	return withEnv(ctx, envOptions{timer: true}, func(e *env) error {
		if err := e.sched.Reset(); err != nil {
			return err
		}

		report.Success("The timer was reset")

		return nil
	})
}

// fireAction is started by the process alarm. It waits for the wake-up
// instant and ends the session, even though no other serenity process may be
// running by then.
func fireAction(ctx *cli.Context) error {
	at := time.UnixMilli(ctx.Int64("at"))

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := envOptions{timer: true, alarmMode: config.AlarmProcess}

	return withEnv(ctx, o, func(e *env) error {
		slog.Info("alarm waiting", slog.Time("at", at), slog.Int("pid", os.Getpid()))

		if !sleepUntil(sigCtx, at) {
			slog.Info("alarm cancelled", slog.Time("at", at))
			return nil
		}

		return e.sched.OnExpire()
	})
}

// sleepUntil blocks until the wall clock reaches at. It reports false if ctx
// is done first.
func sleepUntil(ctx context.Context, at time.Time) bool {
	for {
		left := at.Sub(time.Now().Round(0))
		if left <= 0 {
			return true
		}

		t := time.NewTimer(min(left, fireCheckInterval))

		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}

// soundsAction lists the sounds that can be used with --sound.
func soundsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	names, err := sound.Available(cfg.SoundsDir)
	if err != nil {
		return err
	}

	for _, name := range names {
		if name == cfg.Timer.Sound {
			pterm.Println(ui.Green(name + " (current)"))
			continue
		}

		pterm.Println(name)
	}

	pterm.Println()
	pterm.Printfln("Add your own sounds to %s", ui.Highlight(cfg.SoundsDir))

	return nil
}

// pageAction prints the page named after the invoked command.
func pageAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	out, err := static.Render(
		ctx.Command.Name,
		pterm.GetTerminalWidth(),
		cfg.Display.DarkTheme,
		pterm.PrintColor,
	)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(config.Stdout, out)

	return err
}

// editConfigAction handles the edit-config command which opens the serenity
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	// writes the default settings if the file does not exist yet
	if _, err := loadConfig(ctx, false); err != nil {
		return err
	}

	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if SERENITY_NO_COLOR is set
	if _, exists := os.LookupEnv(envSerenityNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return pathutil.Initialize()
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting serenity")

	return nil
}
