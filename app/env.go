package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jojocoffee/serenity/alarm"
	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/pathutil"
	"github.com/jojocoffee/serenity/internal/ui"
	"github.com/jojocoffee/serenity/session"
	"github.com/jojocoffee/serenity/sound"
	"github.com/jojocoffee/serenity/store"
	"github.com/jojocoffee/serenity/timer"
)

// env holds every collaborator needed by a command. It is created per
// invocation and must be closed before the process exits.
type env struct {
	cfg    *config.Config
	client *store.Client
	dates  *session.Store
	sched  *timer.Scheduler
	local  *alarm.Local

	closers []io.Closer
}

type envOptions struct {
	// prompt asks for the main settings on the very first run
	prompt bool
	// timer builds the scheduler and its alarm
	timer bool
	// alarmMode overrides the configured alarm mode when set
	alarmMode string
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(ctx *cli.Context, prompt bool) (*config.Config, error) {
	opts := []config.Option{}

	if prompt {
		opts = append(opts, config.WithPromptConfig(pathutil.ConfigFilePath()))
	}

	opts = append(
		opts,
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithSoundsDir(pathutil.SoundsDir()),
		config.WithCLIConfig(ctx),
	)

	return config.New(opts...)
}

// setupLogging sends structured logs to a rotating file so that they never
// interfere with the terminal UI.
func setupLogging(cfg *config.Config) io.Closer {
	w := &lumberjack.Logger{
		Filename:   pathutil.LogFilePath(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	return w
}

func newEnv(ctx *cli.Context, o envOptions) (*env, error) {
	cfg, err := loadConfig(ctx, o.prompt)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}

	e.closers = append(e.closers, setupLogging(cfg))

	ui.DarkTheme = cfg.Display.DarkTheme

	e.client, err = store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return nil, errors.Join(err, e.close())
	}

	list, closer, err := store.OpenDateList(
		cfg.Storage.Backend,
		e.client,
		store.Locations{
			DatesFile:  pathutil.DatesFilePath(),
			SQLiteFile: pathutil.SQLiteFilePath(),
		},
	)
	if err != nil {
		return nil, errors.Join(err, e.close())
	}

	e.closers = append(e.closers, closer)

	e.dates = session.New(list)

	if _, err = e.dates.Load(); err != nil {
		return nil, errors.Join(err, e.close())
	}

	if !o.timer {
		return e, nil
	}

	mode := firstNonEmptyString(o.alarmMode, cfg.Alarm.Mode)

	if err = e.setupTimer(mode); err != nil {
		return nil, errors.Join(err, e.close())
	}

	return e, nil
}

func (e *env) setupTimer(mode string) error {
	var (
		a   timer.Alarm
		err error
	)

	switch mode {
	case config.AlarmLocal:
		e.local = alarm.NewLocal(func(string) error {
			return e.sched.OnExpire()
		})
		a = e.local
	default:
		a, err = alarm.NewProcess(pathutil.PIDFilePath(), e.cfg.Alarm.Command)
		if err != nil {
			return err
		}
	}

	e.sched, err = timer.New(
		e.client,
		a,
		timer.WithPlayer(sound.NewPlayer(e.cfg.SoundsDir)),
		timer.WithRecorder(freshRecorder{e.dates}),
		timer.WithSound(e.cfg.Timer.Sound),
		timer.WithDefaultDuration(e.cfg.StartDuration()),
	)
	if err != nil {
		return err
	}

	// an in-process alarm does not outlive the process that armed it
	st := e.sched.State()
	if e.local != nil && st.Status == timer.Running {
		return e.local.Arm(st.WakeUp, timer.AlarmID)
	}

	return nil
}

// close waits for a playing alert, writes pending days and releases every
// resource held by e.
func (e *env) close() error {
	var errs []error

	if e.local != nil {
		e.local.Stop()
	}

	if e.sched != nil {
		e.sched.Close()
	}

	if e.dates != nil {
		errs = append(errs, e.dates.Flush())
	}

	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}

	return errors.Join(errs...)
}

// freshRecorder reloads the meditated days before recording one, since
// another serenity process may have written them in the meantime.
type freshRecorder struct {
	dates *session.Store
}

func (r freshRecorder) RecordCompletion(d models.Date) error {
	if err := r.dates.Flush(); err != nil {
		slog.Warn("unable to write pending days", slog.Any("error", err))
	} else if _, err := r.dates.Load(); err != nil {
		return err
	}

	return r.dates.RecordCompletion(d)
}
