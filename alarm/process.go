package alarm

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/jojocoffee/serenity/internal/apperr"
	"github.com/jojocoffee/serenity/internal/osutil"
)

// Placeholders expanded in the alarm command.
const (
	AtPlaceholder = "{at}"
	IDPlaceholder = "{id}"
)

var (
	errParseCommand = &apperr.Error{
		Message: "unable to parse alarm command",
	}

	errEmptyCommand = &apperr.Error{
		Message: "alarm command is empty",
	}

	errMissingPlaceholder = &apperr.Error{
		Message: "alarm command must contain the " + AtPlaceholder + " placeholder",
	}

	errSpawn = &apperr.Error{
		Message: "unable to start alarm process",
	}

	errPIDFile = &apperr.Error{
		Message: "unable to access alarm pid file",
	}

	errTerminate = &apperr.Error{
		Message: "unable to stop alarm process %d",
	}
)

// Process arms alarms by starting a detached process that waits for the
// wake-up instant and runs the expiry callback. The process outlives the one
// that armed it. Only one alarm is tracked, through a pid file.
type Process struct {
	pidFile string
	argv    []string
}

// NewProcess returns alarms that run command when armed. The command is split
// like a shell would and its {at} placeholder is replaced with the wake-up
// instant in unix milliseconds. An empty command runs the fire subcommand of
// the current executable.
func NewProcess(pidFile, command string) (*Process, error) {
	var argv []string

	if strings.TrimSpace(command) == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, errSpawn.Wrap(err)
		}

		argv = []string{exe, "fire", "--at", AtPlaceholder}
	} else {
		var err error

		argv, err = shellquote.Split(command)
		if err != nil {
			return nil, errParseCommand.Wrap(err)
		}
	}

	if len(argv) == 0 {
		return nil, errEmptyCommand
	}

	if !slices.ContainsFunc(argv, func(arg string) bool {
		return strings.Contains(arg, AtPlaceholder)
	}) {
		return nil, errMissingPlaceholder
	}

	return &Process{
		pidFile: pidFile,
		argv:    argv,
	}, nil
}

// Arm starts the alarm process, stopping any process started earlier.
func (p *Process) Arm(at time.Time, id string) error {
	if at.IsZero() {
		return errZeroInstant.Fmt(id)
	}

	if err := p.Disarm(id); err != nil {
		return err
	}

	argv := expand(p.argv, at, id)

	cmd := exec.Command(argv[0], argv[1:]...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return errSpawn.Wrap(err)
	}

	pid := cmd.Process.Pid

	if err := p.writePID(pid); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()

		return err
	}

	// reap the child if it exits while this process is still around
	go func() {
		_ = cmd.Wait()
	}()

	slog.Debug(
		"alarm process started",
		slog.Int("pid", pid),
		slog.String("id", id),
		slog.Time("at", at),
	)

	return nil
}

// Disarm stops the alarm process, if any. A process disarming its own alarm
// is left running so that it can complete the expiry.
func (p *Process) Disarm(id string) error {
	pid, err := p.readPID()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		slog.Warn("discarding unreadable alarm pid file", slog.Any("error", err))
		return p.clearPID()
	}

	if pid != os.Getpid() && pid > 0 {
		if err := terminate(pid); err != nil {
			return errTerminate.Fmt(pid).Wrap(err)
		}

		slog.Debug("alarm process stopped", slog.Int("pid", pid), slog.String("id", id))
	}

	return p.clearPID()
}

// PID returns the pid of the pending alarm process, if one was started.
func (p *Process) PID() (int, bool) {
	pid, err := p.readPID()
	if err != nil {
		return 0, false
	}

	return pid, true
}

func (p *Process) writePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.pidFile), osutil.DirPermission); err != nil {
		return errPIDFile.Wrap(err)
	}

	err := os.WriteFile(p.pidFile, []byte(strconv.Itoa(pid)), osutil.FilePermission)
	if err != nil {
		return errPIDFile.Wrap(err)
	}

	return nil
}

func (p *Process) readPID() (int, error) {
	raw, err := os.ReadFile(p.pidFile)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(string(raw)))
}

func (p *Process) clearPID() error {
	if err := os.Remove(p.pidFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errPIDFile.Wrap(err)
	}

	return nil
}

func expand(argv []string, at time.Time, id string) []string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)

	out := make([]string, len(argv))
	for i, arg := range argv {
		arg = strings.ReplaceAll(arg, AtPlaceholder, ms)
		out[i] = strings.ReplaceAll(arg, IDPlaceholder, id)
	}

	return out
}
