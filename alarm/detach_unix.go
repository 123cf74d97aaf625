//go:build !windows

package alarm

import (
	"errors"
	"os/exec"
	"syscall"
)

// detach starts the command in its own session so that it is not killed
// along with the terminal that launched it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func terminate(pid int) error {
	err := syscall.Kill(pid, syscall.SIGTERM)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}

	return nil
}
