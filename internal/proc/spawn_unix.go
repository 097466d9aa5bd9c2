//go:build !windows

package proc

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup puts the child in its own process group and makes
// a context cancellation (Ctrl-C during a long node) kill that whole group,
// so it reaches the subtree a shell command may have forked, not just the
// immediate /bin/sh.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
