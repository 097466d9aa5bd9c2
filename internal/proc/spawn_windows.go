package proc

import "os/exec"

// configureProcessGroup is a no-op on windows; process-group cancellation
// is a POSIX-only concern for this module, which interprets flows through
// a POSIX shell.
func configureProcessGroup(cmd *exec.Cmd) {}
