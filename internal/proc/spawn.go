// Package proc spawns shell children with explicit stdio wiring and
// copies bytes between descriptors. It is the only package in this module
// that calls os/exec.
package proc

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/aledsdavies/flowrun/internal/invariant"
)

// shellPath is the external shell every command string is handed to, as a
// single argument.
const shellPath = "/bin/sh"

// Spawn starts command under the external shell with the given stdio
// files and returns the running *exec.Cmd for the caller to Wait on.
//
// Passing the same *os.File to two of stdin/stdout/stderr is fine. Go's
// os/exec dup2's each assigned file into the child individually, so only
// the three descriptors named here ever reach the child; no other
// descriptor open in the parent (another pipe's unused end, say) leaks in
// without extra bookkeeping.
func Spawn(ctx context.Context, command string, stdin, stdout, stderr *os.File) (*exec.Cmd, error) {
	invariant.Precondition(command != "", "command must not be empty")
	invariant.NotNil(ctx, "ctx")

	cmd := exec.CommandContext(ctx, shellPath, "-c", command)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	configureProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}
	return cmd, nil
}

// Wait blocks until cmd's child terminates and translates its result into
// the error kinds this module reports: nil on a clean exit-0, a
// ChildFailedError for abnormal termination or a non-zero status, and a
// SpawnError for any other failure to wait (e.g. the process vanished).
func Wait(cmd *exec.Cmd) error {
	err := cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ChildFailedError{Command: commandText(cmd), ExitCode: exitErr.ExitCode()}
	}
	return &SpawnError{Command: commandText(cmd), Err: err}
}

func commandText(cmd *exec.Cmd) string {
	if len(cmd.Args) == 3 {
		return cmd.Args[2]
	}
	return cmd.Path
}
