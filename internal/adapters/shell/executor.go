// Package shell provides the process executor for collector runs.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

var errEmptyCommand = zerr.New("empty command")

// tokenFlags name the collector arguments whose values must never reach
// a log line.
var tokenFlags = map[string]struct{}{
	"-t":          {},
	"--api-token": {},
}

// Executor implements ports.Executor using os/exec with separated pipes.
// The collector writes items to stdout and diagnostics to stderr; a
// merged stream would corrupt the item feed, so no terminal emulation
// sits in between.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command and waits for it to complete. The process
// inherits the worker environment plus cmd.Env: collectors need HOME,
// PATH and proxy settings to reach the outside world.
func (e *Executor) Execute(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
	if len(cmd.Argv) == 0 {
		return errEmptyCommand
	}

	execCmd := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...) //nolint:gosec // argv is built by the backends
	execCmd.Dir = cmd.Dir
	execCmd.Env = append(os.Environ(), cmd.Env...)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	e.logger.Debug("running " + redactedCommand(cmd.Argv))

	if err := execCmd.Run(); err != nil {
		// Capture exit code if possible
		var exitCode int
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "command", cmd.Argv[0])
	}

	return nil
}

// redactedCommand renders argv for logging with token values masked.
func redactedCommand(argv []string) string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i := 0; i < len(out)-1; i++ {
		if _, secret := tokenFlags[out[i]]; secret {
			out[i+1] = "***"
		}
	}
	return strings.Join(out, " ")
}
