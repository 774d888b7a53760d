package ports

import (
	"context"
	"io"
)

// Command describes one external process invocation.
type Command struct {
	// Argv is the program and its arguments.
	Argv []string

	// Env contains extra environment variables in "KEY=VALUE" format,
	// appended to the inherited environment.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Executor defines the interface for running external processes.
//
// Stdout and stderr stay separated: backends parse machine readable
// output from stdout while stderr feeds the job log.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command until it exits or ctx is canceled.
	// It returns an error if the process cannot start or exits nonzero.
	Execute(ctx context.Context, cmd Command, stdout, stderr io.Writer) error
}
