// Package ports defines the core interfaces for the application.
package ports

import "io"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)

	// SetOutput redirects log output, for example into a job log file
	// while a job is running.
	SetOutput(w io.Writer)

	// SetJSON switches between human readable and JSON output.
	SetJSON(enable bool)

	// SetDebug toggles debug level messages on and off.
	SetDebug(enable bool)
}
