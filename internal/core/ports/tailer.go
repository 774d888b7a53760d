package ports

import (
	"context"
	"iter"
)

// TailEvent represents appended output of one job log file.
type TailEvent struct {
	// Path is the absolute path of the log file.
	Path string
	// Data is the bytes appended since the last event. Empty on the first
	// event for a newly discovered file.
	Data []byte
}

// Tailer follows every job log file in a directory, including files
// created after it starts.
type Tailer interface {
	// Start begins following log files under dir.
	// It returns an error if the directory cannot be watched.
	Start(ctx context.Context, dir string) error
	// Stop stops the tailer and releases all resources.
	Stop() error
	// Events returns an iterator of tail events.
	Events() iter.Seq[TailEvent]
}
