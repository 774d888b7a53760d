// Package tailer follows job log files with fsnotify.
package tailer

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

var _ ports.Tailer = (*Tailer)(nil)

const eventChannelBuffer = 100

// jobLogPattern matches the file names produced by domain.JobLogFileName.
const jobLogPattern = "job-*.log"

// Tailer follows the job log files in one directory. Files already
// present when it starts are announced and then streamed from their
// current end; files created later are streamed from the beginning.
type Tailer struct {
	fsWatcher *fsnotify.Watcher
	log       ports.Logger
	events    chan ports.TailEvent

	// offsets tracks how far each file has been read. Only the event
	// goroutine touches it after Start.
	offsets map[string]int64
}

// New creates a Tailer. Call Start to begin following a directory.
func New(log ports.Logger) (*Tailer, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Tailer{
		fsWatcher: fsWatcher,
		log:       log,
		events:    make(chan ports.TailEvent, eventChannelBuffer),
		offsets:   make(map[string]int64),
	}, nil
}

// Start begins following job logs under dir.
func (t *Tailer) Start(ctx context.Context, dir string) error {
	if err := t.fsWatcher.Add(dir); err != nil {
		return err
	}

	initial, err := filepath.Glob(filepath.Join(dir, jobLogPattern))
	if err != nil {
		return err
	}
	for _, path := range initial {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		t.offsets[path] = info.Size()
	}

	go t.processEvents(ctx, initial)

	return nil
}

// Stop stops the tailer and releases all resources.
func (t *Tailer) Stop() error {
	return t.fsWatcher.Close()
}

// Events returns an iterator of tail events.
func (t *Tailer) Events() iter.Seq[ports.TailEvent] {
	return func(yield func(ports.TailEvent) bool) {
		for event := range t.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (t *Tailer) processEvents(ctx context.Context, initial []string) {
	defer close(t.events)

	// Announce the files found at startup before streaming anything.
	for _, path := range initial {
		if !t.emit(ctx, ports.TailEvent{Path: path}) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-t.fsWatcher.Events:
			if !ok {
				return
			}
			if !isJobLog(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create != 0:
				t.offsets[event.Name] = 0
				if !t.emit(ctx, ports.TailEvent{Path: event.Name}) {
					return
				}
				// Content may land together with the create.
				if !t.drain(ctx, event.Name) {
					return
				}
			case event.Op&fsnotify.Write != 0:
				if !t.drain(ctx, event.Name) {
					return
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(t.offsets, event.Name)
			}
		case err, ok := <-t.fsWatcher.Errors:
			if !ok {
				return
			}
			t.log.Warn(fmt.Sprintf("log tailer: %v", err))
		}
	}
}

// drain reads what was appended to path since the last read and emits it.
// It reports false when the consumer is gone.
func (t *Tailer) drain(ctx context.Context, path string) bool {
	data, err := t.readAppended(path)
	if err != nil {
		// The file can vanish between the event and the read.
		return true
	}
	if len(data) == 0 {
		return true
	}
	return t.emit(ctx, ports.TailEvent{Path: path, Data: data})
}

func (t *Tailer) readAppended(path string) ([]byte, error) {
	//nolint:gosec // path comes from the watched logs directory
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	offset := t.offsets[path]
	if info.Size() < offset {
		// The file was truncated. Start over.
		offset = 0
	}
	if info.Size() == offset {
		return nil, nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	t.offsets[path] = offset + int64(len(data))
	return data, nil
}

func (t *Tailer) emit(ctx context.Context, event ports.TailEvent) bool {
	select {
	case t.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func isJobLog(path string) bool {
	ok, err := filepath.Match(jobLogPattern, filepath.Base(path))
	return err == nil && ok
}
