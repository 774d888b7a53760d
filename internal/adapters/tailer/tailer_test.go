package tailer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

// sink collects tail events on a goroutine so tests can poll for state.
type sink struct {
	mu         sync.Mutex
	discovered map[string]int
	data       map[string][]byte
	done       bool
}

func startSink(tailer *Tailer) *sink {
	s := &sink{
		discovered: make(map[string]int),
		data:       make(map[string][]byte),
	}
	go func() {
		for event := range tailer.Events() {
			s.mu.Lock()
			if len(event.Data) == 0 {
				s.discovered[event.Path]++
			} else {
				s.data[event.Path] = append(s.data[event.Path], event.Data...)
			}
			s.mu.Unlock()
		}
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
	}()
	return s
}

func (s *sink) text(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data[path])
}

func (s *sink) seen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discovered[path] > 0
}

func (s *sink) finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func startTailer(t *testing.T, dir string) (*Tailer, *sink) {
	t.Helper()

	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	tailer, err := New(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tailer.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, tailer.Start(ctx, dir))
	return tailer, startSink(tailer)
}

func appendTo(t *testing.T, path, text string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestTailerStreamsAppends(t *testing.T) {
	dir := t.TempDir()
	_, s := startTailer(t, dir)

	path := filepath.Join(dir, "job-7.log")
	appendTo(t, path, "cloning repository\n")

	require.Eventually(t, func() bool {
		return s.seen(path) && s.text(path) == "cloning repository\n"
	}, waitFor, tick)

	appendTo(t, path, "fetching commits\n")

	require.Eventually(t, func() bool {
		return s.text(path) == "cloning repository\nfetching commits\n"
	}, waitFor, tick)
}

func TestTailerAnnouncesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job-1.log")
	appendTo(t, path, "old output\n")

	_, s := startTailer(t, dir)

	require.Eventually(t, func() bool { return s.seen(path) }, waitFor, tick)

	// Only what is appended after start is streamed.
	appendTo(t, path, "new output\n")
	require.Eventually(t, func() bool {
		return s.text(path) == "new output\n"
	}, waitFor, tick)
}

func TestTailerRewindsOnTruncation(t *testing.T) {
	dir := t.TempDir()
	_, s := startTailer(t, dir)

	path := filepath.Join(dir, "job-2.log")
	appendTo(t, path, "first run\n")
	require.Eventually(t, func() bool {
		return s.text(path) == "first run\n"
	}, waitFor, tick)

	// Rewinds only when the file shrinks, like tail does.
	require.NoError(t, os.WriteFile(path, []byte("retry\n"), 0o644))
	require.Eventually(t, func() bool {
		return s.text(path) == "first run\nretry\n"
	}, waitFor, tick)
}

func TestTailerIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	_, s := startTailer(t, dir)

	other := filepath.Join(dir, "notes.txt")
	appendTo(t, other, "not a job log\n")

	path := filepath.Join(dir, "job-3.log")
	appendTo(t, path, "real output\n")

	require.Eventually(t, func() bool {
		return s.text(path) == "real output\n"
	}, waitFor, tick)
	assert.False(t, s.seen(other))
	assert.Empty(t, s.text(other))
}

func TestTailerStopEndsEvents(t *testing.T) {
	dir := t.TempDir()
	tailer, s := startTailer(t, dir)

	require.NoError(t, tailer.Stop())
	require.Eventually(t, s.finished, waitFor, tick)
}

func TestIsJobLog(t *testing.T) {
	t.Parallel()

	assert.True(t, isJobLog("/job_logs/job-12.log"))
	assert.True(t, isJobLog("job-1.log"))
	assert.False(t, isJobLog("/job_logs/notes.txt"))
	assert.False(t, isJobLog("/job_logs/job-12.log.gz"))
}
