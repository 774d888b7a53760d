package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// Run starts the monitor and blocks until the user quits or ctx is
// canceled. Tail events from the job logs directory are pumped into the
// program alongside the store polling the model does itself.
func Run(ctx context.Context, store ports.Store, tailer ports.Tailer, logsDir string, interval time.Duration) error {
	model := New(ctx, store, interval, os.Stdout)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if err := tailer.Start(ctx, logsDir); err != nil {
		return err
	}
	defer func() { _ = tailer.Stop() }()

	go func() {
		for event := range tailer.Events() {
			program.Send(logMsg(event))
		}
	}()

	_, err := program.Run()
	return err
}
