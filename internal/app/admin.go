package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/detector"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/logger"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/tailer"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/tui"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"go.trai.ch/zerr"
)

// waitRetry is the pause between migration attempts when waiting for the
// database to come up.
const waitRetry = 2 * time.Second

// MigrateOptions configuration for the Migrate method.
type MigrateOptions struct {
	// Wait retries until the database accepts connections. Containers use
	// it to start before their database is ready.
	Wait bool
}

// Migrate creates or upgrades the store schema.
func (a *App) Migrate(ctx context.Context, opts MigrateOptions) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}

	for {
		err := a.migrateOnce(ctx, settings)
		if err == nil {
			a.logger.Info("store schema is up to date")
			return nil
		}
		if !opts.Wait {
			return err
		}

		a.logger.Info(fmt.Sprintf("store not ready, retrying in %s: %v", waitRetry, err))
		select {
		case <-time.After(waitRetry):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *App) migrateOnce(ctx context.Context, settings domain.Settings) error {
	store, err := a.openStore(ctx, settings, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Ping(ctx); err != nil {
		return zerr.Wrap(err, "pinging store")
	}
	if err := store.Migrate(ctx); err != nil {
		return zerr.Wrap(err, "migrating store")
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// StaleJobs releases jobs whose worker missed heartbeats for longer
	// than this. Zero skips the pass.
	StaleJobs time.Duration

	// ArchivedBefore prunes archived intentions older than this. Zero
	// keeps the archive intact.
	ArchivedBefore time.Duration
}

// Clean releases jobs abandoned by dead workers and prunes old archive
// records. Each pass runs even when an earlier one failed.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}
	store, err := a.openStore(ctx, settings, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var errs error

	if opts.StaleJobs > 0 {
		released, err := store.ReleaseStaleJobs(ctx, opts.StaleJobs)
		if err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "releasing stale jobs"))
		} else {
			a.logger.Info(fmt.Sprintf("released %d jobs from stale workers", released))
		}
	}

	if opts.ArchivedBefore > 0 {
		pruned, err := store.DeleteArchivedBefore(ctx, time.Now().Add(-opts.ArchivedBefore))
		if err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "pruning archived intentions"))
		} else {
			a.logger.Info(fmt.Sprintf("pruned %d archived intentions", pruned))
		}
	}

	return errs
}

// MonitorOptions configuration for the Monitor method.
type MonitorOptions struct {
	// Interval is how often the pool summary refreshes. Zero uses the
	// monitor's default.
	Interval time.Duration
}

// Monitor runs the interactive pool monitor until the user quits.
func (a *App) Monitor(ctx context.Context, opts MonitorOptions) error {
	if !detector.Interactive() {
		return domain.ErrNotInteractive
	}

	settings, err := a.settings()
	if err != nil {
		return err
	}
	store, err := a.openStore(ctx, settings, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// The logs volume may not exist before the first worker run.
	if _, err := logger.NewJobLogs(settings.LogsDir); err != nil {
		return err
	}

	tail, err := tailer.New(a.logger)
	if err != nil {
		return zerr.Wrap(err, "starting log tailer")
	}

	return tui.Run(ctx, store, tail, settings.LogsDir, opts.Interval)
}
