// Package app implements the application layer for poolsched.
package app

import (
	"context"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/archive"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/enrich"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/logger"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/memstore"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/perceval"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/telemetry"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/engine/scheduler"
	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
)

// StoreOpener opens the pool store for the resolved settings.
type StoreOpener func(ctx context.Context, settings domain.Settings, log ports.Logger) (ports.Store, error)

// App represents the main application logic. Every operation resolves
// the configuration and opens the store for itself: CLI invocations are
// one shot, and the worker holds its store for the whole run.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger

	configFile string
	openStore  StoreOpener
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, executor ports.Executor, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		openStore:    openConfiguredStore,
	}
}

// WithStoreOpener overrides how the App opens the store.
// This is primarily used for testing against a shared in-memory store.
func (a *App) WithStoreOpener(open StoreOpener) *App {
	a.openStore = open
	return a
}

// GlobalOptions are the root command settings applied before any
// subcommand runs.
type GlobalOptions struct {
	ConfigFile string
	EnvFile    string
	JSONLogs   bool
	Verbose    bool
}

// Configure applies the global CLI settings. The env file loads before
// configuration resolution so its variables take part in the overrides.
func (a *App) Configure(opts GlobalOptions) error {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return zerr.With(zerr.Wrap(err, "loading env file"), "path", opts.EnvFile)
		}
	}
	a.configFile = opts.ConfigFile
	a.logger.SetJSON(opts.JSONLogs)
	a.logger.SetDebug(opts.Verbose)
	return nil
}

// settings resolves the scheduler configuration.
func (a *App) settings() (domain.Settings, error) {
	if a.configFile != "" {
		return a.configLoader.LoadFile(a.configFile)
	}
	return a.configLoader.Load(".")
}

// openConfiguredStore opens the configured store driver. The memory
// driver takes its snapshot path where SQL drivers take a DSN.
func openConfiguredStore(ctx context.Context, settings domain.Settings, log ports.Logger) (ports.Store, error) {
	dsn := settings.Database.DSN()
	if settings.Database.Driver == memstore.DriverName {
		dsn = settings.Database.Path
	}

	store, err := ports.OpenStore(ctx, settings.Database.Driver, ports.StoreConfig{DSN: dsn}, log)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "opening store"), "driver", settings.Database.Driver)
	}
	return store, nil
}

// WorkerOptions configuration for the Worker method.
type WorkerOptions struct {
	// Once runs a single scheduling pass and returns when its jobs are
	// done.
	Once bool

	// MaxJobs and Poll override the configured loop settings when
	// positive.
	MaxJobs int
	Poll    time.Duration
}

// Worker joins the pool and runs the scheduling loop until ctx is
// canceled.
func (a *App) Worker(ctx context.Context, opts WorkerOptions) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx, settings, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	jobLogs, err := logger.NewJobLogs(settings.LogsDir)
	if err != nil {
		return err
	}

	tracer := telemetry.NewOTelTracer("poolsched", a.logger)
	defer func() { _ = tracer.Shutdown(ctx) }()

	items := archive.NewStore(settings.ArchiveDir)
	collector := perceval.New(settings.Collector, a.executor, items, a.logger)
	enricher := enrich.New(items, a.logger)
	backends := append(collector.Backends(), enricher.Backends()...)

	workerOpts := []scheduler.Option{
		scheduler.WithMaxJobs(settings.Worker.MaxJobs),
		scheduler.WithPoll(settings.Worker.Poll),
	}
	if opts.MaxJobs > 0 {
		workerOpts = append(workerOpts, scheduler.WithMaxJobs(opts.MaxJobs))
	}
	if opts.Poll > 0 {
		workerOpts = append(workerOpts, scheduler.WithPoll(opts.Poll))
	}

	worker := scheduler.New(store, backends, jobLogs, tracer, a.logger, workerOpts...)
	return worker.Run(ctx, opts.Once)
}
