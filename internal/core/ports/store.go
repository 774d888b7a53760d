package ports

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
)

// StoreConfig carries the settings a store driver needs to connect.
type StoreConfig struct {
	// DSN is the driver specific connection string. For the memory
	// driver it is an optional snapshot path.
	DSN string
}

// PoolStatus is a point in time summary of the shared pool.
type PoolStatus struct {
	PendingByKind map[domain.Kind]int
	WaitingJobs   int
	RunningJobs   int
	Workers       []domain.Worker
	Tokens        []domain.Token
	ArchivedOK    int
	ArchivedError int
}

// Store is the shared pool state behind the scheduler. Every method is one
// atomic operation against the backing database; concurrent workers
// coordinate exclusively through it.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	// Migrate creates or upgrades the schema.
	Migrate(ctx context.Context) error

	// Ping verifies the connection is usable.
	Ping(ctx context.Context) error

	// EnsureUser returns the user with the given name, creating it first
	// if needed.
	EnsureUser(ctx context.Context, username string) (domain.User, error)

	// EnsureRepo returns the repo with the given identity, creating it
	// first if needed. Identity is the clone URL for git repos and the
	// endpoint, owner, name triple for forge repos.
	EnsureRepo(ctx context.Context, repo domain.Repo) (domain.Repo, error)

	// AddToken stores a new token for a user.
	AddToken(ctx context.Context, token domain.Token) (domain.Token, error)

	// ListTokens returns tokens, optionally filtered by backend. An empty
	// backend returns all tokens.
	ListTokens(ctx context.Context, backend domain.Backend) ([]domain.Token, error)

	// EnqueueIntention records an intention for the user and repo,
	// materializing the previous intentions the kind depends on in the
	// same operation. Existing identical intentions are reused. It
	// returns every intention of the chain, dependencies first.
	EnqueueIntention(ctx context.Context, userID, repoID int64, kind domain.Kind) ([]domain.Intention, error)

	// ListIntentions returns live intentions. A zero userID returns all
	// users' intentions.
	ListIntentions(ctx context.Context, userID int64) ([]domain.Intention, error)

	// CancelIntention archives a live intention as canceled and removes
	// it from the pool. Dependents are unblocked like for any archive.
	CancelIntention(ctx context.Context, intentionID int64) error

	// RegisterWorker records a scheduler process joining the pool.
	RegisterWorker(ctx context.Context, name string) (domain.Worker, error)

	// HeartbeatWorker refreshes the worker's liveness timestamp.
	HeartbeatWorker(ctx context.Context, workerID int64) error

	// DeregisterWorker removes the worker and releases its claimed jobs
	// back to the pool.
	DeregisterWorker(ctx context.Context, workerID int64) error

	// PickReadyUsers returns up to max distinct users, in random order,
	// that own at least one ready intention.
	PickReadyUsers(ctx context.Context, max int) ([]domain.User, error)

	// SelectableIntentions returns up to max ready intentions of the user
	// and kind, oldest first. For token gated kinds it returns intentions
	// only while the user holds a token that is past its reset and below
	// its job cap.
	SelectableIntentions(ctx context.Context, userID int64, kind domain.Kind, max int) ([]domain.Intention, error)

	// AttachOrCreateJob attaches the intention to a job already working
	// the same repo and kind, or creates a new job. For token gated kinds
	// the intention owner's ready tokens are bound to the job; creating a
	// job with no ready token fails with ErrNoTokenReady. It reports
	// whether a new job was created.
	AttachOrCreateJob(ctx context.Context, intentionID int64) (domain.Job, bool, error)

	// ClaimNextJob claims the oldest waiting job runnable right now for
	// the worker and marks it started. Jobs whose bound tokens are all
	// parked or saturated are skipped. ErrNoJobReady means the pool has
	// nothing to run.
	ClaimNextJob(ctx context.Context, workerID int64) (domain.Job, error)

	// ReleaseJob returns a claimed job to the pool, keeping its
	// intentions attached.
	ReleaseJob(ctx context.Context, jobID int64) error

	// GetRepo returns the repo a job targets.
	GetRepo(ctx context.Context, repoID int64) (domain.Repo, error)

	// ReadyTokenForJob picks a bound token usable right now for the job,
	// or ErrNoTokenReady.
	ReadyTokenForJob(ctx context.Context, jobID int64) (domain.Token, error)

	// ParkToken records a rate limit exhaustion until the given reset.
	ParkToken(ctx context.Context, tokenID int64, reset time.Time) error

	// ArchiveJob archives every intention attached to the job with the
	// given status and log path, deletes them together with the links
	// blocking their dependents, and deletes the job.
	ArchiveJob(ctx context.Context, jobID int64, status domain.ArchiveStatus, logPath string) ([]domain.ArchivedIntention, error)

	// ListArchived returns archived intentions, newest first.
	ListArchived(ctx context.Context, limit int) ([]domain.ArchivedIntention, error)

	// DeleteArchivedBefore removes archived records older than the cutoff
	// and returns how many were removed.
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// ReleaseStaleJobs releases jobs claimed by workers that missed
	// heartbeats for longer than cutoff and removes those workers. It
	// returns how many jobs went back to the pool.
	ReleaseStaleJobs(ctx context.Context, cutoff time.Duration) (int64, error)

	// Status summarizes the pool for display.
	Status(ctx context.Context) (PoolStatus, error)

	// Close releases the connection.
	Close() error
}

// StoreDriver opens stores of one backing technology.
type StoreDriver interface {
	Open(ctx context.Context, cfg StoreConfig, log Logger) (Store, error)
}

var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver makes a store driver available by name. Drivers call
// it from an init function; registering a nil driver or the same name
// twice panics.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()
	if driver == nil {
		panic("ports: RegisterStoreDriver driver is nil")
	}
	if _, dup := storeDrivers[name]; dup {
		panic("ports: RegisterStoreDriver called twice for driver " + name)
	}
	storeDrivers[name] = driver
}

// StoreDrivers returns the names of the registered drivers, sorted.
func StoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()
	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenStore opens a store with the named driver.
func OpenStore(ctx context.Context, name string, cfg StoreConfig, log Logger) (Store, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[name]
	storeDriversMu.RUnlock()
	if !ok {
		return nil, domain.ErrUnknownDriver
	}
	return driver.Open(ctx, cfg, log)
}
