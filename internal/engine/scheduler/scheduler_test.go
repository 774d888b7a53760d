package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/logger"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/memstore"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/telemetry"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports/mocks"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/engine/scheduler"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// testLogger returns a logger mock that tolerates any output.
func testLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

// newTestWorker builds a worker over the given store with real job log
// files in a temp dir.
func newTestWorker(t *testing.T, store ports.Store, backends ...ports.Backend) (*scheduler.Worker, string) {
	t.Helper()

	logsDir := t.TempDir()
	jobLogs, err := logger.NewJobLogs(logsDir)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	w := scheduler.New(store, backends, jobLogs, telemetry.NewNoOpTracer(), testLogger(ctrl),
		scheduler.WithName("test/worker"))

	return w, logsDir
}

func stubBackend(ctrl *gomock.Controller, kind domain.Kind) *mocks.MockBackend {
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Kind().Return(kind).AnyTimes()
	return backend
}

func TestWorker_OnceArchivesReadyIntention(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: one ready git/raw intention, backend succeeds.
		// Expectation: intention archived OK, job log written, pool empty.

		ctx := context.Background()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/proj.git"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitRaw)
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		backend := stubBackend(ctrl, domain.KindGitRaw)
		backend.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req ports.RunRequest) error {
				fmt.Fprintln(req.JobLog, "gathered 2 items")
				return nil
			},
		).Times(1)

		w, _ := newTestWorker(t, store, backend)
		require.NoError(t, w.Run(ctx, true))

		archived, err := store.ListArchived(ctx, 0)
		require.NoError(t, err)
		require.Len(t, archived, 1)
		require.Equal(t, domain.ArchiveOK, archived[0].Status)
		require.Equal(t, domain.KindGitRaw, archived[0].Kind)

		content, err := os.ReadFile(archived[0].LogPath)
		require.NoError(t, err)
		require.Contains(t, string(content), "job 1 started: git/raw https://example.org/proj.git")
		require.Contains(t, string(content), "gathered 2 items")
		require.Contains(t, string(content), "job 1 finished")

		intentions, err := store.ListIntentions(ctx, 0)
		require.NoError(t, err)
		require.Empty(t, intentions)

		status, err := store.Status(ctx)
		require.NoError(t, err)
		require.Empty(t, status.Workers)
		require.Zero(t, status.WaitingJobs)
		require.Zero(t, status.RunningJobs)
	})
}

func TestWorker_ChainDrainsRawBeforeEnrich(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: enqueue git/enrich, which chains a git/raw first.
		// Expectation: the first pass archives only the raw; a second one
		// picks up the unblocked enrich.

		ctx := context.Background()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/proj.git"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitEnrich)
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		raw := stubBackend(ctrl, domain.KindGitRaw)
		raw.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		enrich := stubBackend(ctrl, domain.KindGitEnrich)
		enrich.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		w, _ := newTestWorker(t, store, raw, enrich)

		require.NoError(t, w.Run(ctx, true))

		archived, err := store.ListArchived(ctx, 0)
		require.NoError(t, err)
		require.Len(t, archived, 1)
		require.Equal(t, domain.KindGitRaw, archived[0].Kind)

		intentions, err := store.ListIntentions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, intentions, 1)
		require.Equal(t, domain.KindGitEnrich, intentions[0].Kind)
		require.True(t, intentions[0].Ready())

		require.NoError(t, w.Run(ctx, true))

		archived, err = store.ListArchived(ctx, 0)
		require.NoError(t, err)
		require.Len(t, archived, 2)

		intentions, err = store.ListIntentions(ctx, 0)
		require.NoError(t, err)
		require.Empty(t, intentions)
	})
}

func TestWorker_TokenExhaustionParksTokenAndReleasesJob(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: github/raw run hits the rate limit.
		// Expectation: token parked until the reset, job back to waiting,
		// nothing archived.

		ctx := context.Background()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGitHub, Owner: "chaoss", Name: "grimoirelab"})
		require.NoError(t, err)
		token, err := store.AddToken(ctx, domain.Token{UserID: user.ID, Backend: domain.BackendGitHub, Value: "gh-token"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitHubRaw)
		require.NoError(t, err)

		reset := time.Now().Add(30 * time.Minute)

		ctrl := gomock.NewController(t)
		backend := stubBackend(ctrl, domain.KindGitHubRaw)
		backend.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req ports.RunRequest) error {
				require.Equal(t, token.ID, req.Token.ID)
				return &domain.TokenExhaustedError{TokenID: req.Token.ID, Reset: reset}
			},
		).Times(1)

		w, _ := newTestWorker(t, store, backend)
		require.NoError(t, w.Run(ctx, true))

		tokens, err := store.ListTokens(ctx, domain.BackendGitHub)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		require.True(t, tokens[0].Reset.Equal(reset))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, status.WaitingJobs)
		require.Zero(t, status.RunningJobs)

		archived, err := store.ListArchived(ctx, 0)
		require.NoError(t, err)
		require.Empty(t, archived)
	})
}

func TestWorker_BackendFailureArchivesError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: the backend fails permanently.
		// Expectation: intention archived with the error status and the
		// failure lands in the job log.

		ctx := context.Background()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/gone.git"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitRaw)
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		backend := stubBackend(ctrl, domain.KindGitRaw)
		backend.EXPECT().Run(gomock.Any(), gomock.Any()).Return(errors.New("clone failed")).Times(1)

		w, _ := newTestWorker(t, store, backend)
		require.NoError(t, w.Run(ctx, true))

		archived, err := store.ListArchived(ctx, 0)
		require.NoError(t, err)
		require.Len(t, archived, 1)
		require.Equal(t, domain.ArchiveError, archived[0].Status)

		content, err := os.ReadFile(archived[0].LogPath)
		require.NoError(t, err)
		require.Contains(t, string(content), "job 1 failed: clone failed")
	})
}

func TestWorker_CancelReleasesClaimedJob(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: shutdown while a job runs.
		// Expectation: the job goes back to waiting unarchived and the
		// worker deregisters.

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/slow.git"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitRaw)
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		backend := stubBackend(ctrl, domain.KindGitRaw)
		backend.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
			func(runCtx context.Context, _ ports.RunRequest) error {
				<-runCtx.Done()
				return runCtx.Err()
			},
		).Times(1)

		w, _ := newTestWorker(t, store, backend)

		errCh := make(chan error, 1)
		go func() { errCh <- w.Run(ctx, false) }()

		// Let the loop claim the job and block in the backend.
		synctest.Wait()

		cancel()
		require.NoError(t, <-errCh)

		status, err := store.Status(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, status.WaitingJobs)
		require.Zero(t, status.RunningJobs)
		require.Empty(t, status.Workers)

		archived, err := store.ListArchived(context.Background(), 0)
		require.NoError(t, err)
		require.Empty(t, archived)
	})
}

func TestWorker_TokenGateKeepsIntentionPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Scenario: github/raw intention whose user has no token.
		// Expectation: no job materializes; the intention stays pending.

		ctx := context.Background()
		store := memstore.New()

		user, err := store.EnsureUser(ctx, "jsmith")
		require.NoError(t, err)
		repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGitHub, Owner: "chaoss", Name: "grimoirelab"})
		require.NoError(t, err)
		_, err = store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitHubRaw)
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		backend := stubBackend(ctrl, domain.KindGitHubRaw)

		w, _ := newTestWorker(t, store, backend)
		require.NoError(t, w.Run(ctx, true))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		require.Zero(t, status.WaitingJobs)
		require.Zero(t, status.RunningJobs)

		intentions, err := store.ListIntentions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, intentions, 1)
	})
}
