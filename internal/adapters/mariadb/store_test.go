package mariadb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDriverRegistered(t *testing.T) {
	t.Parallel()

	require.Contains(t, ports.StoreDrivers(), DriverName)
}

// openTestStore connects to the database named by POOLSCHED_TEST_DSN and
// wipes the poolsched tables. Without the variable the test is skipped.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("POOLSCHED_TEST_DSN")
	if dsn == "" {
		t.Skip("POOLSCHED_TEST_DSN not set")
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	opened, err := driver{}.Open(context.Background(), ports.StoreConfig{DSN: dsn}, log)
	require.NoError(t, err)
	store, ok := opened.(*Store)
	require.True(t, ok)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	for _, table := range []string{
		"poolsched_intention_previous",
		"poolsched_job_token",
		"poolsched_intention",
		"poolsched_job",
		"poolsched_token",
		"poolsched_archived_intention",
		"poolsched_worker",
		"poolsched_repo",
		"poolsched_user",
	} {
		require.NoError(t, store.db.Exec("DELETE FROM "+table).Error)
	}

	return store
}

func TestStoreGitLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	user, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	repo, err := store.EnsureRepo(ctx, domain.Repo{
		Backend: domain.BackendGit,
		URL:     "https://example.org/project.git",
	})
	require.NoError(t, err)

	chain, err := store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitEnrich)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, domain.KindGitRaw, chain[0].Kind)
	require.Equal(t, []int64{chain[0].ID}, chain[1].PreviousIDs)

	// Re-enqueueing reuses the live chain.
	again, err := store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitEnrich)
	require.NoError(t, err)
	require.Equal(t, chain[0].ID, again[0].ID)
	require.Equal(t, chain[1].ID, again[1].ID)

	ready, err := store.PickReadyUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ready, 1)

	selectable, err := store.SelectableIntentions(ctx, user.ID, domain.KindGitEnrich, 10)
	require.NoError(t, err)
	require.Empty(t, selectable)
	selectable, err = store.SelectableIntentions(ctx, user.ID, domain.KindGitRaw, 10)
	require.NoError(t, err)
	require.Len(t, selectable, 1)

	worker, err := store.RegisterWorker(ctx, "host/w1")
	require.NoError(t, err)
	require.NoError(t, store.HeartbeatWorker(ctx, worker.ID))

	job, created, err := store.AttachOrCreateJob(ctx, chain[0].ID)
	require.NoError(t, err)
	require.True(t, created)

	claimed, err := store.ClaimNextJob(ctx, worker.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, claimed.ID)
	require.Equal(t, worker.ID, claimed.WorkerID)
	_, err = store.ClaimNextJob(ctx, worker.ID)
	require.ErrorIs(t, err, domain.ErrNoJobReady)

	fetched, err := store.GetRepo(ctx, claimed.RepoID)
	require.NoError(t, err)
	require.Equal(t, repo.URL, fetched.URL)

	archived, err := store.ArchiveJob(ctx, claimed.ID, domain.ArchiveOK, "/logs/job-1.log")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "/logs/job-1.log", archived[0].LogPath)

	// Archiving the raw intention unblocked the enrichment.
	selectable, err = store.SelectableIntentions(ctx, user.ID, domain.KindGitEnrich, 10)
	require.NoError(t, err)
	require.Len(t, selectable, 1)

	job, created, err = store.AttachOrCreateJob(ctx, selectable[0].ID)
	require.NoError(t, err)
	require.True(t, created)
	claimed, err = store.ClaimNextJob(ctx, worker.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, claimed.ID)
	_, err = store.ArchiveJob(ctx, claimed.ID, domain.ArchiveOK, "/logs/job-2.log")
	require.NoError(t, err)

	live, err := store.ListIntentions(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, live)

	records, err := store.ListArchived(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, domain.KindGitEnrich, records[0].Kind)

	status, err := store.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, status.ArchivedOK)
	require.Len(t, status.Workers, 1)

	require.NoError(t, store.DeregisterWorker(ctx, worker.ID))
	require.ErrorIs(t, store.DeregisterWorker(ctx, worker.ID), domain.ErrWorkerNotFound)

	removed, err := store.DeleteArchivedBefore(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)
}

func TestStoreTokenGating(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	user, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	repo, err := store.EnsureRepo(ctx, domain.Repo{
		Backend: domain.BackendGitHub,
		Owner:   "chaoss",
		Name:    "grimoirelab",
	})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultGitHubEndpoint, repo.Endpoint)

	chain, err := store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitHubRaw)
	require.NoError(t, err)

	selectable, err := store.SelectableIntentions(ctx, user.ID, domain.KindGitHubRaw, 10)
	require.NoError(t, err)
	require.Empty(t, selectable)
	_, _, err = store.AttachOrCreateJob(ctx, chain[0].ID)
	require.ErrorIs(t, err, domain.ErrNoTokenReady)

	token, err := store.AddToken(ctx, domain.Token{UserID: user.ID, Backend: domain.BackendGitHub, Value: "gh"})
	require.NoError(t, err)

	job, created, err := store.AttachOrCreateJob(ctx, chain[0].ID)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, []int64{token.ID}, job.TokenIDs)

	worker, err := store.RegisterWorker(ctx, "host/w1")
	require.NoError(t, err)

	require.NoError(t, store.ParkToken(ctx, token.ID, time.Now().UTC().Add(time.Hour)))
	_, err = store.ClaimNextJob(ctx, worker.ID)
	require.ErrorIs(t, err, domain.ErrNoJobReady)
	_, err = store.ReadyTokenForJob(ctx, job.ID)
	require.ErrorIs(t, err, domain.ErrNoTokenReady)

	require.NoError(t, store.ParkToken(ctx, token.ID, time.Time{}))
	claimed, err := store.ClaimNextJob(ctx, worker.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, claimed.ID)

	ready, err := store.ReadyTokenForJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, token.ID, ready.ID)
}

func TestStoreStaleWorkers(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	user, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"})
	require.NoError(t, err)
	chain, err := store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitRaw)
	require.NoError(t, err)
	job, _, err := store.AttachOrCreateJob(ctx, chain[0].ID)
	require.NoError(t, err)

	worker, err := store.RegisterWorker(ctx, "host/dead")
	require.NoError(t, err)
	_, err = store.ClaimNextJob(ctx, worker.ID)
	require.NoError(t, err)

	released, err := store.ReleaseStaleJobs(ctx, time.Hour)
	require.NoError(t, err)
	require.Zero(t, released)

	time.Sleep(50 * time.Millisecond)
	released, err = store.ReleaseStaleJobs(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	require.EqualValues(t, 1, released)
	require.ErrorIs(t, store.HeartbeatWorker(ctx, worker.ID), domain.ErrWorkerNotFound)

	successor, err := store.RegisterWorker(ctx, "host/alive")
	require.NoError(t, err)
	claimed, err := store.ClaimNextJob(ctx, successor.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, claimed.ID)
}

func TestStoreCancelIntention(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	user, err := store.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	repo, err := store.EnsureRepo(ctx, domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"})
	require.NoError(t, err)

	require.ErrorIs(t, store.CancelIntention(ctx, 12345), domain.ErrIntentionNotFound)

	chain, err := store.EnqueueIntention(ctx, user.ID, repo.ID, domain.KindGitEnrich)
	require.NoError(t, err)

	require.NoError(t, store.CancelIntention(ctx, chain[0].ID))

	// The enrichment lost its blocking link and is selectable now.
	selectable, err := store.SelectableIntentions(ctx, user.ID, domain.KindGitEnrich, 10)
	require.NoError(t, err)
	require.Len(t, selectable, 1)

	job, _, err := store.AttachOrCreateJob(ctx, selectable[0].ID)
	require.NoError(t, err)

	require.NoError(t, store.CancelIntention(ctx, selectable[0].ID))

	// The waiting job went away with its last intention.
	_, err = store.ReadyTokenForJob(ctx, job.ID)
	require.ErrorIs(t, err, domain.ErrJobNotFound)

	records, err := store.ListArchived(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		require.Equal(t, domain.ArchiveCanceled, record.Status)
		require.Empty(t, record.LogPath)
	}
}
