package mariadb

import (
	"testing"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "poolsched_user", userRow{}.TableName())
	require.Equal(t, "poolsched_repo", repoRow{}.TableName())
	require.Equal(t, "poolsched_token", tokenRow{}.TableName())
	require.Equal(t, "poolsched_intention", intentionRow{}.TableName())
	require.Equal(t, "poolsched_intention_previous", previousRow{}.TableName())
	require.Equal(t, "poolsched_job", jobRow{}.TableName())
	require.Equal(t, "poolsched_job_token", jobTokenRow{}.TableName())
	require.Equal(t, "poolsched_worker", workerRow{}.TableName())
	require.Equal(t, "poolsched_archived_intention", archivedRow{}.TableName())
}

func TestTokenRowReset(t *testing.T) {
	t.Parallel()

	parked := tokenRow{ID: 1, UserID: 2, Backend: "github", Value: "gh", MaxJobs: 1}
	require.True(t, parked.toDomain().Reset.IsZero())

	reset := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	parked.ResetAt = &reset
	require.Equal(t, reset, parked.toDomain().Reset)

	require.Nil(t, timeToPtr(time.Time{}))
	require.Equal(t, &reset, timeToPtr(reset))
}

func TestJobRowStartedAt(t *testing.T) {
	t.Parallel()

	row := jobRow{ID: 7, RepoID: 3, Kind: string(domain.KindGitRaw)}
	job := row.toDomain([]int64{1, 2})
	require.False(t, job.Claimed())
	require.True(t, job.StartedAt.IsZero())
	require.Equal(t, []int64{1, 2}, job.TokenIDs)

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	row.WorkerID = 9
	row.StartedAt = &started
	job = row.toDomain(nil)
	require.True(t, job.Claimed())
	require.Equal(t, started, job.StartedAt)
}

func TestRepoRowIdentityFields(t *testing.T) {
	t.Parallel()

	repo := domain.Repo{
		ID:       4,
		Backend:  domain.BackendGitLab,
		Owner:    "group",
		Name:     "project",
		Endpoint: "https://gitlab.example.org",
	}
	require.Equal(t, repo, repoToRow(repo).toDomain())
}
