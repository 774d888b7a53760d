package domain_test

import (
	"testing"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    domain.Kind
		wantErr bool
	}{
		{name: "GitRaw", in: "git/raw", want: domain.KindGitRaw},
		{name: "GitHubEnrich", in: "github/enrich", want: domain.KindGitHubEnrich},
		{name: "GitLabRaw", in: "gitlab/raw", want: domain.KindGitLabRaw},
		{name: "Unknown", in: "svn/raw", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBackend(t *testing.T) {
	for _, s := range []string{"git", "github", "gitlab"} {
		got, err := domain.ParseBackend(s)
		require.NoError(t, err)
		assert.Equal(t, domain.Backend(s), got)
	}

	_, err := domain.ParseBackend("bitbucket")
	require.ErrorIs(t, err, domain.ErrUnknownBackend)
}

func TestKindSpecs(t *testing.T) {
	t.Run("Enrich depends on raw", func(t *testing.T) {
		for _, b := range []domain.Backend{domain.BackendGit, domain.BackendGitHub, domain.BackendGitLab} {
			spec, ok := domain.KindSpecFor(domain.EnrichKind(b))
			require.True(t, ok)
			require.Len(t, spec.Previous, 1)
			assert.Equal(t, domain.RawKind(b), spec.Previous[0])
		}
	})

	t.Run("Raw has no previous", func(t *testing.T) {
		for _, b := range []domain.Backend{domain.BackendGit, domain.BackendGitHub, domain.BackendGitLab} {
			spec, ok := domain.KindSpecFor(domain.RawKind(b))
			require.True(t, ok)
			assert.Empty(t, spec.Previous)
		}
	})

	t.Run("Token gating", func(t *testing.T) {
		assert.False(t, domain.KindGitRaw.TokenGated())
		assert.False(t, domain.KindGitEnrich.TokenGated())
		assert.True(t, domain.KindGitHubRaw.TokenGated())
		assert.True(t, domain.KindGitLabRaw.TokenGated())
	})

	t.Run("Raw kinds scheduled before enrich kinds", func(t *testing.T) {
		lastRaw, firstEnrich := -1, -1
		for i, spec := range domain.Kinds() {
			if len(spec.Previous) == 0 {
				lastRaw = i
			} else if firstEnrich == -1 {
				firstEnrich = i
			}
		}
		require.GreaterOrEqual(t, firstEnrich, 0)
		assert.Less(t, lastRaw, firstEnrich)
	})
}

func TestTokenReady(t *testing.T) {
	now := time.Date(2021, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		reset time.Time
		want  bool
	}{
		{name: "Never exhausted", reset: time.Time{}, want: true},
		{name: "Reset in the past", reset: now.Add(-time.Minute), want: true},
		{name: "Reset right now", reset: now, want: true},
		{name: "Reset in the future", reset: now.Add(10 * time.Minute), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := domain.Token{Reset: tt.reset}
			assert.Equal(t, tt.want, tok.Ready(now))
		})
	}
}

func TestTokenJobCap(t *testing.T) {
	assert.Equal(t, domain.DefaultMaxTokenJobs, domain.Token{}.JobCap())
	assert.Equal(t, domain.DefaultMaxTokenJobs, domain.Token{MaxJobs: -1}.JobCap())
	assert.Equal(t, 5, domain.Token{MaxJobs: 5}.JobCap())
}

func TestIntentionReady(t *testing.T) {
	assert.True(t, domain.Intention{}.Ready())
	assert.False(t, domain.Intention{JobID: 7}.Ready())
	assert.False(t, domain.Intention{PreviousIDs: []int64{3}}.Ready())
	assert.False(t, domain.Intention{JobID: 7, PreviousIDs: []int64{3}}.Ready())
}

func TestRepoOrigin(t *testing.T) {
	tests := []struct {
		name string
		repo domain.Repo
		want string
	}{
		{
			name: "Git uses clone URL",
			repo: domain.Repo{Backend: domain.BackendGit, URL: "https://example.com/project.git"},
			want: "https://example.com/project.git",
		},
		{
			name: "GitHub joins endpoint owner name",
			repo: domain.Repo{
				Backend:  domain.BackendGitHub,
				Owner:    "chaoss",
				Name:     "grimoirelab",
				Endpoint: "https://github.com",
			},
			want: "https://github.com/chaoss/grimoirelab",
		},
		{
			name: "Trailing slash on endpoint is trimmed",
			repo: domain.Repo{
				Backend:  domain.BackendGitLab,
				Owner:    "gitlab-org",
				Name:     "gitlab",
				Endpoint: "https://gitlab.example.org/",
			},
			want: "https://gitlab.example.org/gitlab-org/gitlab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.repo.Origin())
		})
	}
}

func TestDefaultEndpoint(t *testing.T) {
	assert.Equal(t, "https://github.com", domain.DefaultEndpoint(domain.BackendGitHub))
	assert.Equal(t, "https://gitlab.com", domain.DefaultEndpoint(domain.BackendGitLab))
	assert.Empty(t, domain.DefaultEndpoint(domain.BackendGit))
}

func TestJobLogPath(t *testing.T) {
	assert.Equal(t, "job-42.log", domain.JobLogFileName(42))
	assert.Equal(t, "/job_logs/job-42.log", domain.JobLogPath("/job_logs", 42))
}

func TestWorkerStale(t *testing.T) {
	now := time.Date(2021, 5, 10, 12, 0, 0, 0, time.UTC)
	w := domain.Worker{SeenAt: now.Add(-3 * time.Minute)}

	assert.True(t, w.Stale(now, time.Minute))
	assert.False(t, w.Stale(now, 5*time.Minute))
}

func TestTokenExhaustedError(t *testing.T) {
	reset := time.Date(2021, 5, 10, 12, 30, 0, 0, time.UTC)
	err := &domain.TokenExhaustedError{TokenID: 9, Reset: reset}
	assert.Contains(t, err.Error(), "token 9")
	assert.Contains(t, err.Error(), "2021-05-10T12:30:00Z")
}

func TestKindChain(t *testing.T) {
	assert.Equal(t, []domain.Kind{domain.KindGitRaw}, domain.KindChain(domain.KindGitRaw))
	assert.Equal(t,
		[]domain.Kind{domain.KindGitLabRaw, domain.KindGitLabEnrich},
		domain.KindChain(domain.KindGitLabEnrich))
}

func TestDatabaseSettingsDSN(t *testing.T) {
	db := domain.DatabaseSettings{
		Driver:   "mariadb",
		Host:     "db.internal",
		Port:     3307,
		User:     "sched",
		Password: "hunter2",
		Name:     "pool",
	}

	assert.Equal(t,
		"sched:hunter2@tcp(db.internal:3307)/pool?charset=utf8mb4&parseTime=True&loc=UTC",
		db.DSN())
}

func TestDefaultSettings(t *testing.T) {
	settings := domain.DefaultSettings()

	assert.Equal(t, "mariadb", settings.Database.Driver)
	assert.Equal(t, "/job_logs", settings.LogsDir)
	assert.Equal(t, "perceval", settings.Collector)
	assert.Equal(t, 4, settings.Worker.MaxJobs)
	assert.Equal(t, 10*time.Second, settings.Worker.Poll)
}
