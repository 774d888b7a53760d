package perceval

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCollector(t *testing.T, opts ...Option) (*Collector, *mocks.MockExecutor, *mocks.MockArchiver) {
	t.Helper()

	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	archive := mocks.NewMockArchiver(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	return New("", exec, archive, log, opts...), exec, archive
}

func TestCollectorArgv(t *testing.T) {
	t.Parallel()

	c := New("perceval", nil, nil, nil)

	tests := []struct {
		name string
		kind domain.Kind
		req  ports.RunRequest
		want []string
	}{
		{
			name: "git",
			kind: domain.KindGitRaw,
			req:  ports.RunRequest{Repo: domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"}},
			want: []string{"perceval", "git", "https://example.org/p.git", "--json-line"},
		},
		{
			name: "github",
			kind: domain.KindGitHubRaw,
			req: ports.RunRequest{
				Repo:  domain.Repo{Backend: domain.BackendGitHub, Owner: "chaoss", Name: "grimoirelab"},
				Token: domain.Token{Value: "gh-token"},
			},
			want: []string{"perceval", "github", "chaoss", "grimoirelab", "--json-line", "-t", "gh-token"},
		},
		{
			name: "gitlab public",
			kind: domain.KindGitLabRaw,
			req: ports.RunRequest{
				Repo: domain.Repo{
					Backend:  domain.BackendGitLab,
					Owner:    "group",
					Name:     "project",
					Endpoint: domain.DefaultGitLabEndpoint,
				},
				Token: domain.Token{Value: "gl-token"},
			},
			want: []string{"perceval", "gitlab", "group", "project", "--json-line", "-t", "gl-token"},
		},
		{
			name: "gitlab hosted",
			kind: domain.KindGitLabRaw,
			req: ports.RunRequest{
				Repo: domain.Repo{
					Backend:  domain.BackendGitLab,
					Owner:    "group",
					Name:     "project",
					Endpoint: "https://gitlab.example.org",
				},
				Token: domain.Token{Value: "gl-token"},
			},
			want: []string{
				"perceval", "gitlab", "group", "project", "--json-line", "-t", "gl-token",
				"--enterprise-url", "https://gitlab.example.org",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := c.argv(tt.kind, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, argv)
		})
	}

	_, err := c.argv(domain.KindGitEnrich, ports.RunRequest{})
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestCollectorBackends(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCollector(t)

	var kinds []domain.Kind
	for _, backend := range c.Backends() {
		kinds = append(kinds, backend.Kind())
	}
	assert.Equal(t, []domain.Kind{domain.KindGitRaw, domain.KindGitHubRaw, domain.KindGitLabRaw}, kinds)
}

func TestGatherStreamsItemsToArchive(t *testing.T) {
	t.Parallel()

	c, exec, archive := newTestCollector(t)
	repo := domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"}

	exec.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
			assert.Equal(t, []string{"perceval", "git", repo.URL, "--json-line"}, cmd.Argv)
			_, _ = io.WriteString(stderr, "[git] fetching commits\n")
			_, _ = io.WriteString(stdout, `{"uuid":"a"}`+"\n"+`{"uuid":"b"}`+"\n")
			return nil
		})

	archive.EXPECT().
		AppendRaw(repo, gomock.Any()).
		DoAndReturn(func(_ domain.Repo, items io.Reader) (ports.RawStats, error) {
			data, err := io.ReadAll(items)
			require.NoError(t, err)
			assert.Equal(t, `{"uuid":"a"}`+"\n"+`{"uuid":"b"}`+"\n", string(data))
			return ports.RawStats{Added: 2, Total: 2}, nil
		})

	var jobLog bytes.Buffer
	backend := c.Backends()[0]
	err := backend.Run(context.Background(), ports.RunRequest{Repo: repo, JobLog: &jobLog})
	require.NoError(t, err)
	assert.Contains(t, jobLog.String(), "fetching commits")
}

func TestGatherRateLimited(t *testing.T) {
	t.Parallel()

	c, exec, archive := newTestCollector(t)
	repo := domain.Repo{Backend: domain.BackendGitHub, Owner: "chaoss", Name: "grimoirelab"}

	exec.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Command, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "RateLimitError: rate limit exhausted; 120 seconds to reset\n")
			return errors.New("command failed")
		})
	archive.EXPECT().
		AppendRaw(repo, gomock.Any()).
		DoAndReturn(func(_ domain.Repo, items io.Reader) (ports.RawStats, error) {
			_, _ = io.Copy(io.Discard, items)
			return ports.RawStats{}, nil
		})

	before := time.Now().UTC()
	err := c.gather(context.Background(), domain.KindGitHubRaw, ports.RunRequest{
		Repo:   repo,
		Token:  domain.Token{ID: 7, Value: "gh"},
		JobLog: io.Discard,
	})

	var exhausted *domain.TokenExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.EqualValues(t, 7, exhausted.TokenID)
	assert.WithinDuration(t, before.Add(120*time.Second), exhausted.Reset, 5*time.Second)
}

func TestGatherRateLimitFallbackCooldown(t *testing.T) {
	t.Parallel()

	c, exec, archive := newTestCollector(t, WithCooldown(30*time.Minute))
	repo := domain.Repo{Backend: domain.BackendGitLab, Owner: "group", Name: "project"}

	exec.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Command, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "GitLab rate limit reached\n")
			return errors.New("command failed")
		})
	archive.EXPECT().
		AppendRaw(repo, gomock.Any()).
		DoAndReturn(func(_ domain.Repo, items io.Reader) (ports.RawStats, error) {
			_, _ = io.Copy(io.Discard, items)
			return ports.RawStats{}, nil
		})

	before := time.Now().UTC()
	err := c.gather(context.Background(), domain.KindGitLabRaw, ports.RunRequest{
		Repo:   repo,
		Token:  domain.Token{ID: 3, Value: "gl"},
		JobLog: io.Discard,
	})

	var exhausted *domain.TokenExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.WithinDuration(t, before.Add(30*time.Minute), exhausted.Reset, 5*time.Second)
}

func TestGatherCommandFailure(t *testing.T) {
	t.Parallel()

	c, exec, archive := newTestCollector(t)
	repo := domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"}

	exec.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Command, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "fatal: repository not found\n")
			return errors.New("command failed")
		})
	archive.EXPECT().
		AppendRaw(repo, gomock.Any()).
		DoAndReturn(func(_ domain.Repo, items io.Reader) (ports.RawStats, error) {
			_, _ = io.Copy(io.Discard, items)
			return ports.RawStats{}, nil
		})

	err := c.gather(context.Background(), domain.KindGitRaw, ports.RunRequest{Repo: repo, JobLog: io.Discard})
	require.ErrorContains(t, err, "command failed")

	var exhausted *domain.TokenExhaustedError
	require.False(t, errors.As(err, &exhausted))
}

func TestGatherArchiveFailure(t *testing.T) {
	t.Parallel()

	c, exec, archive := newTestCollector(t)
	repo := domain.Repo{Backend: domain.BackendGit, URL: "https://example.org/p.git"}

	exec.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Command, stdout, _ io.Writer) error {
			_, _ = io.WriteString(stdout, strings.Repeat(`{"uuid":"x"}`+"\n", 100))
			return nil
		})
	archive.EXPECT().
		AppendRaw(repo, gomock.Any()).
		Return(ports.RawStats{}, domain.ErrArchiveWriteFailed)

	err := c.gather(context.Background(), domain.KindGitRaw, ports.RunRequest{Repo: repo, JobLog: io.Discard})
	require.ErrorIs(t, err, domain.ErrArchiveWriteFailed)
}

func TestTailBuffer(t *testing.T) {
	t.Parallel()

	tail := newTailBuffer(8)
	_, err := tail.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "23456789", string(tail.Bytes()))

	_, err = tail.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, "456789ab", string(tail.Bytes()))
}

func TestRateLimitDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tail    string
		want    time.Duration
		limited bool
	}{
		{name: "no marker", tail: "fatal: not a git repository", limited: false},
		{name: "seconds to reset", tail: "RateLimitError: rate limit exhausted; 326 seconds to reset", want: 326 * time.Second, limited: true},
		{name: "reset in seconds", tail: "403 rate limit; reset in 60 seconds", want: time.Minute, limited: true},
		{name: "marker without delay", tail: "api rate limit exceeded for token", want: DefaultCooldown, limited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, limited := rateLimitDelay([]byte(tt.tail), DefaultCooldown)
			assert.Equal(t, tt.limited, limited)
			if tt.limited {
				assert.Equal(t, tt.want, delay)
			}
		})
	}
}
