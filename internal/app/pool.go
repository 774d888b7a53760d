package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

// archivedLimit caps how many archived records Status prints.
const archivedLimit = 20

// EnqueueOptions describe one analysis request.
type EnqueueOptions struct {
	Username string
	Backend  string

	// URL is the clone URL for git repos.
	URL string

	// Owner and Name locate a forge project; Endpoint names its instance
	// and is empty for the public host.
	Owner    string
	Name     string
	Endpoint string

	// RawOnly stops the chain after gathering, skipping enrichment.
	RawOnly bool
}

// Enqueue records an analysis request for a repo: the deepest intention
// of the chain plus everything it depends on.
func (a *App) Enqueue(ctx context.Context, out io.Writer, opts EnqueueOptions) error {
	backend, err := domain.ParseBackend(opts.Backend)
	if err != nil {
		return zerr.With(err, "backend", opts.Backend)
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

	user, err := store.EnsureUser(ctx, opts.Username)
	if err != nil {
		return zerr.Wrap(err, "resolving user")
	}

	repo, err := store.EnsureRepo(ctx, domain.Repo{
		Backend:  backend,
		URL:      opts.URL,
		Owner:    opts.Owner,
		Name:     opts.Name,
		Endpoint: opts.Endpoint,
	})
	if err != nil {
		return zerr.Wrap(err, "resolving repository")
	}

	kind := domain.EnrichKind(backend)
	if opts.RawOnly {
		kind = domain.RawKind(backend)
	}

	chain, err := store.EnqueueIntention(ctx, user.ID, repo.ID, kind)
	if err != nil {
		return zerr.Wrap(err, "enqueuing intention")
	}

	fmt.Fprintf(out, "queued %s for %s\n", repo.Slug(), user.Username)
	for _, intention := range chain {
		fmt.Fprintf(out, "  intention %d: %s\n", intention.ID, intention.Kind)
	}
	return nil
}

// TokenOptions describe a credential to add to the pool.
type TokenOptions struct {
	Username string
	Backend  string
	Value    string

	// MaxJobs caps the token's concurrent jobs. Zero keeps the default.
	MaxJobs int
}

// AddToken stores an API token the user's future jobs draw on.
func (a *App) AddToken(ctx context.Context, out io.Writer, opts TokenOptions) error {
	backend, err := domain.ParseBackend(opts.Backend)
	if err != nil {
		return zerr.With(err, "backend", opts.Backend)
	}
	if !domain.RawKind(backend).TokenGated() {
		return zerr.With(domain.ErrTokenNotSupported, "backend", string(backend))
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

	user, err := store.EnsureUser(ctx, opts.Username)
	if err != nil {
		return zerr.Wrap(err, "resolving user")
	}

	token, err := store.AddToken(ctx, domain.Token{
		UserID:  user.ID,
		Backend: backend,
		Value:   opts.Value,
		MaxJobs: opts.MaxJobs,
	})
	if err != nil {
		return zerr.Wrap(err, "adding token")
	}

	fmt.Fprintf(out, "token %d added: %s for %s (job cap %d)\n", token.ID, backend, user.Username, token.JobCap())
	return nil
}

// ListTokens prints the stored tokens, optionally only one backend's.
func (a *App) ListTokens(ctx context.Context, out io.Writer, backendName string) error {
	var backend domain.Backend
	if backendName != "" {
		parsed, err := domain.ParseBackend(backendName)
		if err != nil {
			return zerr.With(err, "backend", backendName)
		}
		backend = parsed
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

	tokens, err := store.ListTokens(ctx, backend)
	if err != nil {
		return zerr.Wrap(err, "listing tokens")
	}

	if len(tokens) == 0 {
		fmt.Fprintln(out, "no tokens")
		return nil
	}

	now := time.Now()
	for _, token := range tokens {
		state := "ready"
		if !token.Ready(now) {
			state = "parked until " + token.Reset.Format(time.RFC3339)
		}
		fmt.Fprintf(out, "token %d  %s  %s  cap %d  %s\n",
			token.ID, token.Backend, maskToken(token.Value), token.JobCap(), state)
	}
	return nil
}

// maskToken keeps enough of a token value to recognize it.
func maskToken(value string) string {
	const keep = 4
	if len(value) <= 2*keep {
		return "****"
	}
	return value[:keep] + "****"
}

// StatusOptions configuration for the Status method.
type StatusOptions struct {
	// Archived appends the most recent archived intentions.
	Archived bool
}

// Status prints the pool summary.
func (a *App) Status(ctx context.Context, out io.Writer, opts StatusOptions) error {
	settings, err := a.settings()
	if err != nil {
		return err
	}
	store, err := a.openStore(ctx, settings, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	status, err := store.Status(ctx)
	if err != nil {
		return zerr.Wrap(err, "reading pool status")
	}
	writePoolStatus(out, status, time.Now())

	if opts.Archived {
		archived, err := store.ListArchived(ctx, archivedLimit)
		if err != nil {
			return zerr.Wrap(err, "listing archived intentions")
		}
		writeArchived(out, archived)
	}
	return nil
}

func writePoolStatus(out io.Writer, status ports.PoolStatus, now time.Time) {
	if len(status.PendingByKind) == 0 {
		fmt.Fprintln(out, "no pending intentions")
	} else {
		kinds := make([]string, 0, len(status.PendingByKind))
		for kind := range status.PendingByKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(out, "%s: %d pending\n", kind, status.PendingByKind[domain.Kind(kind)])
		}
	}

	fmt.Fprintf(out, "jobs: %d waiting, %d running\n", status.WaitingJobs, status.RunningJobs)

	if len(status.Workers) == 0 {
		fmt.Fprintln(out, "no workers")
	} else {
		for _, worker := range status.Workers {
			fmt.Fprintf(out, "worker %d: %s (seen %s ago)\n",
				worker.ID, worker.Name, now.Sub(worker.SeenAt).Round(time.Second))
		}
	}

	ready, parked := 0, 0
	for _, token := range status.Tokens {
		if token.Ready(now) {
			ready++
		} else {
			parked++
		}
	}
	fmt.Fprintf(out, "tokens: %d ready, %d parked\n", ready, parked)
	fmt.Fprintf(out, "archived: %d ok, %d failed\n", status.ArchivedOK, status.ArchivedError)
}

func writeArchived(out io.Writer, archived []domain.ArchivedIntention) {
	if len(archived) == 0 {
		fmt.Fprintln(out, "nothing archived yet")
		return
	}
	for _, record := range archived {
		line := fmt.Sprintf("%s  %s  %s", record.ArchivedAt.Format(time.RFC3339), record.Status, record.Kind)
		if record.LogPath != "" {
			line += "  " + record.LogPath
		}
		fmt.Fprintln(out, line)
	}
}
