// Package perceval gathers raw items by running the perceval collector
// as an external process. The collector stays opaque: this adapter only
// builds its argv, streams its stdout into the archive, and interprets
// its exit.
package perceval

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// DefaultCooldown is how long a token is parked when the collector dies
// on a rate limit without naming a reset time.
const DefaultCooldown = 10 * time.Minute

// Collector runs one configured collector binary for every raw kind.
type Collector struct {
	binary   string
	cooldown time.Duration
	exec     ports.Executor
	archive  ports.Archiver
	log      ports.Logger
}

// Option adjusts a Collector.
type Option func(*Collector)

// WithCooldown overrides the fallback token cooldown.
func WithCooldown(d time.Duration) Option {
	return func(c *Collector) { c.cooldown = d }
}

// New creates a Collector around the given binary. An empty binary name
// selects the default collector.
func New(binary string, exec ports.Executor, archive ports.Archiver, log ports.Logger, opts ...Option) *Collector {
	if binary == "" {
		binary = domain.DefaultCollector
	}
	c := &Collector{
		binary:   binary,
		cooldown: DefaultCooldown,
		exec:     exec,
		archive:  archive,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backends returns one raw backend per supported kind, all sharing this
// collector.
func (c *Collector) Backends() []ports.Backend {
	return []ports.Backend{
		&rawBackend{collector: c, kind: domain.KindGitRaw},
		&rawBackend{collector: c, kind: domain.KindGitHubRaw},
		&rawBackend{collector: c, kind: domain.KindGitLabRaw},
	}
}

type rawBackend struct {
	collector *Collector
	kind      domain.Kind
}

func (b *rawBackend) Kind() domain.Kind {
	return b.kind
}

func (b *rawBackend) Run(ctx context.Context, req ports.RunRequest) error {
	return b.collector.gather(ctx, b.kind, req)
}

// gather runs the collector once for the repo. Its stdout is the item
// stream and goes to the archive; its stderr goes to the job log, with
// the tail kept for rate limit detection.
func (c *Collector) gather(ctx context.Context, kind domain.Kind, req ports.RunRequest) error {
	argv, err := c.argv(kind, req)
	if err != nil {
		return err
	}

	tail := newTailBuffer(tailLimit)
	stderr := io.MultiWriter(req.JobLog, tail)

	pr, pw := io.Pipe()
	var stats ports.RawStats
	var archiveErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		stats, archiveErr = c.archive.AppendRaw(req.Repo, pr)
		if archiveErr != nil {
			// Keep draining so the collector never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, pr)
		}
	}()

	execErr := c.exec.Execute(ctx, ports.Command{Argv: argv}, pw, stderr)
	_ = pw.Close()
	<-done

	if execErr != nil {
		if kind.TokenGated() {
			if delay, limited := rateLimitDelay(tail.Bytes(), c.cooldown); limited {
				return &domain.TokenExhaustedError{
					TokenID: req.Token.ID,
					Reset:   time.Now().UTC().Add(delay),
				}
			}
		}
		return execErr
	}
	if archiveErr != nil {
		return archiveErr
	}

	c.log.Debug(fmt.Sprintf("gathered %d new items for %s (%d total)", stats.Added, req.Repo.Slug(), stats.Total))
	return nil
}

func (c *Collector) argv(kind domain.Kind, req ports.RunRequest) ([]string, error) {
	switch kind {
	case domain.KindGitRaw:
		return []string{c.binary, "git", req.Repo.URL, "--json-line"}, nil
	case domain.KindGitHubRaw:
		return []string{c.binary, "github", req.Repo.Owner, req.Repo.Name, "--json-line", "-t", req.Token.Value}, nil
	case domain.KindGitLabRaw:
		argv := []string{c.binary, "gitlab", req.Repo.Owner, req.Repo.Name, "--json-line", "-t", req.Token.Value}
		if req.Repo.Endpoint != "" && req.Repo.Endpoint != domain.DefaultGitLabEndpoint {
			argv = append(argv, "--enterprise-url", req.Repo.Endpoint)
		}
		return argv, nil
	default:
		return nil, domain.ErrUnknownKind
	}
}
