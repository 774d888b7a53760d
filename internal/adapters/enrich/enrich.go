// Package enrich turns raw collector items into analyzable records.
// Enrichment is local: it reads the repo's raw archive entry and writes
// the enriched dump and a summary next to it.
package enrich

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

const maxLineSize = 16 * 1024 * 1024

// Enricher runs the enrichment kinds. The transform is driven by each
// item's category, so one enricher serves every backend family.
type Enricher struct {
	archive ports.Archiver
	log     ports.Logger
}

// New creates an Enricher reading from and writing to the given archive.
func New(archive ports.Archiver, log ports.Logger) *Enricher {
	return &Enricher{archive: archive, log: log}
}

// Backends returns one enrichment backend per supported kind.
func (e *Enricher) Backends() []ports.Backend {
	return []ports.Backend{
		&enrichBackend{enricher: e, kind: domain.KindGitEnrich},
		&enrichBackend{enricher: e, kind: domain.KindGitHubEnrich},
		&enrichBackend{enricher: e, kind: domain.KindGitLabEnrich},
	}
}

type enrichBackend struct {
	enricher *Enricher
	kind     domain.Kind
}

func (b *enrichBackend) Kind() domain.Kind {
	return b.kind
}

func (b *enrichBackend) Run(ctx context.Context, req ports.RunRequest) error {
	return b.enricher.enrich(ctx, req)
}

// enrich streams the repo's raw items through the transform into the
// enriched dump, then writes the aggregated summary. A repo without a
// raw entry fails: gathering has to happen first.
func (e *Enricher) enrich(ctx context.Context, req ports.RunRequest) error {
	raw, err := e.archive.RawReader(req.Repo)
	if err != nil {
		return err
	}
	defer func() { _ = raw.Close() }()

	pr, pw := io.Pipe()
	var written int
	var writeErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		written, writeErr = e.archive.WriteEnriched(req.Repo, pr)
		if writeErr != nil {
			_, _ = io.Copy(io.Discard, pr)
		}
	}()

	summary := newSummaryBuilder(req.Repo.Origin())
	encoder := json.NewEncoder(pw)
	encoder.SetEscapeHTML(false)

	var transformErr error
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			transformErr = err
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		item, facts := transform(req.Repo.Origin(), line)
		if item == nil {
			continue
		}
		summary.add(facts)

		if err := encoder.Encode(item); err != nil {
			transformErr = err
			break
		}
	}
	if transformErr == nil {
		transformErr = scanner.Err()
	}

	_ = pw.Close()
	<-done

	if transformErr != nil {
		return transformErr
	}
	if writeErr != nil {
		return writeErr
	}

	if err := e.archive.WriteSummary(req.Repo, summary.result()); err != nil {
		return err
	}

	fmt.Fprintf(req.JobLog, "enriched %d items for %s\n", written, req.Repo.Slug())
	e.log.Debug(fmt.Sprintf("enriched %d items for %s", written, req.Repo.Slug()))
	return nil
}
