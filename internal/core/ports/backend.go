package ports

import (
	"context"
	"io"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
)

// RunRequest carries everything a backend needs to work one claimed job.
type RunRequest struct {
	Job  domain.Job
	Repo domain.Repo

	// Token is the credential picked for this run. Zero for kinds that
	// are not token gated.
	Token domain.Token

	// JobLog receives the run's diagnostic output. It is the job's log
	// file under the shared logs volume.
	JobLog io.Writer
}

// Backend runs jobs of one intention kind.
//
// A nil return means the job's intentions are done. Returning a
// *domain.TokenExhaustedError parks the token and releases the job back to
// the pool; any other error archives the intentions as failed.
//
//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Kind returns the intention kind this backend serves.
	Kind() domain.Kind

	// Run works the job until done, failed, or canceled via ctx.
	Run(ctx context.Context, req RunRequest) error
}
