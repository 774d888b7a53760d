package domain

import "time"

// Job is the unit a worker claims and runs. A job belongs to the repo and
// kind shared by the intentions attached to it, holds the token IDs bound
// at creation for token gated kinds, and records which worker claimed it.
type Job struct {
	ID     int64
	RepoID int64
	Kind   Kind

	// WorkerID is the worker currently running the job. Zero while the
	// job waits in the pool.
	WorkerID int64

	// TokenIDs are the tokens bound to the job. Binding happens when the
	// job is created or when an intention of a token holder attaches.
	TokenIDs []int64

	CreatedAt time.Time
	StartedAt time.Time
}

// Claimed reports whether a worker currently holds the job.
func (j Job) Claimed() bool {
	return j.WorkerID != 0
}

// Age returns how long the job has existed at the given instant.
func (j Job) Age(now time.Time) time.Duration {
	return now.Sub(j.CreatedAt)
}
