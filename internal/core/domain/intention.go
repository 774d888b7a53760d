package domain

import "time"

// Intention is a user's standing request to analyze a repo with one kind.
// An intention is ready once it has no unarchived previous intentions and
// no job attached yet. Enqueuing an enrichment kind materializes its
// previous raw intention up front, so chains drain raw first.
type Intention struct {
	ID     int64
	UserID int64
	RepoID int64
	Kind   Kind

	// JobID is the job currently working this intention, if any. Several
	// intentions for the same repo and kind share one job.
	JobID int64

	// PreviousIDs lists the intentions this one is blocked on. The links
	// are deleted when the previous intention is archived, whatever its
	// final status.
	PreviousIDs []int64

	CreatedAt time.Time
}

// Ready reports whether the intention can be worked on right now.
func (i Intention) Ready() bool {
	return i.JobID == 0 && len(i.PreviousIDs) == 0
}
