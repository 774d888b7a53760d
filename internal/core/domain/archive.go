package domain

import "time"

// ArchiveStatus is the final outcome recorded for a finished intention.
type ArchiveStatus string

const (
	// ArchiveOK marks an intention whose run completed.
	ArchiveOK ArchiveStatus = "ok"
	// ArchiveError marks an intention whose run failed permanently.
	ArchiveError ArchiveStatus = "error"
	// ArchiveCanceled marks an intention removed before completion.
	ArchiveCanceled ArchiveStatus = "canceled"
)

// ArchivedIntention is the retained record of a finished intention. The
// live intention row is deleted on archive, which also removes the links
// blocking its dependents.
type ArchivedIntention struct {
	ID     int64
	UserID int64
	RepoID int64
	Kind   Kind
	Status ArchiveStatus

	// LogPath points at the job log the run wrote, if the intention went
	// through a job. Cancellations leave it empty.
	LogPath string

	CreatedAt  time.Time
	ArchivedAt time.Time
}
