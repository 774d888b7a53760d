package ports

import "io"

// JobLogs opens the per job log files on the shared logs volume. Files are
// append only and named after the job, so every process following a job
// resolves the same path.
//
//go:generate mockgen -source=joblog.go -destination=mocks/mock_joblog.go -package=mocks
type JobLogs interface {
	// Open opens the job's log file for appending, creating it first when
	// needed.
	Open(jobID int64) (io.WriteCloser, error)

	// Path returns where the job's log file lives.
	Path(jobID int64) string
}
