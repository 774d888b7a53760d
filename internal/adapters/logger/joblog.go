package logger

import (
	"io"
	"os"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

// JobLogs implements ports.JobLogs with one append only file per job under
// the logs directory. The directory is the volume shared with the other
// workers and the monitor.
type JobLogs struct {
	dir string
}

var _ ports.JobLogs = (*JobLogs)(nil)

// NewJobLogs creates the logs directory when missing and returns a JobLogs
// writing into it.
func NewJobLogs(dir string) (*JobLogs, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "creating job logs directory")
	}
	return &JobLogs{dir: dir}, nil
}

// Open opens the job's log file for appending, creating it first when
// needed.
func (j *JobLogs) Open(jobID int64) (io.WriteCloser, error) {
	//nolint:gosec // the path is the logs directory plus a numeric job id
	f, err := os.OpenFile(j.Path(jobID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil, zerr.Wrap(err, "opening job log")
	}
	return f, nil
}

// Path returns the job's log file path.
func (j *JobLogs) Path(jobID int64) string {
	return domain.JobLogPath(j.dir, jobID)
}
