package domain

import (
	"fmt"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the scheduler configuration file.
	ConfigFileName = "poolsched.yaml"

	// DefaultJobLogsDir is the directory job logs are written to when no
	// override is configured. It matches the volume mounted in the
	// container image.
	DefaultJobLogsDir = "/job_logs"

	// DefaultArchiveDirName is the name of the local archive directory.
	DefaultArchiveDirName = "archive"

	// RawFileName is the name of the raw item dump inside an archive entry.
	RawFileName = "raw.jsonl"

	// EnrichedFileName is the name of the enriched item dump inside an
	// archive entry.
	EnrichedFileName = "enriched.jsonl"

	// SummaryFileName is the name of the enrichment summary inside an
	// archive entry.
	SummaryFileName = "summary.json"

	// MetaFileName is the name of the entry metadata file.
	MetaFileName = "meta.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// JobLogFileName returns the log file name for a job.
func JobLogFileName(jobID int64) string {
	return fmt.Sprintf("job-%d.log", jobID)
}

// JobLogPath returns the log file path for a job under the logs directory.
func JobLogPath(logsDir string, jobID int64) string {
	return filepath.Join(logsDir, JobLogFileName(jobID))
}
