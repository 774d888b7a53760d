package domain

import (
	"fmt"
	"time"

	"go.trai.ch/zerr"
)

var (
	ErrUnknownBackend    = zerr.New("unknown backend")
	ErrUnknownKind       = zerr.New("unknown intention kind")
	ErrUserNotFound      = zerr.New("user not found")
	ErrRepoNotFound      = zerr.New("repository not found")
	ErrTokenNotFound     = zerr.New("token not found")
	ErrTokenNotSupported = zerr.New("backend does not use tokens")
	ErrNoTokenReady      = zerr.New("no token ready for backend")
	ErrIntentionExists   = zerr.New("intention already exists")
	ErrIntentionNotFound = zerr.New("intention not found")
	ErrNoIntentionReady  = zerr.New("no intention ready")
	ErrJobNotFound       = zerr.New("job not found")
	ErrNoJobReady        = zerr.New("no job ready")
	ErrJobTaken          = zerr.New("job already claimed by another worker")
	ErrUnknownDriver     = zerr.New("unknown store driver")
	ErrWorkerNotFound    = zerr.New("worker not found")
	ErrStoreClosed       = zerr.New("store is closed")
	ErrNotInteractive    = zerr.New("monitor requires an interactive terminal")

	// ErrRawArchiveMissing is returned when an enrichment needs raw items
	// that were never gathered for the repository.
	ErrRawArchiveMissing = zerr.New("no raw archive for repository")

	// ErrArchiveReadFailed is returned when an archive entry cannot be read.
	ErrArchiveReadFailed = zerr.New("failed to read archive entry")

	// ErrArchiveWriteFailed is returned when an archive entry cannot be written.
	ErrArchiveWriteFailed = zerr.New("failed to write archive entry")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a config value is out of range or
	// cannot be applied.
	ErrConfigInvalid = zerr.New("invalid config value")
)

// TokenExhaustedError reports that a run hit the API rate limit of the
// token it was using. The job is released, not archived, so another
// worker can resume it once the token resets.
type TokenExhaustedError struct {
	TokenID int64
	Reset   time.Time
}

func (e *TokenExhaustedError) Error() string {
	return fmt.Sprintf("token %d exhausted until %s", e.TokenID, e.Reset.Format(time.RFC3339))
}
