package domain

import "time"

// DefaultMaxTokenJobs is the number of jobs a token may serve at once
// unless the token overrides it.
const DefaultMaxTokenJobs = 3

// Token is an API credential for a forge backend. A token serves at most
// MaxJobs concurrent jobs, and a token whose rate limit was exhausted is
// parked until Reset passes.
type Token struct {
	ID      int64
	UserID  int64
	Backend Backend
	Value   string

	// MaxJobs caps how many running jobs may hold this token at once.
	MaxJobs int

	// Reset is the instant the token becomes usable again after a rate
	// limit exhaustion. The zero value means the token is not parked.
	Reset time.Time

	CreatedAt time.Time
}

// Ready reports whether the token can serve a new job at the given
// instant, ignoring the concurrent job cap.
func (t Token) Ready(now time.Time) bool {
	return t.Reset.IsZero() || !t.Reset.After(now)
}

// JobCap returns the effective concurrent job cap of the token.
func (t Token) JobCap() int {
	if t.MaxJobs <= 0 {
		return DefaultMaxTokenJobs
	}
	return t.MaxJobs
}
