package domain

import "time"

// Worker is one running scheduler process. Workers register themselves on
// startup and heartbeat while alive so stale claims can be recovered.
type Worker struct {
	ID int64

	// Name is "<hostname>/<uuid>"; the uuid part keeps two workers on the
	// same host distinct.
	Name string

	StartedAt time.Time
	SeenAt    time.Time
}

// Stale reports whether the worker missed heartbeats for longer than the
// given cutoff at the given instant.
func (w Worker) Stale(now time.Time, cutoff time.Duration) bool {
	return now.Sub(w.SeenAt) > cutoff
}
