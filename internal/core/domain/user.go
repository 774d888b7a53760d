package domain

import "time"

// User owns intentions and tokens. The scheduler is fair across users,
// not across intentions: each dispatch round picks users first and only
// then an intention of each picked user.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}
