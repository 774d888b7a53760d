package mariadb

import (
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
)

// Row types mirror the domain entities one to one. Optional instants are
// pointers: MariaDB rejects the Go zero time under strict mode, and NULL
// is what the queries test for anyway.

type userRow struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:191"`
	CreatedAt time.Time
}

func (userRow) TableName() string { return "poolsched_user" }

type repoRow struct {
	ID        int64  `gorm:"primaryKey"`
	Backend   string `gorm:"index;size:32"`
	URL       string `gorm:"size:512"`
	Owner     string `gorm:"size:255"`
	Name      string `gorm:"size:255"`
	Endpoint  string `gorm:"size:255"`
	CreatedAt time.Time
}

func (repoRow) TableName() string { return "poolsched_repo" }

type tokenRow struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"index"`
	Backend   string `gorm:"index;size:32"`
	Value     string `gorm:"size:255"`
	MaxJobs   int
	ResetAt   *time.Time
	CreatedAt time.Time
}

func (tokenRow) TableName() string { return "poolsched_token" }

type intentionRow struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"index"`
	RepoID    int64  `gorm:"index"`
	Kind      string `gorm:"index;size:32"`
	JobID     int64  `gorm:"index"`
	CreatedAt time.Time
}

func (intentionRow) TableName() string { return "poolsched_intention" }

// previousRow is one blocked-on link between two intentions. Links are
// deleted when the previous intention is archived.
type previousRow struct {
	IntentionID int64 `gorm:"primaryKey;autoIncrement:false"`
	PreviousID  int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (previousRow) TableName() string { return "poolsched_intention_previous" }

type jobRow struct {
	ID        int64  `gorm:"primaryKey"`
	RepoID    int64  `gorm:"index"`
	Kind      string `gorm:"index;size:32"`
	WorkerID  int64  `gorm:"index"`
	StartedAt *time.Time
	CreatedAt time.Time
}

func (jobRow) TableName() string { return "poolsched_job" }

// jobTokenRow binds a token to a job for the job's lifetime. The bound
// set also carries the per token concurrent job count.
type jobTokenRow struct {
	JobID   int64 `gorm:"primaryKey;autoIncrement:false"`
	TokenID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (jobTokenRow) TableName() string { return "poolsched_job_token" }

type workerRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:255"`
	StartedAt time.Time
	SeenAt    time.Time `gorm:"index"`
}

func (workerRow) TableName() string { return "poolsched_worker" }

type archivedRow struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"index"`
	RepoID     int64  `gorm:"index"`
	Kind       string `gorm:"size:32"`
	Status     string `gorm:"size:16"`
	LogPath    string `gorm:"size:512"`
	CreatedAt  time.Time
	ArchivedAt time.Time `gorm:"index"`
}

func (archivedRow) TableName() string { return "poolsched_archived_intention" }

func (r userRow) toDomain() domain.User {
	return domain.User{ID: r.ID, Username: r.Username, CreatedAt: r.CreatedAt}
}

func (r repoRow) toDomain() domain.Repo {
	return domain.Repo{
		ID:        r.ID,
		Backend:   domain.Backend(r.Backend),
		URL:       r.URL,
		Owner:     r.Owner,
		Name:      r.Name,
		Endpoint:  r.Endpoint,
		CreatedAt: r.CreatedAt,
	}
}

func repoToRow(repo domain.Repo) repoRow {
	return repoRow{
		ID:        repo.ID,
		Backend:   string(repo.Backend),
		URL:       repo.URL,
		Owner:     repo.Owner,
		Name:      repo.Name,
		Endpoint:  repo.Endpoint,
		CreatedAt: repo.CreatedAt,
	}
}

func (r tokenRow) toDomain() domain.Token {
	return domain.Token{
		ID:        r.ID,
		UserID:    r.UserID,
		Backend:   domain.Backend(r.Backend),
		Value:     r.Value,
		MaxJobs:   r.MaxJobs,
		Reset:     timeFromPtr(r.ResetAt),
		CreatedAt: r.CreatedAt,
	}
}

func (r intentionRow) toDomain(previousIDs []int64) domain.Intention {
	return domain.Intention{
		ID:          r.ID,
		UserID:      r.UserID,
		RepoID:      r.RepoID,
		Kind:        domain.Kind(r.Kind),
		JobID:       r.JobID,
		PreviousIDs: previousIDs,
		CreatedAt:   r.CreatedAt,
	}
}

func (r jobRow) toDomain(tokenIDs []int64) domain.Job {
	return domain.Job{
		ID:        r.ID,
		RepoID:    r.RepoID,
		Kind:      domain.Kind(r.Kind),
		WorkerID:  r.WorkerID,
		TokenIDs:  tokenIDs,
		CreatedAt: r.CreatedAt,
		StartedAt: timeFromPtr(r.StartedAt),
	}
}

func (r workerRow) toDomain() domain.Worker {
	return domain.Worker{ID: r.ID, Name: r.Name, StartedAt: r.StartedAt, SeenAt: r.SeenAt}
}

func (r archivedRow) toDomain() domain.ArchivedIntention {
	return domain.ArchivedIntention{
		ID:         r.ID,
		UserID:     r.UserID,
		RepoID:     r.RepoID,
		Kind:       domain.Kind(r.Kind),
		Status:     domain.ArchiveStatus(r.Status),
		LogPath:    r.LogPath,
		CreatedAt:  r.CreatedAt,
		ArchivedAt: r.ArchivedAt,
	}
}

func timeFromPtr(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

func timeToPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
