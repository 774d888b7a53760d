// Package mariadb implements the pool store on MariaDB. Workers on
// different hosts share one schema; row locks make every store method
// one atomic operation.
package mariadb

import (
	"context"
	"errors"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var forUpdate = clause.Locking{Strength: "UPDATE"}

// Store implements ports.Store on a gorm connection.
type Store struct {
	db  *gorm.DB
	log ports.Logger
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB, log ports.Logger) *Store {
	return &Store{db: db, log: log}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&userRow{},
		&repoRow{},
		&tokenRow{},
		&intentionRow{},
		&previousRow{},
		&jobRow{},
		&jobTokenRow{},
		&workerRow{},
		&archivedRow{},
	)
	if err != nil {
		return err
	}
	s.log.Debug("database schema up to date")
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// EnsureUser returns the user with the given name, creating it if needed.
func (s *Store) EnsureUser(ctx context.Context, username string) (domain.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("username = ?", username).First(&row).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row = userRow{Username: username, CreatedAt: time.Now().UTC()}
		return tx.Create(&row).Error
	})
	if err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

// EnsureRepo returns the repo with the given identity, creating it if
// needed.
func (s *Store) EnsureRepo(ctx context.Context, repo domain.Repo) (domain.Repo, error) {
	if repo.Backend != domain.BackendGit && repo.Endpoint == "" {
		repo.Endpoint = domain.DefaultEndpoint(repo.Backend)
	}

	var row repoRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("backend = ?", string(repo.Backend))
		if repo.Backend == domain.BackendGit {
			q = q.Where("url = ?", repo.URL)
		} else {
			q = q.Where("endpoint = ? AND owner = ? AND name = ?", repo.Endpoint, repo.Owner, repo.Name)
		}

		err := q.First(&row).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row = repoToRow(repo)
		row.ID = 0
		row.CreatedAt = time.Now().UTC()
		return tx.Create(&row).Error
	})
	if err != nil {
		return domain.Repo{}, err
	}
	return row.toDomain(), nil
}

// AddToken stores a new token for a user.
func (s *Store) AddToken(ctx context.Context, token domain.Token) (domain.Token, error) {
	row := tokenRow{
		UserID:    token.UserID,
		Backend:   string(token.Backend),
		Value:     token.Value,
		MaxJobs:   token.MaxJobs,
		ResetAt:   timeToPtr(token.Reset),
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&userRow{}, token.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return domain.Token{}, err
	}
	return row.toDomain(), nil
}

// ListTokens returns tokens, optionally filtered by backend.
func (s *Store) ListTokens(ctx context.Context, backend domain.Backend) ([]domain.Token, error) {
	q := s.db.WithContext(ctx).Order("id")
	if backend != "" {
		q = q.Where("backend = ?", string(backend))
	}

	var rows []tokenRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	tokens := make([]domain.Token, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, row.toDomain())
	}
	return tokens, nil
}

// EnqueueIntention records an intention and the chain of previous
// intentions its kind depends on. Live intentions for the same user,
// repo and kind are reused instead of duplicated.
func (s *Store) EnqueueIntention(ctx context.Context, userID, repoID int64, kind domain.Kind) ([]domain.Intention, error) {
	if _, ok := domain.KindSpecFor(kind); !ok {
		return nil, domain.ErrUnknownKind
	}

	var result []domain.Intention
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&userRow{}, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err := tx.First(&repoRow{}, repoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRepoNotFound
			}
			return err
		}

		chain := domain.KindChain(kind)
		rows := make(map[domain.Kind]*intentionRow, len(chain))
		for _, chainKind := range chain {
			row := &intentionRow{}
			err := tx.Clauses(forUpdate).
				Where("user_id = ? AND repo_id = ? AND kind = ?", userID, repoID, string(chainKind)).
				First(row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row = &intentionRow{
					UserID:    userID,
					RepoID:    repoID,
					Kind:      string(chainKind),
					CreatedAt: time.Now().UTC(),
				}
				err = tx.Create(row).Error
			}
			if err != nil {
				return err
			}
			rows[chainKind] = row
		}

		// Link each member to its direct previous intentions. A reused
		// intention that is already running keeps its links: its
		// dependencies were satisfied when its job was created.
		for _, chainKind := range chain {
			row := rows[chainKind]
			spec, _ := domain.KindSpecFor(chainKind)

			if row.JobID == 0 {
				for _, prevKind := range spec.Previous {
					link := previousRow{IntentionID: row.ID, PreviousID: rows[prevKind].ID}
					if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
						return err
					}
				}
			}

			previousIDs, err := previousIDsOf(tx, row.ID)
			if err != nil {
				return err
			}
			result = append(result, row.toDomain(previousIDs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListIntentions returns live intentions, oldest first. A zero userID
// returns every user's intentions.
func (s *Store) ListIntentions(ctx context.Context, userID int64) ([]domain.Intention, error) {
	q := s.db.WithContext(ctx).Order("id")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var rows []intentionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var links []previousRow
	if err := s.db.WithContext(ctx).Where("intention_id IN ?", ids).Order("previous_id").Find(&links).Error; err != nil {
		return nil, err
	}
	previous := make(map[int64][]int64)
	for _, link := range links {
		previous[link.IntentionID] = append(previous[link.IntentionID], link.PreviousID)
	}

	intentions := make([]domain.Intention, 0, len(rows))
	for _, row := range rows {
		intentions = append(intentions, row.toDomain(previous[row.ID]))
	}
	return intentions, nil
}

// CancelIntention archives a live intention as canceled.
func (s *Store) CancelIntention(ctx context.Context, intentionID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row intentionRow
		if err := tx.Clauses(forUpdate).First(&row, intentionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIntentionNotFound
			}
			return err
		}

		if _, err := archiveIntentionRow(tx, row, domain.ArchiveCanceled, ""); err != nil {
			return err
		}

		if row.JobID == 0 {
			return nil
		}

		// A waiting job left without intentions has nothing to produce.
		var job jobRow
		err := tx.Clauses(forUpdate).First(&job, row.JobID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if job.WorkerID != 0 {
			return nil
		}
		var remaining int64
		if err := tx.Model(&intentionRow{}).Where("job_id = ?", job.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&jobTokenRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&jobRow{}, job.ID).Error
	})
}

// RegisterWorker records a scheduler process joining the pool.
func (s *Store) RegisterWorker(ctx context.Context, name string) (domain.Worker, error) {
	now := time.Now().UTC()
	row := workerRow{Name: name, StartedAt: now, SeenAt: now}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Worker{}, err
	}
	return row.toDomain(), nil
}

// HeartbeatWorker refreshes the worker's liveness timestamp.
func (s *Store) HeartbeatWorker(ctx context.Context, workerID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&workerRow{}, workerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWorkerNotFound
			}
			return err
		}
		return tx.Model(&workerRow{}).Where("id = ?", workerID).
			Update("seen_at", time.Now().UTC()).Error
	})
}

// DeregisterWorker removes the worker and releases its claimed jobs.
func (s *Store) DeregisterWorker(ctx context.Context, workerID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&workerRow{}, workerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWorkerNotFound
			}
			return err
		}
		if err := releaseJobsOf(tx, workerID); err != nil {
			return err
		}
		return tx.Delete(&workerRow{}, workerID).Error
	})
}

// PickReadyUsers returns up to max distinct users owning at least one
// ready intention, in random order. A non-positive max means no limit.
func (s *Store) PickReadyUsers(ctx context.Context, max int) ([]domain.User, error) {
	ready := s.db.Model(&intentionRow{}).Select("user_id").
		Where("job_id = 0").
		Where("id NOT IN (?)", s.db.Model(&previousRow{}).Select("intention_id"))

	q := s.db.WithContext(ctx).Model(&userRow{}).
		Where("id IN (?)", ready).
		Order("RAND()")
	if max > 0 {
		q = q.Limit(max)
	}

	var rows []userRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

// SelectableIntentions returns up to max ready intentions of the user and
// kind, oldest first.
func (s *Store) SelectableIntentions(ctx context.Context, userID int64, kind domain.Kind, max int) ([]domain.Intention, error) {
	db := s.db.WithContext(ctx)

	if kind.TokenGated() {
		usable, err := usableTokens(db, userID, kind.Backend())
		if err != nil {
			return nil, err
		}
		if len(usable) == 0 {
			return nil, nil
		}
	}

	q := db.Model(&intentionRow{}).
		Where("user_id = ? AND kind = ? AND job_id = 0", userID, string(kind)).
		Where("id NOT IN (?)", s.db.Model(&previousRow{}).Select("intention_id")).
		Order("id")
	if max > 0 {
		q = q.Limit(max)
	}

	var rows []intentionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	intentions := make([]domain.Intention, 0, len(rows))
	for _, row := range rows {
		intentions = append(intentions, row.toDomain(nil))
	}
	return intentions, nil
}

// AttachOrCreateJob attaches the intention to a job already working the
// same repo and kind, or creates a new job with the owner's usable tokens
// bound.
func (s *Store) AttachOrCreateJob(ctx context.Context, intentionID int64) (domain.Job, bool, error) {
	var result domain.Job
	var created bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var intention intentionRow
		if err := tx.Clauses(forUpdate).First(&intention, intentionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIntentionNotFound
			}
			return err
		}

		if intention.JobID != 0 {
			var job jobRow
			err := tx.First(&job, intention.JobID).Error
			if err == nil {
				return loadJob(tx, job, &result)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var blocked int64
		if err := tx.Model(&previousRow{}).Where("intention_id = ?", intention.ID).Count(&blocked).Error; err != nil {
			return err
		}
		if blocked > 0 {
			return domain.ErrNoIntentionReady
		}

		var job jobRow
		err := tx.Clauses(forUpdate).
			Where("repo_id = ? AND kind = ?", intention.RepoID, intention.Kind).
			First(&job).Error
		if err == nil {
			if err := tx.Model(&intentionRow{}).Where("id = ?", intention.ID).Update("job_id", job.ID).Error; err != nil {
				return err
			}
			return loadJob(tx, job, &result)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var tokenIDs []int64
		if domain.Kind(intention.Kind).TokenGated() {
			usable, err := usableTokens(tx, intention.UserID, domain.Kind(intention.Kind).Backend())
			if err != nil {
				return err
			}
			if len(usable) == 0 {
				return domain.ErrNoTokenReady
			}
			for _, token := range usable {
				tokenIDs = append(tokenIDs, token.ID)
			}
		}

		job = jobRow{RepoID: intention.RepoID, Kind: intention.Kind, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		for _, tokenID := range tokenIDs {
			if err := tx.Create(&jobTokenRow{JobID: job.ID, TokenID: tokenID}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&intentionRow{}).Where("id = ?", intention.ID).Update("job_id", job.ID).Error; err != nil {
			return err
		}

		result = job.toDomain(tokenIDs)
		created = true
		return nil
	})
	if err != nil {
		return domain.Job{}, false, err
	}
	return result, created, nil
}

// ClaimNextJob claims the oldest waiting job runnable right now.
func (s *Store) ClaimNextJob(ctx context.Context, workerID int64) (domain.Job, error) {
	var result domain.Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&workerRow{}, workerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWorkerNotFound
			}
			return err
		}

		var waiting []jobRow
		if err := tx.Clauses(forUpdate).Where("worker_id = 0").Order("id").Find(&waiting).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, job := range waiting {
			if domain.Kind(job.Kind).TokenGated() {
				var ready int64
				err := tx.Model(&tokenRow{}).
					Joins("JOIN poolsched_job_token ON poolsched_job_token.token_id = poolsched_token.id").
					Where("poolsched_job_token.job_id = ?", job.ID).
					Where("reset_at IS NULL OR reset_at <= ?", now).
					Count(&ready).Error
				if err != nil {
					return err
				}
				if ready == 0 {
					continue
				}
			}

			updates := map[string]any{"worker_id": workerID, "started_at": now}
			if err := tx.Model(&jobRow{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
				return err
			}
			job.WorkerID = workerID
			job.StartedAt = &now
			return loadJob(tx, job, &result)
		}

		return domain.ErrNoJobReady
	})
	if err != nil {
		return domain.Job{}, err
	}
	return result, nil
}

// ReleaseJob returns a claimed job to the pool.
func (s *Store) ReleaseJob(ctx context.Context, jobID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&jobRow{}, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrJobNotFound
			}
			return err
		}
		updates := map[string]any{"worker_id": 0, "started_at": nil}
		return tx.Model(&jobRow{}).Where("id = ?", jobID).Updates(updates).Error
	})
}

// GetRepo returns the repo a job targets.
func (s *Store) GetRepo(ctx context.Context, repoID int64) (domain.Repo, error) {
	var row repoRow
	if err := s.db.WithContext(ctx).First(&row, repoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Repo{}, domain.ErrRepoNotFound
		}
		return domain.Repo{}, err
	}
	return row.toDomain(), nil
}

// ReadyTokenForJob picks a bound token usable right now for the job.
func (s *Store) ReadyTokenForJob(ctx context.Context, jobID int64) (domain.Token, error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&jobRow{}, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Token{}, domain.ErrJobNotFound
		}
		return domain.Token{}, err
	}

	var row tokenRow
	err := db.
		Joins("JOIN poolsched_job_token ON poolsched_job_token.token_id = poolsched_token.id").
		Where("poolsched_job_token.job_id = ?", jobID).
		Where("reset_at IS NULL OR reset_at <= ?", time.Now().UTC()).
		Order("poolsched_token.id").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Token{}, domain.ErrNoTokenReady
		}
		return domain.Token{}, err
	}
	return row.toDomain(), nil
}

// ParkToken records a rate limit exhaustion until the given reset.
func (s *Store) ParkToken(ctx context.Context, tokenID int64, reset time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tokenRow{}, tokenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotFound
			}
			return err
		}
		return tx.Model(&tokenRow{}).Where("id = ?", tokenID).
			Update("reset_at", timeToPtr(reset)).Error
	})
}

// ArchiveJob archives every intention attached to the job and deletes the
// job.
func (s *Store) ArchiveJob(ctx context.Context, jobID int64, status domain.ArchiveStatus, logPath string) ([]domain.ArchivedIntention, error) {
	var archived []domain.ArchivedIntention

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&jobRow{}, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrJobNotFound
			}
			return err
		}

		var attached []intentionRow
		if err := tx.Clauses(forUpdate).Where("job_id = ?", jobID).Order("id").Find(&attached).Error; err != nil {
			return err
		}

		for _, row := range attached {
			record, err := archiveIntentionRow(tx, row, status, logPath)
			if err != nil {
				return err
			}
			archived = append(archived, record.toDomain())
		}

		if err := tx.Where("job_id = ?", jobID).Delete(&jobTokenRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&jobRow{}, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// ListArchived returns archived intentions, newest first. A non-positive
// limit means no limit.
func (s *Store) ListArchived(ctx context.Context, limit int) ([]domain.ArchivedIntention, error) {
	q := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []archivedRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	archived := make([]domain.ArchivedIntention, 0, len(rows))
	for _, row := range rows {
		archived = append(archived, row.toDomain())
	}
	return archived, nil
}

// DeleteArchivedBefore removes archived records older than the cutoff.
func (s *Store) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("archived_at < ?", cutoff).Delete(&archivedRow{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ReleaseStaleJobs releases jobs held by workers that stopped
// heartbeating and removes those workers.
func (s *Store) ReleaseStaleJobs(ctx context.Context, cutoff time.Duration) (int64, error) {
	var released int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		horizon := time.Now().UTC().Add(-cutoff)

		var stale []workerRow
		if err := tx.Clauses(forUpdate).Where("seen_at < ?", horizon).Find(&stale).Error; err != nil {
			return err
		}

		for _, worker := range stale {
			res := tx.Model(&jobRow{}).Where("worker_id = ?", worker.ID).
				Updates(map[string]any{"worker_id": 0, "started_at": nil})
			if res.Error != nil {
				return res.Error
			}
			released += res.RowsAffected
			if err := tx.Delete(&workerRow{}, worker.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

// Status summarizes the pool for display. The summary queries are
// independent and run concurrently: the monitor polls Status on every
// refresh.
func (s *Store) Status(ctx context.Context) (ports.PoolStatus, error) {
	g, ctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(ctx)

	var pending []struct {
		Kind string
		N    int
	}
	var waiting, running int64
	var workers []workerRow
	var tokens []tokenRow
	var archivedOK, archivedFailed int64

	g.Go(func() error {
		return db.Model(&intentionRow{}).Select("kind, COUNT(*) AS n").Group("kind").Scan(&pending).Error
	})
	g.Go(func() error {
		return db.Model(&jobRow{}).Where("worker_id = 0").Count(&waiting).Error
	})
	g.Go(func() error {
		return db.Model(&jobRow{}).Where("worker_id <> 0").Count(&running).Error
	})
	g.Go(func() error {
		return db.Order("id").Find(&workers).Error
	})
	g.Go(func() error {
		return db.Order("id").Find(&tokens).Error
	})
	g.Go(func() error {
		return db.Model(&archivedRow{}).Where("status = ?", string(domain.ArchiveOK)).Count(&archivedOK).Error
	})
	g.Go(func() error {
		return db.Model(&archivedRow{}).Where("status = ?", string(domain.ArchiveError)).Count(&archivedFailed).Error
	})
	if err := g.Wait(); err != nil {
		return ports.PoolStatus{}, err
	}

	status := ports.PoolStatus{PendingByKind: make(map[domain.Kind]int, len(pending))}
	for _, row := range pending {
		status.PendingByKind[domain.Kind(row.Kind)] = row.N
	}
	status.WaitingJobs = int(waiting)
	status.RunningJobs = int(running)
	for _, row := range workers {
		status.Workers = append(status.Workers, row.toDomain())
	}
	for _, row := range tokens {
		status.Tokens = append(status.Tokens, row.toDomain())
	}
	status.ArchivedOK = int(archivedOK)
	status.ArchivedError = int(archivedFailed)

	return status, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// archiveIntentionRow copies one intention to the archive and deletes it
// along with the links that were blocking its dependents.
func archiveIntentionRow(tx *gorm.DB, row intentionRow, status domain.ArchiveStatus, logPath string) (archivedRow, error) {
	record := archivedRow{
		UserID:     row.UserID,
		RepoID:     row.RepoID,
		Kind:       row.Kind,
		Status:     string(status),
		LogPath:    logPath,
		CreatedAt:  row.CreatedAt,
		ArchivedAt: time.Now().UTC(),
	}
	if err := tx.Create(&record).Error; err != nil {
		return archivedRow{}, err
	}
	if err := tx.Where("intention_id = ? OR previous_id = ?", row.ID, row.ID).Delete(&previousRow{}).Error; err != nil {
		return archivedRow{}, err
	}
	if err := tx.Delete(&intentionRow{}, row.ID).Error; err != nil {
		return archivedRow{}, err
	}
	return record, nil
}

// usableTokens returns the user's tokens for the backend that are past
// their reset and below their job cap.
func usableTokens(db *gorm.DB, userID int64, backend domain.Backend) ([]tokenRow, error) {
	var rows []tokenRow
	err := db.
		Where("user_id = ? AND backend = ?", userID, string(backend)).
		Where("reset_at IS NULL OR reset_at <= ?", time.Now().UTC()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var usable []tokenRow
	for _, row := range rows {
		var bound int64
		if err := db.Model(&jobTokenRow{}).Where("token_id = ?", row.ID).Count(&bound).Error; err != nil {
			return nil, err
		}
		if int(bound) < row.toDomain().JobCap() {
			usable = append(usable, row)
		}
	}
	return usable, nil
}

func previousIDsOf(tx *gorm.DB, intentionID int64) ([]int64, error) {
	var ids []int64
	err := tx.Model(&previousRow{}).
		Where("intention_id = ?", intentionID).
		Order("previous_id").
		Pluck("previous_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func jobTokenIDs(tx *gorm.DB, jobID int64) ([]int64, error) {
	var ids []int64
	err := tx.Model(&jobTokenRow{}).
		Where("job_id = ?", jobID).
		Order("token_id").
		Pluck("token_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func loadJob(tx *gorm.DB, row jobRow, out *domain.Job) error {
	tokenIDs, err := jobTokenIDs(tx, row.ID)
	if err != nil {
		return err
	}
	*out = row.toDomain(tokenIDs)
	return nil
}

func releaseJobsOf(tx *gorm.DB, workerID int64) error {
	return tx.Model(&jobRow{}).Where("worker_id = ?", workerID).
		Updates(map[string]any{"worker_id": 0, "started_at": nil}).Error
}
