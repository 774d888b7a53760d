// Package memstore implements the pool store in process memory. It backs
// tests, --once smoke runs and the e2e scripts, and doubles as the
// reference for what every store driver must do.
package memstore

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// Store implements ports.Store with plain maps behind one mutex. The
// mutex stands in for the row locks a database driver takes: every
// method is one critical section.
type Store struct {
	mu     sync.Mutex
	closed bool

	// path of the JSON snapshot written on Close. Empty for volatile
	// stores.
	path string

	users      map[int64]domain.User
	repos      map[int64]domain.Repo
	tokens     map[int64]domain.Token
	intentions map[int64]*domain.Intention
	jobs       map[int64]*domain.Job
	workers    map[int64]domain.Worker
	archived   []domain.ArchivedIntention

	nextUserID      int64
	nextRepoID      int64
	nextTokenID     int64
	nextIntentionID int64
	nextJobID       int64
	nextWorkerID    int64
	nextArchivedID  int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		repos:      make(map[int64]domain.Repo),
		tokens:     make(map[int64]domain.Token),
		intentions: make(map[int64]*domain.Intention),
		jobs:       make(map[int64]*domain.Job),
		workers:    make(map[int64]domain.Worker),
	}
}

// Migrate is a no-op: there is no schema to create.
func (s *Store) Migrate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard()
}

// Ping verifies the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard()
}

// EnsureUser returns the user with the given name, creating it if needed.
func (s *Store) EnsureUser(_ context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.User{}, err
	}

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}

	s.nextUserID++
	user := domain.User{
		ID:        s.nextUserID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user

	return user, nil
}

// EnsureRepo returns the repo with the given identity, creating it if
// needed.
func (s *Store) EnsureRepo(_ context.Context, repo domain.Repo) (domain.Repo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Repo{}, err
	}

	if repo.Backend != domain.BackendGit && repo.Endpoint == "" {
		repo.Endpoint = domain.DefaultEndpoint(repo.Backend)
	}

	for _, existing := range s.repos {
		if sameRepoIdentity(existing, repo) {
			return existing, nil
		}
	}

	s.nextRepoID++
	repo.ID = s.nextRepoID
	repo.CreatedAt = time.Now().UTC()
	s.repos[repo.ID] = repo

	return repo, nil
}

// AddToken stores a new token for a user.
func (s *Store) AddToken(_ context.Context, token domain.Token) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Token{}, err
	}

	if _, ok := s.users[token.UserID]; !ok {
		return domain.Token{}, domain.ErrUserNotFound
	}

	s.nextTokenID++
	token.ID = s.nextTokenID
	token.CreatedAt = time.Now().UTC()
	s.tokens[token.ID] = token

	return token, nil
}

// ListTokens returns tokens, optionally filtered by backend.
func (s *Store) ListTokens(_ context.Context, backend domain.Backend) ([]domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	var tokens []domain.Token
	for _, token := range s.tokens {
		if backend == "" || token.Backend == backend {
			tokens = append(tokens, token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].ID < tokens[j].ID })

	return tokens, nil
}

// EnqueueIntention records an intention and the chain of previous
// intentions its kind depends on. Live intentions for the same user,
// repo and kind are reused instead of duplicated.
func (s *Store) EnqueueIntention(_ context.Context, userID, repoID int64, kind domain.Kind) ([]domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if _, ok := s.repos[repoID]; !ok {
		return nil, domain.ErrRepoNotFound
	}
	if _, ok := domain.KindSpecFor(kind); !ok {
		return nil, domain.ErrUnknownKind
	}

	chain := domain.KindChain(kind)
	byKind := make(map[domain.Kind]*domain.Intention, len(chain))
	result := make([]domain.Intention, 0, len(chain))

	for _, chainKind := range chain {
		intention := s.findIntention(userID, repoID, chainKind)
		if intention == nil {
			s.nextIntentionID++
			intention = &domain.Intention{
				ID:        s.nextIntentionID,
				UserID:    userID,
				RepoID:    repoID,
				Kind:      chainKind,
				CreatedAt: time.Now().UTC(),
			}
			s.intentions[intention.ID] = intention
		}
		byKind[chainKind] = intention
	}

	// Link each member to its direct previous intentions. A reused
	// intention that is already running keeps its links: its
	// dependencies were satisfied when its job was created.
	for _, chainKind := range chain {
		intention := byKind[chainKind]
		spec, _ := domain.KindSpecFor(chainKind)

		if intention.JobID == 0 {
			for _, prevKind := range spec.Previous {
				prev := byKind[prevKind]
				if !containsID(intention.PreviousIDs, prev.ID) {
					intention.PreviousIDs = append(intention.PreviousIDs, prev.ID)
				}
			}
		}

		result = append(result, *intention)
	}

	return result, nil
}

// ListIntentions returns live intentions, oldest first. A zero userID
// returns every user's intentions.
func (s *Store) ListIntentions(_ context.Context, userID int64) ([]domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	var intentions []domain.Intention
	for _, intention := range s.intentions {
		if userID == 0 || intention.UserID == userID {
			intentions = append(intentions, *intention)
		}
	}
	sort.Slice(intentions, func(i, j int) bool { return intentions[i].ID < intentions[j].ID })

	return intentions, nil
}

// CancelIntention archives a live intention as canceled.
func (s *Store) CancelIntention(_ context.Context, intentionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	intention, ok := s.intentions[intentionID]
	if !ok {
		return domain.ErrIntentionNotFound
	}

	s.archiveIntention(intention, domain.ArchiveCanceled, "")

	// A job left without intentions has nothing to produce. Waiting jobs
	// disappear with their last intention; running ones are the runner's
	// to finish.
	if intention.JobID != 0 {
		if job, live := s.jobs[intention.JobID]; live && !job.Claimed() && len(s.jobIntentions(job.ID)) == 0 {
			delete(s.jobs, job.ID)
		}
	}

	return nil
}

// RegisterWorker records a scheduler process joining the pool.
func (s *Store) RegisterWorker(_ context.Context, name string) (domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Worker{}, err
	}

	now := time.Now().UTC()
	s.nextWorkerID++
	worker := domain.Worker{
		ID:        s.nextWorkerID,
		Name:      name,
		StartedAt: now,
		SeenAt:    now,
	}
	s.workers[worker.ID] = worker

	return worker, nil
}

// HeartbeatWorker refreshes the worker's liveness timestamp.
func (s *Store) HeartbeatWorker(_ context.Context, workerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	worker, ok := s.workers[workerID]
	if !ok {
		return domain.ErrWorkerNotFound
	}
	worker.SeenAt = time.Now().UTC()
	s.workers[workerID] = worker

	return nil
}

// DeregisterWorker removes the worker and releases its claimed jobs.
func (s *Store) DeregisterWorker(_ context.Context, workerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	if _, ok := s.workers[workerID]; !ok {
		return domain.ErrWorkerNotFound
	}

	s.releaseWorkerJobs(workerID)
	delete(s.workers, workerID)

	return nil
}

// PickReadyUsers returns up to max distinct users owning at least one
// ready intention, in random order. A non-positive max means no limit.
func (s *Store) PickReadyUsers(_ context.Context, max int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	ready := make(map[int64]bool)
	for _, intention := range s.intentions {
		if intention.Ready() {
			ready[intention.UserID] = true
		}
	}

	users := make([]domain.User, 0, len(ready))
	for userID := range ready {
		users = append(users, s.users[userID])
	}
	rand.Shuffle(len(users), func(i, j int) { users[i], users[j] = users[j], users[i] })

	if max > 0 && len(users) > max {
		users = users[:max]
	}

	return users, nil
}

// SelectableIntentions returns up to max ready intentions of the user and
// kind, oldest first.
func (s *Store) SelectableIntentions(_ context.Context, userID int64, kind domain.Kind, max int) ([]domain.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	if kind.TokenGated() && !s.userHasUsableToken(userID, kind.Backend()) {
		return nil, nil
	}

	var intentions []domain.Intention
	for _, intention := range s.intentions {
		if intention.UserID == userID && intention.Kind == kind && intention.Ready() {
			intentions = append(intentions, *intention)
		}
	}
	sort.Slice(intentions, func(i, j int) bool { return intentions[i].ID < intentions[j].ID })

	if max > 0 && len(intentions) > max {
		intentions = intentions[:max]
	}

	return intentions, nil
}

// AttachOrCreateJob attaches the intention to a job already working the
// same repo and kind, or creates a new job with the owner's usable tokens
// bound.
func (s *Store) AttachOrCreateJob(_ context.Context, intentionID int64) (domain.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Job{}, false, err
	}

	intention, ok := s.intentions[intentionID]
	if !ok {
		return domain.Job{}, false, domain.ErrIntentionNotFound
	}

	if intention.JobID != 0 {
		if job, live := s.jobs[intention.JobID]; live {
			return *job, false, nil
		}
	}

	if !intention.Ready() {
		return domain.Job{}, false, domain.ErrNoIntentionReady
	}

	for _, job := range s.jobs {
		if job.RepoID == intention.RepoID && job.Kind == intention.Kind {
			intention.JobID = job.ID
			return *job, false, nil
		}
	}

	var tokenIDs []int64
	if intention.Kind.TokenGated() {
		tokenIDs = s.usableTokenIDs(intention.UserID, intention.Kind.Backend())
		if len(tokenIDs) == 0 {
			return domain.Job{}, false, domain.ErrNoTokenReady
		}
	}

	s.nextJobID++
	job := &domain.Job{
		ID:        s.nextJobID,
		RepoID:    intention.RepoID,
		Kind:      intention.Kind,
		TokenIDs:  tokenIDs,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[job.ID] = job
	intention.JobID = job.ID

	return *job, true, nil
}

// ClaimNextJob claims the oldest waiting job runnable right now.
func (s *Store) ClaimNextJob(_ context.Context, workerID int64) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Job{}, err
	}

	if _, ok := s.workers[workerID]; !ok {
		return domain.Job{}, domain.ErrWorkerNotFound
	}

	var waiting []*domain.Job
	for _, job := range s.jobs {
		if !job.Claimed() {
			waiting = append(waiting, job)
		}
	}
	sort.Slice(waiting, func(i, j int) bool { return waiting[i].ID < waiting[j].ID })

	now := time.Now().UTC()
	for _, job := range waiting {
		if job.Kind.TokenGated() && !s.anyTokenReady(job.TokenIDs, now) {
			continue
		}
		job.WorkerID = workerID
		job.StartedAt = now
		return *job, nil
	}

	return domain.Job{}, domain.ErrNoJobReady
}

// ReleaseJob returns a claimed job to the pool.
func (s *Store) ReleaseJob(_ context.Context, jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.WorkerID = 0
	job.StartedAt = time.Time{}

	return nil
}

// GetRepo returns the repo a job targets.
func (s *Store) GetRepo(_ context.Context, repoID int64) (domain.Repo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Repo{}, err
	}

	repo, ok := s.repos[repoID]
	if !ok {
		return domain.Repo{}, domain.ErrRepoNotFound
	}

	return repo, nil
}

// ReadyTokenForJob picks a bound token usable right now for the job.
func (s *Store) ReadyTokenForJob(_ context.Context, jobID int64) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return domain.Token{}, err
	}

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.Token{}, domain.ErrJobNotFound
	}

	now := time.Now().UTC()
	ids := append([]int64(nil), job.TokenIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, tokenID := range ids {
		if token, live := s.tokens[tokenID]; live && token.Ready(now) {
			return token, nil
		}
	}

	return domain.Token{}, domain.ErrNoTokenReady
}

// ParkToken records a rate limit exhaustion until the given reset.
func (s *Store) ParkToken(_ context.Context, tokenID int64, reset time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	token, ok := s.tokens[tokenID]
	if !ok {
		return domain.ErrTokenNotFound
	}
	token.Reset = reset
	s.tokens[tokenID] = token

	return nil
}

// ArchiveJob archives every intention attached to the job and deletes the
// job.
func (s *Store) ArchiveJob(_ context.Context, jobID int64, status domain.ArchiveStatus, logPath string) ([]domain.ArchivedIntention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	if _, ok := s.jobs[jobID]; !ok {
		return nil, domain.ErrJobNotFound
	}

	attached := s.jobIntentions(jobID)
	sort.Slice(attached, func(i, j int) bool { return attached[i].ID < attached[j].ID })

	archived := make([]domain.ArchivedIntention, 0, len(attached))
	for _, intention := range attached {
		archived = append(archived, s.archiveIntention(intention, status, logPath))
	}

	delete(s.jobs, jobID)

	return archived, nil
}

// ListArchived returns archived intentions, newest first. A non-positive
// limit means no limit.
func (s *Store) ListArchived(_ context.Context, limit int) ([]domain.ArchivedIntention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	archived := make([]domain.ArchivedIntention, len(s.archived))
	copy(archived, s.archived)
	sort.Slice(archived, func(i, j int) bool { return archived[i].ID > archived[j].ID })

	if limit > 0 && len(archived) > limit {
		archived = archived[:limit]
	}

	return archived, nil
}

// DeleteArchivedBefore removes archived records older than the cutoff.
func (s *Store) DeleteArchivedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return 0, err
	}

	var kept []domain.ArchivedIntention
	var removed int64
	for _, record := range s.archived {
		if record.ArchivedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	s.archived = kept

	return removed, nil
}

// ReleaseStaleJobs releases jobs held by workers that stopped
// heartbeating and removes those workers.
func (s *Store) ReleaseStaleJobs(_ context.Context, cutoff time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var released int64
	for workerID, worker := range s.workers {
		if !worker.Stale(now, cutoff) {
			continue
		}
		released += s.releaseWorkerJobs(workerID)
		delete(s.workers, workerID)
	}

	return released, nil
}

// Status summarizes the pool for display.
func (s *Store) Status(_ context.Context) (ports.PoolStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return ports.PoolStatus{}, err
	}

	status := ports.PoolStatus{
		PendingByKind: make(map[domain.Kind]int),
	}

	for _, intention := range s.intentions {
		status.PendingByKind[intention.Kind]++
	}
	for _, job := range s.jobs {
		if job.Claimed() {
			status.RunningJobs++
		} else {
			status.WaitingJobs++
		}
	}
	for _, worker := range s.workers {
		status.Workers = append(status.Workers, worker)
	}
	sort.Slice(status.Workers, func(i, j int) bool { return status.Workers[i].ID < status.Workers[j].ID })
	for _, token := range s.tokens {
		status.Tokens = append(status.Tokens, token)
	}
	sort.Slice(status.Tokens, func(i, j int) bool { return status.Tokens[i].ID < status.Tokens[j].ID })
	for _, record := range s.archived {
		switch record.Status {
		case domain.ArchiveOK:
			status.ArchivedOK++
		case domain.ArchiveError:
			status.ArchivedError++
		case domain.ArchiveCanceled:
		}
	}

	return status, nil
}

// Close marks the store closed and, for snapshot backed stores, writes
// the pool state out. Every later call fails with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.path == "" {
		return nil
	}
	return s.save()
}

func (s *Store) guard() error {
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

// archiveIntention moves one intention to the archive, deleting it and
// the links that were blocking its dependents. Callers hold the mutex.
func (s *Store) archiveIntention(intention *domain.Intention, status domain.ArchiveStatus, logPath string) domain.ArchivedIntention {
	s.nextArchivedID++
	record := domain.ArchivedIntention{
		ID:         s.nextArchivedID,
		UserID:     intention.UserID,
		RepoID:     intention.RepoID,
		Kind:       intention.Kind,
		Status:     status,
		LogPath:    logPath,
		CreatedAt:  intention.CreatedAt,
		ArchivedAt: time.Now().UTC(),
	}
	s.archived = append(s.archived, record)

	delete(s.intentions, intention.ID)
	for _, other := range s.intentions {
		other.PreviousIDs = removeID(other.PreviousIDs, intention.ID)
	}

	return record
}

func (s *Store) findIntention(userID, repoID int64, kind domain.Kind) *domain.Intention {
	for _, intention := range s.intentions {
		if intention.UserID == userID && intention.RepoID == repoID && intention.Kind == kind {
			return intention
		}
	}
	return nil
}

func (s *Store) jobIntentions(jobID int64) []*domain.Intention {
	var attached []*domain.Intention
	for _, intention := range s.intentions {
		if intention.JobID == jobID {
			attached = append(attached, intention)
		}
	}
	return attached
}

func (s *Store) releaseWorkerJobs(workerID int64) int64 {
	var released int64
	for _, job := range s.jobs {
		if job.WorkerID == workerID {
			job.WorkerID = 0
			job.StartedAt = time.Time{}
			released++
		}
	}
	return released
}

// usableTokenIDs returns the user's tokens for the backend that are past
// their reset and below their job cap, sorted for determinism.
func (s *Store) usableTokenIDs(userID int64, backend domain.Backend) []int64 {
	now := time.Now().UTC()
	var ids []int64
	for _, token := range s.tokens {
		if token.UserID != userID || token.Backend != backend {
			continue
		}
		if !token.Ready(now) {
			continue
		}
		if s.tokenJobCount(token.ID) >= token.JobCap() {
			continue
		}
		ids = append(ids, token.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) userHasUsableToken(userID int64, backend domain.Backend) bool {
	return len(s.usableTokenIDs(userID, backend)) > 0
}

func (s *Store) tokenJobCount(tokenID int64) int {
	count := 0
	for _, job := range s.jobs {
		if containsID(job.TokenIDs, tokenID) {
			count++
		}
	}
	return count
}

func (s *Store) anyTokenReady(tokenIDs []int64, now time.Time) bool {
	for _, tokenID := range tokenIDs {
		if token, ok := s.tokens[tokenID]; ok && token.Ready(now) {
			return true
		}
	}
	return false
}

func sameRepoIdentity(a, b domain.Repo) bool {
	if a.Backend != b.Backend {
		return false
	}
	if a.Backend == domain.BackendGit {
		return a.URL == b.URL
	}
	return a.Endpoint == b.Endpoint && a.Owner == b.Owner && a.Name == b.Name
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
