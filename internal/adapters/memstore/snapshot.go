package memstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"go.trai.ch/zerr"
)

// snapshot is the JSON form of the whole pool. Entities keep their domain
// shape; sequences are stored explicitly so IDs survive deleted rows.
type snapshot struct {
	Sequences  sequences                  `json:"sequences"`
	Users      []domain.User              `json:"users,omitempty"`
	Repos      []domain.Repo              `json:"repos,omitempty"`
	Tokens     []domain.Token             `json:"tokens,omitempty"`
	Intentions []domain.Intention         `json:"intentions,omitempty"`
	Jobs       []domain.Job               `json:"jobs,omitempty"`
	Workers    []domain.Worker            `json:"workers,omitempty"`
	Archived   []domain.ArchivedIntention `json:"archived,omitempty"`
}

type sequences struct {
	User      int64 `json:"user"`
	Repo      int64 `json:"repo"`
	Token     int64 `json:"token"`
	Intention int64 `json:"intention"`
	Job       int64 `json:"job"`
	Worker    int64 `json:"worker"`
	Archived  int64 `json:"archived"`
}

// OpenFile returns a Store backed by the JSON snapshot at path. The
// snapshot is read on open and written back on Close, handing the pool
// from one process to the next; a missing file starts an empty pool.
// Processes must take turns: the file is a baton, not shared live state,
// and a process that dies before Close loses its session.
func OpenFile(path string) (*Store, error) {
	s := New()
	s.path = path

	data, err := os.ReadFile(path) //nolint:gosec // the path comes from the operator's store configuration
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, zerr.Wrap(err, "reading store snapshot")
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing store snapshot"), "path", path)
	}
	s.restore(snap)

	return s, nil
}

// restore fills the store from a decoded snapshot.
func (s *Store) restore(snap snapshot) {
	for _, user := range snap.Users {
		s.users[user.ID] = user
	}
	for _, repo := range snap.Repos {
		s.repos[repo.ID] = repo
	}
	for _, token := range snap.Tokens {
		s.tokens[token.ID] = token
	}
	for _, intention := range snap.Intentions {
		record := intention
		s.intentions[record.ID] = &record
	}
	for _, job := range snap.Jobs {
		record := job
		s.jobs[record.ID] = &record
	}
	for _, worker := range snap.Workers {
		s.workers[worker.ID] = worker
	}
	s.archived = snap.Archived

	s.nextUserID = snap.Sequences.User
	s.nextRepoID = snap.Sequences.Repo
	s.nextTokenID = snap.Sequences.Token
	s.nextIntentionID = snap.Sequences.Intention
	s.nextJobID = snap.Sequences.Job
	s.nextWorkerID = snap.Sequences.Worker
	s.nextArchivedID = snap.Sequences.Archived
}

// save writes the snapshot file. Callers hold the mutex.
func (s *Store) save() error {
	snap := snapshot{
		Sequences: sequences{
			User:      s.nextUserID,
			Repo:      s.nextRepoID,
			Token:     s.nextTokenID,
			Intention: s.nextIntentionID,
			Job:       s.nextJobID,
			Worker:    s.nextWorkerID,
			Archived:  s.nextArchivedID,
		},
		Archived: s.archived,
	}

	for _, user := range s.users {
		snap.Users = append(snap.Users, user)
	}
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	for _, repo := range s.repos {
		snap.Repos = append(snap.Repos, repo)
	}
	sort.Slice(snap.Repos, func(i, j int) bool { return snap.Repos[i].ID < snap.Repos[j].ID })
	for _, token := range s.tokens {
		snap.Tokens = append(snap.Tokens, token)
	}
	sort.Slice(snap.Tokens, func(i, j int) bool { return snap.Tokens[i].ID < snap.Tokens[j].ID })
	for _, intention := range s.intentions {
		snap.Intentions = append(snap.Intentions, *intention)
	}
	sort.Slice(snap.Intentions, func(i, j int) bool { return snap.Intentions[i].ID < snap.Intentions[j].ID })
	for _, job := range s.jobs {
		snap.Jobs = append(snap.Jobs, *job)
	}
	sort.Slice(snap.Jobs, func(i, j int) bool { return snap.Jobs[i].ID < snap.Jobs[j].ID })
	for _, worker := range s.workers {
		snap.Workers = append(snap.Workers, worker)
	}
	sort.Slice(snap.Workers, func(i, j int) bool { return snap.Workers[i].ID < snap.Workers[j].ID })

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "encoding store snapshot")
	}
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "writing store snapshot")
	}
	return nil
}
