// Package archive implements the on-disk item store for gathered and
// enriched data.
package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

// Collector items can carry whole commit messages or issue bodies on a
// single line.
const maxLineSize = 16 * 1024 * 1024

// Store implements ports.Archiver using one directory per repo origin.
// Entries live under <root>/<backend>/<xxhash(origin)>/ so repeated runs
// of the same repo always land in the same place. Writes within the
// process are serialized; workers on other hosts write to their own
// volume.
type Store struct {
	root string

	mu sync.Mutex
}

// NewStore creates a new Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// entryMeta describes an archive entry. It is rewritten on every append.
type entryMeta struct {
	Origin    string    `json:"origin"`
	Backend   string    `json:"backend"`
	Items     int       `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendRaw appends the items not seen before for this repo and updates
// the entry metadata. Items are identified by their collector uuid, or by
// a content hash when the uuid is absent.
func (s *Store) AppendRaw(repo domain.Repo, items io.Reader) (ports.RawStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(repo)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	rawPath := filepath.Join(dir, domain.RawFileName)

	seen, err := loadItemKeys(rawPath)
	if err != nil {
		return ports.RawStats{}, err
	}

	//nolint:gosec // path is derived from the archive root and a hashed origin
	out, err := os.OpenFile(rawPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	defer func() { _ = out.Close() }()

	writer := bufio.NewWriter(out)
	added := 0

	scanner := newLineScanner(items)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		key := itemKey(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, err := writer.Write(line); err != nil {
			return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
		}
		if err := writer.WriteByte('\n'); err != nil {
			return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}

	if err := writer.Flush(); err != nil {
		return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := out.Close(); err != nil {
		return ports.RawStats{}, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	stats := ports.RawStats{Added: added, Total: len(seen)}

	if err := s.writeMeta(dir, repo, stats.Total); err != nil {
		return ports.RawStats{}, err
	}

	return stats, nil
}

// RawReader opens the repo's raw item dump for reading.
func (s *Store) RawReader(repo domain.Repo) (io.ReadCloser, error) {
	rawPath := filepath.Join(s.Dir(repo), domain.RawFileName)

	//nolint:gosec // path is derived from the archive root and a hashed origin
	f, err := os.Open(rawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrRawArchiveMissing, "origin", repo.Origin())
		}
		return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}

	return f, nil
}

// WriteEnriched replaces the repo's enriched item dump and returns how
// many items were written.
func (s *Store) WriteEnriched(repo domain.Repo, items io.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(repo)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	enrichedPath := filepath.Join(dir, domain.EnrichedFileName)

	//nolint:gosec // path is derived from the archive root and a hashed origin
	out, err := os.OpenFile(enrichedPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	defer func() { _ = out.Close() }()

	writer := bufio.NewWriter(out)
	written := 0

	scanner := newLineScanner(items)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if _, err := writer.Write(line); err != nil {
			return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
		}
		if err := writer.WriteByte('\n'); err != nil {
			return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
		}
		written++
	}
	if err := scanner.Err(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}

	if err := writer.Flush(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := out.Close(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	return written, nil
}

// WriteSummary replaces the repo's enrichment summary.
func (s *Store) WriteSummary(repo domain.Repo, summary any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(repo)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	summaryPath := filepath.Join(dir, domain.SummaryFileName)
	if err := os.WriteFile(summaryPath, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	return nil
}

// Dir returns the entry directory for the repo.
func (s *Store) Dir(repo domain.Repo) string {
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(repo.Origin()))
	return filepath.Join(s.root, string(repo.Backend), hash)
}

func (s *Store) writeMeta(dir string, repo domain.Repo, items int) error {
	meta := entryMeta{
		Origin:    repo.Origin(),
		Backend:   string(repo.Backend),
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	metaPath := filepath.Join(dir, domain.MetaFileName)
	if err := os.WriteFile(metaPath, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	return nil
}

// loadItemKeys reads the keys of every item already present in the raw
// dump. A missing dump is an empty entry.
func loadItemKeys(rawPath string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	//nolint:gosec // path is derived from the archive root and a hashed origin
	f, err := os.Open(rawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return seen, nil
		}
		return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}
	defer func() { _ = f.Close() }()

	scanner := newLineScanner(f)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		seen[itemKey(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}

	return seen, nil
}

// itemKey identifies an item by its collector uuid, falling back to a
// content hash for items without one.
func itemKey(line []byte) string {
	var item struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(line, &item); err == nil && item.UUID != "" {
		return "uuid:" + item.UUID
	}
	return fmt.Sprintf("sum:%016x", xxhash.Sum64(line))
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
