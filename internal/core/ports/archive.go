package ports

import (
	"io"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"
)

// RawStats reports the outcome of appending raw items to an archive entry.
type RawStats struct {
	// Added is how many new items this append contributed.
	Added int
	// Total is how many items the entry holds afterwards.
	Total int
}

// Archiver stores gathered and enriched items per repo on local disk.
// Entries are addressed by the repo's origin, so repeated runs of the same
// repo land in the same entry and duplicate items are dropped.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type Archiver interface {
	// AppendRaw reads JSON lines of raw items and appends the ones not
	// seen before for this repo.
	AppendRaw(repo domain.Repo, items io.Reader) (RawStats, error)

	// RawReader opens the repo's raw item dump for reading.
	RawReader(repo domain.Repo) (io.ReadCloser, error)

	// WriteEnriched replaces the repo's enriched item dump with the JSON
	// lines read from items and returns how many were written.
	WriteEnriched(repo domain.Repo, items io.Reader) (int, error)

	// WriteSummary replaces the repo's enrichment summary.
	WriteSummary(repo domain.Repo, summary any) error

	// Dir returns the entry directory for the repo.
	Dir(repo domain.Repo) string
}
