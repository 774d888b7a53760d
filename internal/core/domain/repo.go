package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultGitHubEndpoint is the API host used when a GitHub repo does
	// not name an enterprise instance.
	DefaultGitHubEndpoint = "https://github.com"

	// DefaultGitLabEndpoint is the API host used when a GitLab repo does
	// not name a self-hosted instance.
	DefaultGitLabEndpoint = "https://gitlab.com"
)

// Repo identifies one analyzable target. Git repos carry only a clone URL;
// GitHub and GitLab repos carry owner, name, and the instance endpoint,
// with Endpoint defaulting to the public host.
type Repo struct {
	ID      int64
	Backend Backend

	// URL is the clone URL. Set for git repos only.
	URL string

	// Owner and Name locate the project on a forge. Set for github and
	// gitlab repos only.
	Owner string
	Name  string

	// Endpoint is the forge instance base URL for github and gitlab repos.
	Endpoint string

	CreatedAt time.Time
}

// DefaultEndpoint returns the public instance endpoint of a backend,
// or an empty string for backends without one.
func DefaultEndpoint(b Backend) string {
	switch b {
	case BackendGitHub:
		return DefaultGitHubEndpoint
	case BackendGitLab:
		return DefaultGitLabEndpoint
	default:
		return ""
	}
}

// Origin returns the canonical identity of the repo used for archive
// addressing and display. Git repos are identified by clone URL, forge
// repos by endpoint, owner, and name.
func (r Repo) Origin() string {
	if r.Backend == BackendGit {
		return r.URL
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(r.Endpoint, "/"), r.Owner, r.Name)
}

// Slug returns a short human label for the repo.
func (r Repo) Slug() string {
	if r.Backend == BackendGit {
		return r.URL
	}
	return r.Owner + "/" + r.Name
}
