// Package domain holds the core entities of the pool scheduler.
package domain

// Backend identifies a target family the scheduler can analyze.
type Backend string

const (
	// BackendGit analyzes plain git repositories by clone URL.
	BackendGit Backend = "git"
	// BackendGitHub analyzes repositories hosted on GitHub or GitHub Enterprise.
	BackendGitHub Backend = "github"
	// BackendGitLab analyzes repositories hosted on GitLab or a GitLab instance.
	BackendGitLab Backend = "gitlab"
)

// Kind identifies one intention kind: a backend family plus the stage
// (raw data gathering or enrichment of previously gathered data).
type Kind string

const (
	// KindGitRaw gathers raw commit data for a git repository.
	KindGitRaw Kind = "git/raw"
	// KindGitEnrich enriches previously gathered git data.
	KindGitEnrich Kind = "git/enrich"
	// KindGitHubRaw gathers raw issue data for a GitHub repository.
	KindGitHubRaw Kind = "github/raw"
	// KindGitHubEnrich enriches previously gathered GitHub data.
	KindGitHubEnrich Kind = "github/enrich"
	// KindGitLabRaw gathers raw issue data for a GitLab repository.
	KindGitLabRaw Kind = "gitlab/raw"
	// KindGitLabEnrich enriches previously gathered GitLab data.
	KindGitLabEnrich Kind = "gitlab/enrich"
)

// KindSpec describes the static scheduling properties of a kind.
type KindSpec struct {
	Kind    Kind
	Backend Backend

	// TokenGated kinds can only be scheduled for users holding a ready
	// token of the kind's backend, and their jobs claim token slots.
	TokenGated bool

	// Previous lists the kinds this kind depends on for the same repo and
	// user. A dependent intention stays blocked until every previous
	// intention has been archived.
	Previous []Kind
}

// kindSpecs is the registry, in scheduling order: raw gathering is offered
// to the dispatcher before enrichment so fresh chains drain front to back.
var kindSpecs = []KindSpec{
	{Kind: KindGitRaw, Backend: BackendGit},
	{Kind: KindGitHubRaw, Backend: BackendGitHub, TokenGated: true},
	{Kind: KindGitLabRaw, Backend: BackendGitLab, TokenGated: true},
	{Kind: KindGitEnrich, Backend: BackendGit, Previous: []Kind{KindGitRaw}},
	{Kind: KindGitHubEnrich, Backend: BackendGitHub, Previous: []Kind{KindGitHubRaw}},
	{Kind: KindGitLabEnrich, Backend: BackendGitLab, Previous: []Kind{KindGitLabRaw}},
}

// Kinds returns every registered kind spec in scheduling order.
func Kinds() []KindSpec {
	specs := make([]KindSpec, len(kindSpecs))
	copy(specs, kindSpecs)
	return specs
}

// KindSpecFor returns the spec for the given kind.
func KindSpecFor(k Kind) (KindSpec, bool) {
	for _, spec := range kindSpecs {
		if spec.Kind == k {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// ParseKind converts a string into a known Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := KindSpecFor(k); !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

// ParseBackend converts a string into a known Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendGit, BackendGitHub, BackendGitLab:
		return b, nil
	default:
		return "", ErrUnknownBackend
	}
}

// RawKind returns the raw-gathering kind of a backend family.
func RawKind(b Backend) Kind {
	return Kind(string(b) + "/raw")
}

// EnrichKind returns the enrichment kind of a backend family.
func EnrichKind(b Backend) Kind {
	return Kind(string(b) + "/enrich")
}

// KindChain returns the kinds an intention of kind k spans, dependencies
// first and k itself last.
func KindChain(k Kind) []Kind {
	seen := make(map[Kind]bool)
	var chain []Kind

	var walk func(Kind)
	walk = func(current Kind) {
		if seen[current] {
			return
		}
		seen[current] = true

		spec, ok := KindSpecFor(current)
		if !ok {
			return
		}
		for _, prev := range spec.Previous {
			walk(prev)
		}
		chain = append(chain, current)
	}
	walk(k)

	return chain
}

// Backend returns the target family of the kind.
func (k Kind) Backend() Backend {
	spec, _ := KindSpecFor(k)
	return spec.Backend
}

// TokenGated reports whether jobs of this kind require a ready token.
func (k Kind) TokenGated() bool {
	spec, _ := KindSpecFor(k)
	return spec.TokenGated
}
