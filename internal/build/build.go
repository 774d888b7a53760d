// Package build holds build time metadata injected through ldflags.
package build

var (
	// Version is the release version of the binary.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
