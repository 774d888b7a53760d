package ports

import "github.com/jjmerchante/cauldron-pool-scheduler/internal/core/domain"

// ConfigLoader defines the interface for loading the scheduler configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves settings starting from the given working directory:
	// the nearest poolsched.yaml walking up from cwd (optional),
	// environment overrides, then defaults.
	Load(cwd string) (domain.Settings, error)

	// LoadFile resolves settings from an explicit configuration file.
	// The file must exist.
	LoadFile(path string) (domain.Settings, error)
}
