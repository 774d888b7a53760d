package memstore

import (
	"context"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// DriverName is how the memory store is selected in the configuration.
const DriverName = "memory"

type driver struct{}

func init() {
	ports.RegisterStoreDriver(DriverName, driver{})
}

// Open returns a memory store. An empty DSN means a fresh volatile
// store; otherwise the DSN is the path of a JSON snapshot the pool is
// read from on open and written back to on close, which lets separate
// CLI invocations hand the pool to each other.
func (driver) Open(_ context.Context, cfg ports.StoreConfig, log ports.Logger) (ports.Store, error) {
	if cfg.DSN != "" {
		log.Debug("opening snapshot store at " + cfg.DSN)
		return OpenFile(cfg.DSN)
	}
	log.Debug("opened in-memory store")
	return New(), nil
}
