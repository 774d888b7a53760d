// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/config"
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/logger"
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/shell"
	// Register store drivers.
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/mariadb"
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/memstore"
	// Register app nodes.
	_ "github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
)
