package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/config"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/logger"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/shell"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// NodeID is the unique identifier for the components Graft node.
const NodeID graft.ID = "app.components"

// Components contains the initialized application components the CLI
// layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID, shell.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:    New(loader, executor, log),
				Logger: log,
			}, nil
		},
	})
}
