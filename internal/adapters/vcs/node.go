package vcs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parcel/internal/adapters/logger"
	"go.trai.ch/parcel/internal/core/ports"
)

// NodeID is the unique identifier for the VCS checker Graft node.
const NodeID graft.ID = "adapter.vcs"

func init() {
	graft.Register(graft.Node[ports.VersionControl]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.VersionControl, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewChecker(log), nil
		},
	})
}
