package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parcel/internal/adapters/config"
	"go.trai.ch/parcel/internal/adapters/logger"
	"go.trai.ch/parcel/internal/adapters/manifest"
	"go.trai.ch/parcel/internal/adapters/registry"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "adapter.resolver"

func init() {
	graft.Register(graft.Node[ports.Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{manifest.NodeID, registry.NodeID, config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Resolver, error) {
			manifests, err := graft.Dep[ports.ManifestService](ctx)
			if err != nil {
				return nil, err
			}
			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(manifests, reg, settings.RegistryURL, log), nil
		},
	})
}
