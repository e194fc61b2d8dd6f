package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the settings Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[*domain.Settings]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*domain.Settings, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
			}
			return Load(cwd)
		},
	})
}
