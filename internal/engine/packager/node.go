package packager

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parcel/internal/adapters/archive"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/manifest"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/resolver"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/adapters/vcs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/parcel/internal/core/ports"
)

// NodeID is the unique identifier for the packager Graft node.
const NodeID graft.ID = "engine.packager"

func init() {
	graft.Register(graft.Node[*Packager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			resolver.NodeID,
			registry.NodeID,
			shell.NodeID,
			vcs.NodeID,
			fs.SourceListerNodeID,
			fs.FingerprinterNodeID,
			archive.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Packager, error) {
	manifests, err := graft.Dep[ports.ManifestService](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[ports.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[ports.Registry](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[ports.Builder](ctx)
	if err != nil {
		return nil, err
	}

	vc, err := graft.Dep[ports.VersionControl](ctx)
	if err != nil {
		return nil, err
	}

	lister, err := graft.Dep[ports.SourceLister](ctx)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	archiver, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, res, reg, builder, vc, lister, fingerprinter, archiver, tel, log), nil
}
