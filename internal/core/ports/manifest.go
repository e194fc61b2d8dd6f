package ports

import "go.trai.ch/parcel/internal/core/domain"

// ManifestService defines the interface for reading and writing package manifests and lock documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestService interface {
	// Load reads the manifest at path and resolves workspace inheritance.
	// It returns domain.ErrVirtualManifest when the manifest only declares a workspace.
	Load(path string) (*domain.Package, error)

	// PrepareForPublish returns the package as consumers will see it:
	// path and git locations are dropped and unpinned dev dependencies are removed.
	PrepareForPublish(pkg *domain.Package) (*domain.Package, error)

	// RewriteForDistribution renders the manifest that is placed in the archive.
	RewriteForDistribution(pkg *domain.Package) (string, error)

	// LoadLock reads the lock document at path.
	// Returns nil, nil if the file does not exist.
	LoadLock(path string) (*domain.ResolveGraph, error)

	// SerializeLock renders a resolution graph as a lock document.
	SerializeLock(graph *domain.ResolveGraph) (string, error)
}
