package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// Registry defines the interface for querying package registries.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// IsYanked reports whether the registry withdrew the given package version.
	IsYanked(ctx context.Context, id domain.PackageID) (bool, error)

	// Versions lists every published version of name in the registry behind source.
	Versions(ctx context.Context, name, source string) ([]domain.IndexVersion, error)

	// LockPackageCache acquires the exclusive lock on the local registry state.
	// The returned func releases it.
	LockPackageCache() (func(), error)
}
