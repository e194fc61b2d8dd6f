package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// Resolver defines the interface for resolving the dependency graph of a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve selects a version for every dependency reachable from the project's package.
	// The project's lock, when set, guides the selection.
	Resolve(ctx context.Context, project *domain.Project) (*domain.ResolveGraph, error)
}
