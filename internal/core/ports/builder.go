package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// Builder defines the interface for compiling a package.
//
//go:generate go run go.uber.org/mock/mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// Compile builds the project's package with the given options.
	// Build output must stay inside project.TargetDir.
	Compile(ctx context.Context, project *domain.Project, opts domain.CompileOptions) error
}
