package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// Fingerprinter defines the interface for hashing a directory tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint hashes every path under root. The build output directory
	// directly below root is left out.
	Fingerprint(ctx context.Context, root string) (domain.Fingerprint, error)
}
