package ports

import "go.trai.ch/parcel/internal/core/domain"

// SourceLister defines the interface for listing the source files of a package.
//
//go:generate go run go.uber.org/mock/mockgen -source=source_lister.go -destination=mocks/mock_source_lister.go -package=mocks
type SourceLister interface {
	// ListFiles returns the absolute paths of the files to package, sorted.
	// Paths for which ignore reports true are skipped.
	ListFiles(pkg *domain.Package, ignore domain.IgnoreFunc) ([]string, error)
}
