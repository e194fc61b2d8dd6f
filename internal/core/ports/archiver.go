package ports

import (
	"io"

	"go.trai.ch/parcel/internal/core/domain"
)

// RenderFunc produces the content of a generated archive entry.
type RenderFunc func(entry domain.ArchiveEntry) ([]byte, error)

// Archiver defines the interface for writing and unpacking package archives.
//
//go:generate go run go.uber.org/mock/mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Write streams entries into dst as a compressed archive with every entry
	// nested under prefix. Generated entries are materialized with render.
	// It returns the total uncompressed size of the entries.
	Write(dst io.Writer, filename, prefix string, entries []domain.ArchiveEntry, render RenderFunc) (int64, error)

	// Unpack extracts the archive read from src into dir.
	Unpack(src io.Reader, dir string) error
}
