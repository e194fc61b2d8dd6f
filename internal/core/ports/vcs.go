package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// VersionControl defines the interface for inspecting the repository a package lives in.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type VersionControl interface {
	// CheckRepoState reports the revision the files were committed at.
	// It returns an empty revision when the package is not under version control
	// or when dirty files were tolerated. Dirty files fail unless allowDirty is set.
	CheckRepoState(ctx context.Context, pkg *domain.Package, files []string, allowDirty bool) (string, error)

	// IgnoreFunc returns the ignore rules of the repository holding root.
	// Outside a repository nothing is ignored.
	IgnoreFunc(root string) (domain.IgnoreFunc, error)
}
