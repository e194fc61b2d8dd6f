package packager

import (
	"context"
	"io"

	"go.trai.ch/parcel/internal/core/domain"
)

// MissingMetadata exposes missingMetadata for testing.
var MissingMetadata = missingMetadata

// VerifyDependencies exposes verifyDependencies for testing.
var VerifyDependencies = verifyDependencies

// BuildArchiveList exposes buildArchiveList for testing.
func (p *Packager) BuildArchiveList(pkg *domain.Package, files []string, revision string) ([]domain.ArchiveEntry, error) {
	return p.buildArchiveList(pkg, files, revision)
}

// BuildLock exposes buildLock for testing.
func (p *Packager) BuildLock(ctx context.Context, pkg *domain.Package, targetDir string) (string, error) {
	return p.buildLock(ctx, pkg, targetDir)
}

// CompareResolve exposes compareResolve for testing.
func (p *Packager) CompareResolve(pkg *domain.Package, orig, next *domain.ResolveGraph) {
	p.compareResolve(pkg, orig, next)
}

// CheckYanked exposes checkYanked for testing.
func (p *Packager) CheckYanked(ctx context.Context, graph *domain.ResolveGraph) error {
	return p.checkYanked(ctx, graph)
}

// RunVerify exposes runVerify for testing.
func (p *Packager) RunVerify(
	ctx context.Context, pkg *domain.Package, archive io.Reader, outDir string, opts domain.PackageOptions,
) error {
	return p.runVerify(ctx, pkg, archive, outDir, opts)
}
