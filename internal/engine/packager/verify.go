package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// verifyDependencies rejects path dependencies consumers could not resolve.
func verifyDependencies(pkg *domain.Package) error {
	for _, dep := range pkg.Dependencies {
		if dep.Source == domain.SourcePath && !dep.SpecifiedRequirement() && dep.IsTransitive() {
			return zerr.With(fmt.Errorf(
				"%w.\ndependency `%s` does not specify a version.", domain.ErrUnpinnedPathDependency, dep.Name,
			), "dependency", dep.Name)
		}
	}
	return nil
}

// runVerify unpacks the archive next to it, builds the unpacked package, and
// fails if the build touched anything outside its target directory.
func (p *Packager) runVerify(
	ctx context.Context, pkg *domain.Package, archive io.Reader, outDir string, opts domain.PackageOptions,
) error {
	dst := filepath.Join(outDir, domain.ArchiveBaseDir(pkg.Name, pkg.Version))
	if err := os.RemoveAll(dst); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveUnpackFailed.Error()), "path", dst)
	}
	if err := p.archiver.Unpack(archive, outDir); err != nil {
		return err
	}

	before, err := p.fingerprinter.Fingerprint(ctx, dst)
	if err != nil {
		return err
	}

	unpacked, err := p.manifests.Load(filepath.Join(dst, domain.ManifestFileName))
	if err != nil {
		return err
	}

	project := &domain.Project{
		Package:       unpacked,
		TargetDir:     filepath.Join(dst, domain.TargetDirName),
		WorkspaceRoot: dst,
	}
	if err := p.builder.Compile(ctx, project, domain.CompileOptions{
		Jobs:              opts.Jobs,
		Targets:           opts.Targets,
		Features:          opts.Features,
		AllFeatures:       opts.AllFeatures,
		NoDefaultFeatures: opts.NoDefaultFeatures,
		Mode:              domain.CompileModeBuild,
	}); err != nil {
		return err
	}

	after, err := p.fingerprinter.Fingerprint(ctx, dst)
	if err != nil {
		return err
	}

	if !before.Equal(after) {
		return zerr.With(fmt.Errorf(
			"%w. Build commands should not modify anything outside of the target directory.\n%s\n\n"+
				"To proceed despite this, pass the `--no-verify` flag.",
			domain.ErrSourceModified, domain.ReportDifference(before, after),
		), "path", dst)
	}
	return nil
}
