// Package packager implements the publication pipeline that turns a package
// source tree into a verified archive.
package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// Packager assembles package archives.
type Packager struct {
	manifests     ports.ManifestService
	resolver      ports.Resolver
	registry      ports.Registry
	builder       ports.Builder
	vcs           ports.VersionControl
	lister        ports.SourceLister
	fingerprinter ports.Fingerprinter
	archiver      ports.Archiver
	telemetry     ports.Telemetry
	logger        ports.Logger
}

// Result describes the outcome of a packaging run.
type Result struct {
	// Entries lists the archive entries in archive order.
	Entries []domain.ArchiveEntry

	// Path is the published archive. It is empty when only listing.
	Path string

	// Size is the uncompressed size of all entries.
	Size int64

	// CompressedSize is the size of the archive on disk.
	CompressedSize int64
}

// New creates a Packager from its collaborators.
func New(
	manifests ports.ManifestService,
	resolver ports.Resolver,
	registry ports.Registry,
	builder ports.Builder,
	vcs ports.VersionControl,
	lister ports.SourceLister,
	fingerprinter ports.Fingerprinter,
	archiver ports.Archiver,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Packager {
	return &Packager{
		manifests:     manifests,
		resolver:      resolver,
		registry:      registry,
		builder:       builder,
		vcs:           vcs,
		lister:        lister,
		fingerprinter: fingerprinter,
		archiver:      archiver,
		telemetry:     telemetry,
		logger:        logger,
	}
}

// Package runs the pipeline for pkg. Stages run in order and the first
// failure aborts the rest. The archive only appears under its public name
// once every stage succeeded.
func (p *Packager) Package(ctx context.Context, pkg *domain.Package, opts domain.PackageOptions) (*Result, error) {
	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = filepath.Join(pkg.WorkspaceRoot, domain.TargetDirName)
	}

	if err := p.resolveExisting(ctx, pkg, targetDir); err != nil {
		return nil, err
	}

	if opts.CheckMetadata {
		p.checkMetadata(pkg)
	}
	if len(pkg.Include) > 0 && len(pkg.Exclude) > 0 {
		p.logger.Warn("both package.include and package.exclude are specified; the exclude list will be ignored")
	}

	ignore, err := p.vcs.IgnoreFunc(pkg.Root)
	if err != nil {
		return nil, err
	}
	files, err := p.lister.ListFiles(pkg, ignore)
	if err != nil {
		return nil, err
	}

	revision, err := p.vcs.CheckRepoState(ctx, pkg, files, opts.AllowDirty)
	if err != nil {
		return nil, err
	}

	entries, err := p.buildArchiveList(pkg, files, revision)
	if err != nil {
		return nil, err
	}
	if opts.List {
		return &Result{Entries: entries}, nil
	}

	if err := verifyDependencies(pkg); err != nil {
		return nil, err
	}

	return p.writeArchive(ctx, pkg, entries, targetDir, opts)
}

// resolveExisting resolves the project against its current lock so a stale
// lock fails before anything is written.
func (p *Packager) resolveExisting(ctx context.Context, pkg *domain.Package, targetDir string) error {
	lockPath := filepath.Join(pkg.WorkspaceRoot, domain.LockFileName)
	if _, err := os.Stat(lockPath); err != nil {
		return nil //nolint:nilerr // no lock means nothing to check
	}

	lock, err := p.manifests.LoadLock(lockPath)
	if err != nil {
		return err
	}
	_, err = p.resolver.Resolve(ctx, &domain.Project{
		Package:       pkg,
		Lock:          lock,
		TargetDir:     targetDir,
		WorkspaceRoot: pkg.WorkspaceRoot,
	})
	return err
}

func (p *Packager) writeArchive(
	ctx context.Context, pkg *domain.Package, entries []domain.ArchiveEntry, targetDir string, opts domain.PackageOptions,
) (*Result, error) {
	outDir := domain.PackageOutputPath(targetDir)
	if err := os.MkdirAll(outDir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", outDir)
	}

	filename := domain.ArchiveName(pkg.Name, pkg.Version)
	tmpPath := filepath.Join(outDir, "."+filename)
	dstPath := filepath.Join(outDir, filename)

	f, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", tmpPath)
	}
	defer func() { _ = f.Close() }()

	p.logger.Status("Packaging", fmt.Sprintf("%s (%s)", pkg.ID(), pkg.Root))
	var size int64
	err = p.stage(ctx, "package "+pkg.ID().String(), func(ctx context.Context) error {
		var werr error
		size, werr = p.archiver.Write(f, filename, domain.ArchiveBaseDir(pkg.Name, pkg.Version), entries, p.render(ctx, pkg, targetDir))
		return werr
	})
	if err != nil {
		return nil, err
	}

	if opts.Verify {
		p.logger.Status("Verifying", pkg.ID().String())
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrVerifyFailed.Error()), "path", tmpPath)
		}
		err := p.stage(ctx, "verify "+pkg.ID().String(), func(ctx context.Context) error {
			return p.runVerify(ctx, pkg, f, outDir, opts)
		})
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrVerifyFailed.Error())
		}
	}

	info, err := f.Stat()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", tmpPath)
	}
	if err := f.Close(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", tmpPath)
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveRenameFailed.Error()), "path", dstPath)
	}

	p.logger.Status("Packaged", fmt.Sprintf(
		"%d files, %s (%s compressed)",
		len(entries), units.BytesSize(float64(size)), units.BytesSize(float64(info.Size())),
	))

	return &Result{
		Entries:        entries,
		Path:           dstPath,
		Size:           size,
		CompressedSize: info.Size(),
	}, nil
}

// stage runs fn inside a recorded vertex.
func (p *Packager) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, vertex := p.telemetry.Record(ctx, name)
	err := fn(ctx)
	vertex.Complete(err)
	return err
}

// render materializes generated entries while the archive is written.
func (p *Packager) render(ctx context.Context, pkg *domain.Package, targetDir string) ports.RenderFunc {
	return func(entry domain.ArchiveEntry) ([]byte, error) {
		switch entry.Generated.Kind {
		case domain.GeneratedManifest:
			text, err := p.manifests.RewriteForDistribution(entry.Generated.Package)
			return []byte(text), err
		case domain.GeneratedLock:
			text, err := p.buildLock(ctx, pkg, targetDir)
			return []byte(text), err
		case domain.GeneratedVcsInfo:
			return []byte(entry.Generated.Text), nil
		default:
			return nil, zerr.With(domain.ErrArchiveWriteFailed, "path", entry.RelPath)
		}
	}
}
