// Package app implements the application layer for parcel.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/engine/packager"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	manifests ports.ManifestService
	packager  *packager.Packager
	logger    ports.Logger
	getwd     func() (string, error)
}

// PackageOptions configures the package command.
type PackageOptions struct {
	// ManifestPath selects the package. Empty means the nearest Parcel.toml
	// in the working directory or one of its parents.
	ManifestPath string

	domain.PackageOptions
}

// verboser is implemented by loggers whose console level can be lowered.
type verboser interface {
	SetVerbose(enable bool)
}

// New creates a new App instance.
func New(manifests ports.ManifestService, pkgr *packager.Packager, log ports.Logger) *App {
	return &App{
		manifests: manifests,
		packager:  pkgr,
		logger:    log,
		getwd:     os.Getwd,
	}
}

// WithWorkingDir makes the App search for manifests starting at dir.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Package assembles the archive of the selected package.
func (a *App) Package(ctx context.Context, opts PackageOptions) (*packager.Result, error) {
	if v, ok := a.logger.(verboser); ok {
		v.SetVerbose(opts.Verbose)
	}

	path, err := a.locateManifest(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	pkg, err := a.manifests.Load(path)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return a.packager.Package(ctx, pkg, opts.PackageOptions)
}

func (a *App) locateManifest(path string) (string, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrManifestNotFound.Error()), "path", path)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			abs = filepath.Join(abs, domain.ManifestFileName)
		}
		return abs, nil
	}

	wd, err := a.getwd()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrManifestNotFound.Error())
	}
	for dir := wd; ; {
		candidate := filepath.Join(dir, domain.ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrManifestNotFound, "path", wd)
		}
		dir = parent
	}
}
