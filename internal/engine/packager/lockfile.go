package packager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// buildLock regenerates the lock document for the manifest as it will be published.
func (p *Packager) buildLock(ctx context.Context, pkg *domain.Package, targetDir string) (string, error) {
	orig, err := p.manifests.LoadLock(filepath.Join(pkg.WorkspaceRoot, domain.LockFileName))
	if err != nil {
		return "", err
	}

	published, err := p.manifests.PrepareForPublish(pkg)
	if err != nil {
		return "", err
	}

	graph, err := p.resolver.Resolve(ctx, &domain.Project{
		Package:       published,
		Lock:          orig,
		TargetDir:     targetDir,
		WorkspaceRoot: pkg.WorkspaceRoot,
	})
	if err != nil {
		return "", err
	}

	if orig != nil {
		p.compareResolve(pkg, orig, graph)
	}
	if err := p.checkYanked(ctx, graph); err != nil {
		return "", err
	}

	return p.manifests.SerializeLock(graph)
}

// compareResolve explains at debug level every package the regenerated lock added.
func (p *Packager) compareResolve(pkg *domain.Package, orig, next *domain.ResolveGraph) {
	removed := domain.Difference(orig, next)

	for _, id := range domain.Difference(next, orig) {
		if id.Name == pkg.Name && id.Version == pkg.Version {
			continue
		}

		var sameVersion []string
		var otherVersions []string
		for _, old := range removed {
			if old.Name != id.Name {
				continue
			}
			if old.Version == id.Version {
				sameVersion = append(sameVersion, quote(domain.DisplaySource(old.Source)))
			} else {
				otherVersions = append(otherVersions, quote(old.Version))
			}
		}

		var extra string
		switch {
		case len(sameVersion) == 1:
			extra = ", was originally sourced from " + sameVersion[0]
		case len(sameVersion) > 1:
			extra = ", was originally sourced from one of these sources: " + strings.Join(sameVersion, ", ")
		case len(otherVersions) == 1:
			extra = ", previous version was " + otherVersions[0]
		case len(otherVersions) > 1:
			extra = ", previous versions were: " + strings.Join(otherVersions, ", ")
		}

		p.logger.Debug(fmt.Sprintf("package `%s` added to the packaged %s file%s", id, domain.LockFileName, extra))
	}
}

// checkYanked warns about every registry package the registry withdrew.
// The package cache lock is held for the whole loop.
func (p *Packager) checkYanked(ctx context.Context, graph *domain.ResolveGraph) error {
	unlock, err := p.registry.LockPackageCache()
	if err != nil {
		return err
	}
	defer unlock()

	for _, id := range graph.IDs() {
		if !domain.IsRegistrySource(id.Source) {
			continue
		}
		yanked, err := p.registry.IsYanked(ctx, id)
		if err != nil {
			return zerr.With(err, "package", id.String())
		}
		if yanked {
			p.logger.Warn(fmt.Sprintf(
				"package `%s` in %s is yanked in registry `%s`, consider updating to a version that is not yanked",
				id, domain.LockFileName, domain.RegistryDisplayName(id.Source),
			))
		}
	}
	return nil
}

func quote(s string) string {
	return "`" + s + "`"
}
