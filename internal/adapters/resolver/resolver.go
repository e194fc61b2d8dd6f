// Package resolver selects a version for every dependency of a project.
// It follows the existing lock document and otherwise takes the newest
// matching version from the registry index. It never backtracks.
package resolver

import (
	"cmp"
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver implements ports.Resolver.
type Resolver struct {
	manifests       ports.ManifestService
	registry        ports.Registry
	defaultRegistry string
	logger          ports.Logger
}

// NewResolver creates a new Resolver. Registry dependencies without an explicit
// registry are looked up in defaultRegistry.
func NewResolver(
	manifests ports.ManifestService,
	registry ports.Registry,
	defaultRegistry string,
	logger ports.Logger,
) *Resolver {
	return &Resolver{
		manifests:       manifests,
		registry:        registry,
		defaultRegistry: defaultRegistry,
		logger:          logger,
	}
}

// item is a selected package whose outgoing edges are still to be computed.
// Exactly one of deps and locked describes them.
type item struct {
	id domain.PackageID

	// deps are the declared dependencies of the package.
	deps []domain.Dependency
	// allKinds keeps dev dependencies, which only the root contributes.
	allKinds bool
	// registry is the registry URL that index dependencies without one refer to.
	registry string

	// locked is the lock entry the package was taken from.
	locked *domain.ResolvedPackage
}

// session holds the state of a single resolution.
type session struct {
	*Resolver
	lock     *domain.ResolveGraph
	edges    map[domain.PackageID][]domain.PackageID
	selected map[string][]domain.PackageID
	queue    []item
}

// Resolve computes the resolution graph of project, using project.Lock as a guide.
func (r *Resolver) Resolve(ctx context.Context, project *domain.Project) (*domain.ResolveGraph, error) {
	s := &session{
		Resolver: r,
		lock:     project.Lock,
		edges:    make(map[domain.PackageID][]domain.PackageID),
		selected: make(map[string][]domain.PackageID),
	}

	root := project.Package
	s.push(item{id: root.ID(), deps: root.Dependencies, allKinds: true, registry: r.defaultRegistry})

	for len(s.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := s.queue[0]
		s.queue = s.queue[1:]
		if _, done := s.edges[next.id]; done {
			continue
		}

		children, err := s.expand(ctx, next)
		if err != nil {
			return nil, err
		}
		s.edges[next.id] = children
	}

	packages := make([]domain.ResolvedPackage, 0, len(s.edges))
	for id, deps := range s.edges {
		packages = append(packages, domain.ResolvedPackage{ID: id, Dependencies: deps})
	}
	return domain.NewResolveGraph(packages), nil
}

func (s *session) push(it item) {
	if _, done := s.edges[it.id]; done {
		return
	}
	if !slices.Contains(s.selected[it.id.Name], it.id) {
		s.selected[it.id.Name] = append(s.selected[it.id.Name], it.id)
	}
	s.queue = append(s.queue, it)
}

func (s *session) expand(ctx context.Context, it item) ([]domain.PackageID, error) {
	if it.locked != nil {
		return s.expandLocked(it), nil
	}

	children := make([]domain.PackageID, 0, len(it.deps))
	for _, dep := range it.deps {
		if !it.allKinds && !dep.IsTransitive() {
			continue
		}
		child, err := s.selectDependency(ctx, dep, it.registry)
		if err != nil {
			return nil, err
		}
		children = append(children, child.id)
		s.push(child)
	}
	return children, nil
}

// expandLocked follows the edges recorded in the lock document.
// Locked path packages below a registry package are re-sourced to its registry.
func (s *session) expandLocked(it item) []domain.PackageID {
	children := make([]domain.PackageID, 0, len(it.locked.Dependencies))
	for _, lockedID := range it.locked.Dependencies {
		child := lockedID
		if child.Source == "" && domain.IsRegistrySource(it.id.Source) {
			child.Source = it.id.Source
		}
		children = append(children, child)

		entry, ok := s.lock.Lookup(lockedID)
		if !ok {
			s.push(item{id: child})
			continue
		}
		s.push(item{id: child, locked: &entry})
	}
	return children
}

func (s *session) selectDependency(ctx context.Context, dep domain.Dependency, parentRegistry string) (item, error) {
	switch dep.Source {
	case domain.SourcePath:
		return s.selectPath(dep)
	case domain.SourceGit:
		return s.selectGit(dep)
	default:
		return s.selectRegistry(ctx, dep, parentRegistry)
	}
}

func (s *session) selectPath(dep domain.Dependency) (item, error) {
	pkg, err := s.manifests.Load(filepath.Join(dep.Path, domain.ManifestFileName))
	if err != nil {
		return item{}, zerr.With(err, "dependency", dep.Name)
	}
	if pkg.Name != dep.PackageName() {
		return item{}, unresolved(dep, "path", dep.Path)
	}
	return item{id: pkg.ID(), deps: pkg.Dependencies, registry: s.defaultRegistry}, nil
}

func (s *session) selectGit(dep domain.Dependency) (item, error) {
	prefix := domain.GitSource(dep.Git, "")
	for _, entry := range s.lock.FindByName(dep.PackageName()) {
		if entry.ID.Source == prefix || strings.HasPrefix(entry.ID.Source, prefix+"#") {
			return item{id: entry.ID, locked: &entry}, nil
		}
	}
	return item{}, unresolved(dep, "git", dep.Git)
}

func (s *session) selectRegistry(ctx context.Context, dep domain.Dependency, parentRegistry string) (item, error) {
	registryURL := cmp.Or(dep.Registry, parentRegistry, s.defaultRegistry)
	source := domain.RegistrySource(registryURL)
	name := dep.PackageName()

	req, err := domain.ParseRequirement(dep.Requirement)
	if err != nil {
		return item{}, zerr.With(err, "dependency", dep.Name)
	}

	// A package selected earlier in this run is reused when it fits.
	if id, ok := highestMatching(s.selected[name], req, func(id domain.PackageID) bool {
		return id.Source == source
	}); ok {
		return item{id: id}, nil
	}

	if entry, ok := s.fromLock(name, source, req); ok {
		id := entry.ID
		id.Source = source
		s.logger.Debug("Locking " + id.String() + " from " + domain.DisplaySource(entry.ID.Source))
		return item{id: id, locked: &entry}, nil
	}

	versions, err := s.registry.Versions(ctx, name, source)
	if err != nil {
		return item{}, zerr.With(zerr.Wrap(err, domain.ErrUnresolvedDependency.Error()), "dependency", dep.Name)
	}

	var best *domain.IndexVersion
	var bestVersion *semver.Version
	for i := range versions {
		if versions[i].Yanked {
			continue
		}
		v, err := semver.NewVersion(versions[i].Version)
		if err != nil || !req.Check(v) {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = &versions[i], v
		}
	}
	if best == nil {
		return item{}, unresolved(dep, "registry", registryURL)
	}

	id := domain.PackageID{Name: name, Version: best.Version, Source: source}
	s.logger.Debug("Selecting " + id.String() + " from " + registryURL)
	return item{id: id, deps: best.Dependencies, registry: registryURL}, nil
}

// fromLock returns the highest lock entry named name whose version satisfies req.
// Entries from source win over entries from other registries or local paths.
func (s *session) fromLock(name, source string, req *semver.Constraints) (domain.ResolvedPackage, bool) {
	candidates := s.lock.FindByName(name)
	candidates = slices.DeleteFunc(candidates, func(p domain.ResolvedPackage) bool {
		return domain.IsGitSource(p.ID.Source)
	})

	for _, sameSource := range []bool{true, false} {
		ids := make([]domain.PackageID, 0, len(candidates))
		for _, c := range candidates {
			if (c.ID.Source == source) == sameSource {
				ids = append(ids, c.ID)
			}
		}
		if id, ok := highestMatching(ids, req, nil); ok {
			entry, _ := s.lock.Lookup(id)
			return entry, true
		}
	}
	return domain.ResolvedPackage{}, false
}

func highestMatching(ids []domain.PackageID, req *semver.Constraints, keep func(domain.PackageID) bool) (domain.PackageID, bool) {
	var best domain.PackageID
	var bestVersion *semver.Version
	for _, id := range ids {
		if keep != nil && !keep(id) {
			continue
		}
		v, err := semver.NewVersion(id.Version)
		if err != nil || !req.Check(v) {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = id, v
		}
	}
	return best, bestVersion != nil
}

func unresolved(dep domain.Dependency, kind, location string) error {
	err := zerr.With(domain.ErrUnresolvedDependency, "dependency", dep.Name)
	err = zerr.With(err, "requirement", domain.NormalizeRequirement(dep.Requirement))
	return zerr.With(err, kind, location)
}
