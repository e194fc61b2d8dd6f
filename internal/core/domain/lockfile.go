package domain

import (
	"net/url"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	registrySourcePrefix = "registry+"
	gitSourcePrefix      = "git+"
)

// PackageID identifies a resolved package by name, version, and source.
// An empty Source denotes a local path package.
type PackageID struct {
	Name    string
	Version string
	Source  string
}

// String renders the identity the way it is shown to users.
// Registry sources are left out since the registry is reported separately.
func (id PackageID) String() string {
	s := id.Name + " v" + id.Version
	if id.Source != "" && !IsRegistrySource(id.Source) {
		s += " (" + id.Source + ")"
	}
	return s
}

// Compare orders identities by name, version, then source.
func (id PackageID) Compare(other PackageID) int {
	if c := strings.Compare(id.Name, other.Name); c != 0 {
		return c
	}
	if c := compareVersions(id.Version, other.Version); c != 0 {
		return c
	}
	return strings.Compare(id.Source, other.Source)
}

func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	if c := va.Compare(vb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// RegistrySource returns the source string of a registry index URL.
func RegistrySource(indexURL string) string {
	return registrySourcePrefix + indexURL
}

// GitSource returns the source string of a git repository pinned at rev.
func GitSource(repoURL, rev string) string {
	s := gitSourcePrefix + repoURL
	if rev != "" {
		s += "#" + rev
	}
	return s
}

// IsRegistrySource reports whether source names a registry.
func IsRegistrySource(source string) bool {
	return strings.HasPrefix(source, registrySourcePrefix)
}

// IsGitSource reports whether source names a git repository.
func IsGitSource(source string) bool {
	return strings.HasPrefix(source, gitSourcePrefix)
}

// RegistryURL returns the index URL of a registry source.
func RegistryURL(source string) string {
	return strings.TrimPrefix(source, registrySourcePrefix)
}

// RegistryDisplayName returns the short name of the registry behind source.
func RegistryDisplayName(source string) string {
	raw := RegistryURL(source)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// DisplaySource renders a source for messages. Local path packages show as "path".
func DisplaySource(source string) string {
	if source == "" {
		return "path"
	}
	return source
}

// ResolvedPackage is a node of a resolution graph with its outgoing edges.
type ResolvedPackage struct {
	ID           PackageID
	Dependencies []PackageID
}

// ResolveGraph is the set of packages a resolution selected.
// It is sorted and never changes after construction.
type ResolveGraph struct {
	packages []ResolvedPackage
}

// NewResolveGraph builds a graph from packages. Duplicate identities are merged.
func NewResolveGraph(packages []ResolvedPackage) *ResolveGraph {
	byID := make(map[PackageID]ResolvedPackage, len(packages))
	for _, p := range packages {
		existing, ok := byID[p.ID]
		if !ok {
			existing = ResolvedPackage{ID: p.ID}
		}
		existing.Dependencies = append(existing.Dependencies, p.Dependencies...)
		byID[p.ID] = existing
	}

	out := make([]ResolvedPackage, 0, len(byID))
	for _, p := range byID {
		slices.SortFunc(p.Dependencies, PackageID.Compare)
		p.Dependencies = slices.Compact(p.Dependencies)
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b ResolvedPackage) int {
		return a.ID.Compare(b.ID)
	})

	return &ResolveGraph{packages: out}
}

// Packages returns the nodes of the graph in order.
func (g *ResolveGraph) Packages() []ResolvedPackage {
	if g == nil {
		return nil
	}
	return slices.Clone(g.packages)
}

// IDs returns the identities in the graph in order.
func (g *ResolveGraph) IDs() []PackageID {
	if g == nil {
		return nil
	}
	ids := make([]PackageID, len(g.packages))
	for i, p := range g.packages {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of packages in the graph.
func (g *ResolveGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.packages)
}

// Lookup returns the node with the given identity.
func (g *ResolveGraph) Lookup(id PackageID) (ResolvedPackage, bool) {
	if g == nil {
		return ResolvedPackage{}, false
	}
	i, found := slices.BinarySearchFunc(g.packages, id, func(p ResolvedPackage, target PackageID) int {
		return p.ID.Compare(target)
	})
	if !found {
		return ResolvedPackage{}, false
	}
	return g.packages[i], true
}

// FindByName returns every node with the given name, in version order.
func (g *ResolveGraph) FindByName(name string) []ResolvedPackage {
	if g == nil {
		return nil
	}
	var out []ResolvedPackage
	for _, p := range g.packages {
		if p.ID.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// Difference returns the identities present in a but not in b, in order.
func Difference(a, b *ResolveGraph) []PackageID {
	var out []PackageID
	for _, id := range a.IDs() {
		if _, ok := b.Lookup(id); !ok {
			out = append(out, id)
		}
	}
	return out
}
