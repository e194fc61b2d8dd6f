package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// DependencyKind tells when a dependency is needed.
type DependencyKind int

const (
	// DependencyNormal is needed to build and use the package.
	DependencyNormal DependencyKind = iota
	// DependencyBuild is needed by the build command only.
	DependencyBuild
	// DependencyDev is needed for tests and examples only.
	DependencyDev
)

// String returns the manifest table name of the kind.
func (k DependencyKind) String() string {
	switch k {
	case DependencyBuild:
		return "build"
	case DependencyDev:
		return "dev"
	default:
		return "normal"
	}
}

// ParseDependencyKind maps a registry index kind back to a DependencyKind.
func ParseDependencyKind(s string) DependencyKind {
	switch s {
	case "build":
		return DependencyBuild
	case "dev":
		return DependencyDev
	default:
		return DependencyNormal
	}
}

// SourceKind tells where a dependency comes from.
type SourceKind int

const (
	// SourceRegistry is a dependency fetched from a registry.
	SourceRegistry SourceKind = iota
	// SourcePath is a dependency on a local directory.
	SourcePath
	// SourceGit is a dependency on a git repository.
	SourceGit
)

// Dependency is a dependency declared in a manifest.
type Dependency struct {
	// Name is the key used in the manifest.
	Name string

	// Package is the real package name when the dependency is renamed.
	Package string

	// Kind tells when the dependency is needed.
	Kind DependencyKind

	// Source tells where the dependency comes from.
	Source SourceKind

	// Requirement is the version requirement. Empty means none was written.
	Requirement string

	// Path is the absolute directory of a path dependency.
	Path string

	// Git is the repository URL of a git dependency.
	Git    string
	Rev    string
	Branch string
	Tag    string

	// Registry is the index URL of a registry dependency. Empty means the default registry.
	Registry string

	Features        []string
	Optional        bool
	DefaultFeatures bool
}

// PackageName returns the name the dependency is published under.
func (d Dependency) PackageName() string {
	if d.Package != "" {
		return d.Package
	}
	return d.Name
}

// IsTransitive reports whether consumers of the package need this dependency.
func (d Dependency) IsTransitive() bool {
	return d.Kind != DependencyDev
}

// SpecifiedRequirement reports whether a version requirement was written.
func (d Dependency) SpecifiedRequirement() bool {
	return d.Requirement != ""
}

// NormalizeRequirement returns the canonical spelling of a version requirement.
// A bare version such as "1.2" means "compatible with 1.2" and gains a caret.
// An empty requirement matches any version.
func NormalizeRequirement(req string) string {
	req = strings.TrimSpace(req)
	switch {
	case req == "":
		return "*"
	case req[0] >= '0' && req[0] <= '9':
		return "^" + req
	default:
		return req
	}
}

// ParseRequirement parses a version requirement after normalizing it.
func ParseRequirement(req string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(NormalizeRequirement(req))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidRequirement.Error()), "requirement", req)
	}
	return c, nil
}
