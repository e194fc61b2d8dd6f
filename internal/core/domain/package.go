package domain

// Package is the immutable description of a package being published.
// All paths are absolute and all workspace-inherited fields are already resolved.
type Package struct {
	// Name is the package name as published.
	Name string

	// Version is the package version as published.
	Version string

	// Root is the directory containing the manifest.
	Root string

	// ManifestPath is the absolute path of the package's Parcel.toml.
	ManifestPath string

	// WorkspaceRoot is the directory holding the lock document and the target dir.
	// It equals Root for packages outside a workspace.
	WorkspaceRoot string

	// Metadata holds the descriptive fields shown by the registry.
	Metadata Metadata

	// Dependencies lists normal, build, and dev dependencies in manifest order.
	Dependencies []Dependency

	// Include lists glob patterns selecting the files to package.
	Include []string

	// Exclude lists glob patterns removing files from the package.
	// It is ignored when Include is set.
	Exclude []string

	// Binaries lists the executable targets of the package.
	Binaries []Binary

	// Features maps feature names to the features and dependencies they enable.
	Features map[string][]string

	// Build configures the command used to build the package.
	Build BuildSettings

	// Publish lists the registries the package may be published to. Nil means any.
	Publish []string
}

// Metadata describes a package for humans.
type Metadata struct {
	Description   string
	License       string
	LicenseFile   string
	Documentation string
	Homepage      string
	Repository    string
	Readme        string
	Authors       []string
	Keywords      []string
	Categories    []string
}

// Binary is an executable target.
type Binary struct {
	Name string
	Path string
}

// BuildSettings configures how a package is compiled.
type BuildSettings struct {
	// Command is the argv of the build command. Empty means the configured default.
	Command []string

	// Env holds extra environment variables for the build command.
	Env map[string]string
}

// IncludeLockfile reports whether the lock document must be bundled.
// Packages producing executables ship their lock so installs are reproducible.
func (p *Package) IncludeLockfile() bool {
	return len(p.Binaries) > 0
}

// ID returns the identity of the package as a local path package.
func (p *Package) ID() PackageID {
	return PackageID{Name: p.Name, Version: p.Version}
}

// Project is a transient context that dependency resolution and builds operate on.
type Project struct {
	// Package is the root package of the project.
	Package *Package

	// Lock is the previous resolution used as a guide. It may be nil.
	Lock *ResolveGraph

	// TargetDir is where build output goes.
	TargetDir string

	// WorkspaceRoot is where the lock document lives.
	WorkspaceRoot string
}
