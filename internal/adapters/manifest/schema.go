package manifest

// Document is the on-disk shape of Parcel.toml.
// Fields that may be inherited from a workspace are decoded loosely and resolved afterwards.
type Document struct {
	Package           *PackageDTO         `toml:"package"`
	Dependencies      map[string]any      `toml:"dependencies"`
	BuildDependencies map[string]any      `toml:"build-dependencies"`
	DevDependencies   map[string]any      `toml:"dev-dependencies"`
	Features          map[string][]string `toml:"features"`
	Bin               []BinaryDTO         `toml:"bin"`
	Build             *BuildDTO           `toml:"build"`
	Workspace         *WorkspaceDTO       `toml:"workspace"`
}

// PackageDTO is the [package] table. Every field except name accepts { workspace = true }.
type PackageDTO struct {
	Name          string   `toml:"name"`
	Version       any      `toml:"version"`
	Description   any      `toml:"description"`
	License       any      `toml:"license"`
	LicenseFile   any      `toml:"license-file"`
	Documentation any      `toml:"documentation"`
	Homepage      any      `toml:"homepage"`
	Repository    any      `toml:"repository"`
	Readme        any      `toml:"readme"`
	Authors       any      `toml:"authors"`
	Keywords      any      `toml:"keywords"`
	Categories    any      `toml:"categories"`
	Publish       any      `toml:"publish"`
	Include       []string `toml:"include"`
	Exclude       []string `toml:"exclude"`
}

// BinaryDTO is a [[bin]] entry.
type BinaryDTO struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// BuildDTO is the [build] table.
type BuildDTO struct {
	Command []string          `toml:"command"`
	Env     map[string]string `toml:"env"`
}

// WorkspaceDTO is the [workspace] table of a workspace root.
type WorkspaceDTO struct {
	Members      []string       `toml:"members"`
	Exclude      []string       `toml:"exclude"`
	Package      map[string]any `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

// publishedManifest is the normalized manifest placed in archives.
type publishedManifest struct {
	Package           publishedPackage               `toml:"package"`
	Dependencies      map[string]publishedDependency `toml:"dependencies,omitempty"`
	BuildDependencies map[string]publishedDependency `toml:"build-dependencies,omitempty"`
	DevDependencies   map[string]publishedDependency `toml:"dev-dependencies,omitempty"`
	Features          map[string][]string            `toml:"features,omitempty"`
	Bin               []BinaryDTO                    `toml:"bin,omitempty"`
	Build             *BuildDTO                      `toml:"build,omitempty"`
}

type publishedPackage struct {
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	Description   string   `toml:"description,omitempty"`
	License       string   `toml:"license,omitempty"`
	LicenseFile   string   `toml:"license-file,omitempty"`
	Documentation string   `toml:"documentation,omitempty"`
	Homepage      string   `toml:"homepage,omitempty"`
	Repository    string   `toml:"repository,omitempty"`
	Readme        string   `toml:"readme,omitempty"`
	Authors       []string `toml:"authors,omitempty"`
	Keywords      []string `toml:"keywords,omitempty"`
	Categories    []string `toml:"categories,omitempty"`
	Publish       []string `toml:"publish,omitempty"`
	Include       []string `toml:"include,omitempty"`
	Exclude       []string `toml:"exclude,omitempty"`
}

type publishedDependency struct {
	Version         string   `toml:"version"`
	Package         string   `toml:"package,omitempty"`
	Registry        string   `toml:"registry,omitempty"`
	Features        []string `toml:"features,omitempty"`
	Optional        bool     `toml:"optional,omitempty"`
	DefaultFeatures *bool    `toml:"default-features,omitempty"`
}

// lockDocument is the on-disk shape of Parcel.lock.
type lockDocument struct {
	Version  int           `toml:"version"`
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}
