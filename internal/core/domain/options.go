package domain

// CompileModeBuild is the default compilation mode.
const CompileModeBuild = "build"

// PackageOptions configures a packaging run.
type PackageOptions struct {
	// List prints the archive entries instead of writing an archive.
	List bool
	// Long prints the listing as a table with entry origins.
	Long bool
	// Verbose lowers the console log level to debug.
	Verbose bool
	// CheckMetadata warns about missing description, license, or links.
	CheckMetadata bool
	// AllowDirty tolerates uncommitted changes.
	AllowDirty bool
	// Verify builds the unpacked archive before publishing it.
	Verify bool
	// TargetDir overrides the build output directory.
	TargetDir string

	Jobs              int
	Targets           []string
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
}

// CompileOptions configures a build of a package.
type CompileOptions struct {
	Jobs              int
	Targets           []string
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool

	// Mode is the compilation mode, CompileModeBuild unless stated otherwise.
	Mode string

	// DenyLints lists lints promoted to errors. Packaging currently passes none.
	DenyLints []string
}

// IgnoreFunc reports whether the absolute path is ignored by version control.
type IgnoreFunc func(path string, isDir bool) bool
