package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestNotFound is returned when no Parcel.toml can be found for the requested path.
	ErrManifestNotFound = zerr.New("could not find Parcel.toml")

	// ErrManifestReadFailed is returned when a manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when a manifest file is not valid TOML or has the wrong shape.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrManifestInvalid is returned when a manifest parses but misses required fields.
	ErrManifestInvalid = zerr.New("invalid manifest")

	// ErrVirtualManifest is returned when a manifest only declares a workspace and no package.
	ErrVirtualManifest = zerr.New("manifest is a virtual workspace manifest")

	// ErrWorkspaceInheritance is returned when a field asks for workspace inheritance that cannot be satisfied.
	ErrWorkspaceInheritance = zerr.New("failed to inherit value from workspace")

	// ErrInvalidRequirement is returned when a dependency version requirement cannot be parsed.
	ErrInvalidRequirement = zerr.New("invalid version requirement")

	// ErrLockReadFailed is returned when the lock document cannot be read.
	ErrLockReadFailed = zerr.New("failed to read Parcel.lock")

	// ErrLockParseFailed is returned when the lock document cannot be parsed.
	ErrLockParseFailed = zerr.New("failed to parse Parcel.lock")

	// ErrLockSerializeFailed is returned when the lock document cannot be serialized.
	ErrLockSerializeFailed = zerr.New("failed to serialize Parcel.lock")

	// ErrUnresolvedDependency is returned when no version of a dependency satisfies its requirement.
	ErrUnresolvedDependency = zerr.New("failed to select a version for dependency")

	// ErrUnpinnedPathDependency is returned when a transitive path dependency has no version requirement.
	ErrUnpinnedPathDependency = zerr.New("all path dependencies must have a version specified when packaging")

	// ErrInvalidFilename is returned when an archive entry name contains a special character.
	ErrInvalidFilename = zerr.New("cannot package a filename with a special character")

	// ErrNonUnicodeFilename is returned when an archive entry name is not valid UTF-8.
	ErrNonUnicodeFilename = zerr.New("path does not have a unicode filename which may not unpack on all platforms")

	// ErrReservedVcsInfoFile is returned when the package source contains the reserved VCS-info file name.
	ErrReservedVcsInfoFile = zerr.New("invalid inclusion of reserved file name " + VcsInfoFileName + " in package source")

	// ErrDirtyWorkingDirectory is returned when source files have uncommitted changes.
	ErrDirtyWorkingDirectory = zerr.New("files in the working directory contain changes that were not yet committed into git")

	// ErrVcsStatusFailed is returned when the repository status cannot be computed.
	ErrVcsStatusFailed = zerr.New("failed to compute repository status")

	// ErrSourceListFailed is returned when the package source tree cannot be listed.
	ErrSourceListFailed = zerr.New("failed to list package source files")

	// ErrFingerprintFailed is returned when a directory fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to verify output")

	// ErrSourceModified is returned when the verification build changed the unpacked sources.
	ErrSourceModified = zerr.New("source directory was modified by the build command during parcel package")

	// ErrArchiveWriteFailed is returned when the package archive cannot be written.
	ErrArchiveWriteFailed = zerr.New("failed to prepare local package for uploading")

	// ErrArchiveUnpackFailed is returned when the package archive cannot be unpacked.
	ErrArchiveUnpackFailed = zerr.New("failed to unpack package archive")

	// ErrVerifyFailed is returned when the verification stage fails.
	ErrVerifyFailed = zerr.New("failed to verify package archive")

	// ErrArchiveRenameFailed is returned when the temporary archive cannot be moved into place.
	ErrArchiveRenameFailed = zerr.New("failed to move temporary archive into final location")

	// ErrBuildFailed is returned when the build command exits unsuccessfully.
	ErrBuildFailed = zerr.New("build command failed")

	// ErrRegistryCacheCreateFailed is returned when the registry cache directory cannot be created.
	ErrRegistryCacheCreateFailed = zerr.New("failed to create registry cache directory")

	// ErrRegistryCacheReadFailed is returned when a registry cache entry cannot be read.
	ErrRegistryCacheReadFailed = zerr.New("failed to read from registry cache")

	// ErrRegistryCacheWriteFailed is returned when a registry cache entry cannot be written.
	ErrRegistryCacheWriteFailed = zerr.New("failed to write to registry cache")

	// ErrRegistryRequestFailed is returned when the registry index cannot be queried.
	ErrRegistryRequestFailed = zerr.New("failed to query registry index")

	// ErrRegistryParseFailed is returned when a registry index response cannot be decoded.
	ErrRegistryParseFailed = zerr.New("failed to parse registry index response")

	// ErrRegistryPackageNotFound is returned when a package or version is missing from the registry index.
	ErrRegistryPackageNotFound = zerr.New("package not found in registry index")

	// ErrRegistryOffline is returned when the index must be fetched while offline mode is enabled.
	ErrRegistryOffline = zerr.New("registry index is not cached and offline mode is enabled")

	// ErrPackageCacheLockFailed is returned when the package cache lock cannot be acquired.
	ErrPackageCacheLockFailed = zerr.New("failed to acquire package cache lock")

	// ErrConfigReadFailed is returned when the settings file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a setting has an unusable value.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
