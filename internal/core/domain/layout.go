package domain

import (
	"os"
	"path/filepath"
)

const (
	// ManifestFileName is the name of the package manifest.
	ManifestFileName = "Parcel.toml"

	// OriginalManifestSuffix is appended to a manifest name to preserve its original bytes.
	OriginalManifestSuffix = ".orig"

	// LockFileName is the name of the lock document.
	LockFileName = "Parcel.lock"

	// VcsInfoFileName is the name of the generated VCS-info record. The name is reserved.
	VcsInfoFileName = ".parcel_vcs_info.json"

	// ArchiveExtension is the file extension of package archives.
	ArchiveExtension = ".parcel"

	// TargetDirName is the name of the build output directory.
	TargetDirName = "target"

	// PackageDirName is the name of the directory under the target dir holding archives.
	PackageDirName = "package"

	// HomeDirName is the name of the per-user parcel directory.
	HomeDirName = ".parcel"

	// HomeEnvVar overrides the per-user parcel directory.
	HomeEnvVar = "PARCEL_HOME"

	// RegistryDirName is the name of the registry directory inside the parcel home.
	RegistryDirName = "registry"

	// IndexDirName is the name of the registry index cache directory.
	IndexDirName = "index"

	// PackageCacheLockName is the name of the advisory lock guarding registry state.
	PackageCacheLockName = ".package-cache"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultHomePath returns the per-user parcel directory.
// It honours PARCEL_HOME and falls back to ~/.parcel, or .parcel when no home directory is known.
func DefaultHomePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return HomeDirName
	}
	return filepath.Join(userHome, HomeDirName)
}

// IndexCachePath returns the registry index cache directory under home.
// It joins home, registry, and index.
func IndexCachePath(home string) string {
	return filepath.Join(home, RegistryDirName, IndexDirName)
}

// PackageCacheLockPath returns the path of the package cache lock under home.
func PackageCacheLockPath(home string) string {
	return filepath.Join(home, PackageCacheLockName)
}

// DebugLogPath returns the path of the debug log under home.
func DebugLogPath(home string) string {
	return filepath.Join(home, DebugLogFile)
}

// PackageOutputPath returns the directory receiving archives for the given target dir.
func PackageOutputPath(targetDir string) string {
	return filepath.Join(targetDir, PackageDirName)
}

// ArchiveName returns the public file name of a package archive.
func ArchiveName(name, version string) string {
	return name + "-" + version + ArchiveExtension
}

// ArchiveBaseDir returns the top-level directory every archive entry is nested under.
func ArchiveBaseDir(name, version string) string {
	return name + "-" + version
}
