package domain

import "time"

// Settings holds the user configuration of parcel.
type Settings struct {
	// Home is the per-user parcel directory.
	Home string

	// RegistryURL is the index URL of the default registry.
	RegistryURL string
	// RegistryTTL is how long a cached index entry stays fresh.
	RegistryTTL time.Duration
	// Offline forbids network access to registries.
	Offline bool

	// BuildCommand is the build command used when a manifest declares none.
	BuildCommand []string

	Log LogSettings
}

// LogSettings configures the rotating debug log.
type LogSettings struct {
	// File is the debug log path. Empty disables the file log.
	File       string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}
