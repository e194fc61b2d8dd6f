// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/parcel/internal/adapters/archive"
	_ "go.trai.ch/parcel/internal/adapters/config"
	_ "go.trai.ch/parcel/internal/adapters/fs"
	_ "go.trai.ch/parcel/internal/adapters/logger"
	_ "go.trai.ch/parcel/internal/adapters/manifest"
	_ "go.trai.ch/parcel/internal/adapters/registry"
	_ "go.trai.ch/parcel/internal/adapters/resolver"
	_ "go.trai.ch/parcel/internal/adapters/shell"
	_ "go.trai.ch/parcel/internal/adapters/telemetry"
	_ "go.trai.ch/parcel/internal/adapters/vcs"
	// Register app and engine nodes.
	_ "go.trai.ch/parcel/internal/app"
	_ "go.trai.ch/parcel/internal/engine/packager"
)
