package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// GeneratedKind tells which generated document an archive entry holds.
type GeneratedKind int

const (
	// GeneratedManifest is a manifest rewritten for distribution.
	GeneratedManifest GeneratedKind = iota
	// GeneratedLock is a lock document regenerated for the published manifest.
	GeneratedLock
	// GeneratedVcsInfo is the record of the revision the package was built from.
	GeneratedVcsInfo
)

// Generated describes content produced by the pipeline instead of read from disk.
type Generated struct {
	Kind GeneratedKind

	// Package is the package whose manifest is rewritten. Set for GeneratedManifest.
	Package *Package

	// Text is the stored content. Set for GeneratedVcsInfo.
	Text string
}

// ArchiveEntry is a single file placed in a package archive.
type ArchiveEntry struct {
	// RelPath is the slash-separated path relative to the package root.
	RelPath string

	// Source is the absolute path of an on-disk file. Empty for generated entries.
	Source string

	// Generated is set for entries materialized by the pipeline.
	Generated *Generated
}

// IsGenerated reports whether the entry is produced by the pipeline.
func (e ArchiveEntry) IsGenerated() bool {
	return e.Generated != nil
}

// SortEntries orders entries by relative path.
func SortEntries(entries []ArchiveEntry) {
	slices.SortFunc(entries, func(a, b ArchiveEntry) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
}

type vcsInfo struct {
	Git struct {
		SHA1 string `json:"sha1"`
	} `json:"git"`
}

// VcsInfoJSON renders the VCS-info record for a git revision.
func VcsInfoJSON(sha1 string) string {
	var info vcsInfo
	info.Git.SHA1 = sha1
	data, _ := json.MarshalIndent(info, "", "  ") //nolint:errchkjson // plain struct of strings
	return string(data) + "\n"
}
