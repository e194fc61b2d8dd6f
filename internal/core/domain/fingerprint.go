package domain

import (
	"maps"
	"slices"
	"strings"
)

// Fingerprint maps paths under a directory to a hash of their content.
// Directories map to a constant since only their presence matters.
type Fingerprint map[string]uint64

// Equal reports whether both fingerprints hold the same paths and hashes.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return maps.Equal(f, other)
}

// ReportDifference renders the paths that changed between before and after.
// It must only be called when the fingerprints differ.
func ReportDifference(before, after Fingerprint) string {
	var changed, added, removed []string
	for path, hash := range before {
		afterHash, ok := after[path]
		switch {
		case !ok:
			removed = append(removed, path)
		case afterHash != hash:
			changed = append(changed, path)
		}
	}
	for path := range after {
		if _, ok := before[path]; !ok {
			added = append(added, path)
		}
	}

	var sections []string
	for _, s := range []struct {
		label string
		paths []string
	}{
		{"Changed", changed},
		{"Added", added},
		{"Removed", removed},
	} {
		if len(s.paths) == 0 {
			continue
		}
		slices.Sort(s.paths)
		sections = append(sections, s.label+": "+strings.Join(s.paths, "\n\t"))
	}

	if len(sections) == 0 {
		panic("unexpected empty change detection")
	}
	return strings.Join(sections, "\n")
}
