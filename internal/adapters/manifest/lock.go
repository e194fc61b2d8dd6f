package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// lockVersion is the format version written to Parcel.lock.
const lockVersion = 1

const lockHeader = `# This file is automatically generated by parcel.
# It is not intended for manual editing.
`

// LoadLock reads the lock document at path. A missing file yields a nil graph.
func (s *Service) LoadLock(path string) (*domain.ResolveGraph, error) {
	// #nosec G304 -- path is validated by caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockReadFailed.Error()), "path", path)
	}

	graph, err := ParseLock(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return graph, nil
}

// ParseLock decodes a lock document.
func ParseLock(data []byte) (*domain.ResolveGraph, error) {
	var doc lockDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockParseFailed.Error())
	}

	ids := make([]domain.PackageID, len(doc.Packages))
	for i, p := range doc.Packages {
		ids[i] = domain.PackageID{Name: p.Name, Version: p.Version, Source: p.Source}
	}

	packages := make([]domain.ResolvedPackage, len(doc.Packages))
	for i, p := range doc.Packages {
		packages[i] = domain.ResolvedPackage{ID: ids[i]}
		for _, ref := range p.Dependencies {
			id, err := resolveReference(ids, ref)
			if err != nil {
				return nil, zerr.With(err, "package", p.Name)
			}
			packages[i].Dependencies = append(packages[i].Dependencies, id)
		}
	}

	return domain.NewResolveGraph(packages), nil
}

// resolveReference finds the package a dependency entry points at.
// Entries are "name", "name version" or "name version (source)".
func resolveReference(ids []domain.PackageID, ref string) (domain.PackageID, error) {
	name, rest, _ := strings.Cut(ref, " ")
	version, source, _ := strings.Cut(rest, " ")
	source = strings.TrimSuffix(strings.TrimPrefix(source, "("), ")")

	var found []domain.PackageID
	for _, id := range ids {
		if id.Name != name {
			continue
		}
		if version != "" && id.Version != version {
			continue
		}
		if source != "" && id.Source != source {
			continue
		}
		found = append(found, id)
	}

	if len(found) != 1 {
		return domain.PackageID{}, zerr.With(domain.ErrLockParseFailed, "dependency", ref)
	}
	return found[0], nil
}

// SerializeLock renders a resolution graph as a lock document.
func (s *Service) SerializeLock(graph *domain.ResolveGraph) (string, error) {
	ids := graph.IDs()
	doc := lockDocument{Version: lockVersion, Packages: make([]lockPackage, 0, len(ids))}

	for _, p := range graph.Packages() {
		entry := lockPackage{Name: p.ID.Name, Version: p.ID.Version, Source: p.ID.Source}
		for _, dep := range p.Dependencies {
			entry.Dependencies = append(entry.Dependencies, reference(ids, dep))
		}
		doc.Packages = append(doc.Packages, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(lockHeader)
	buf.WriteString("\n")
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	enc.SetArraysMultiline(true)
	if err := enc.Encode(doc); err != nil {
		return "", zerr.Wrap(err, domain.ErrLockSerializeFailed.Error())
	}
	return buf.String(), nil
}

// reference renders the shortest unambiguous dependency entry for id.
func reference(ids []domain.PackageID, id domain.PackageID) string {
	sameName, sameVersion := 0, 0
	for _, other := range ids {
		if other.Name != id.Name {
			continue
		}
		sameName++
		if other.Version == id.Version {
			sameVersion++
		}
	}

	switch {
	case sameName <= 1:
		return id.Name
	case sameVersion <= 1:
		return id.Name + " " + id.Version
	default:
		return id.Name + " " + id.Version + " (" + id.Source + ")"
	}
}
