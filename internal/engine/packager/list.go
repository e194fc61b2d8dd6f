package packager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// archiveList collects entries keyed by relative path so no path appears twice.
type archiveList struct {
	entries []domain.ArchiveEntry
	index   map[string]int
}

func newArchiveList() *archiveList {
	return &archiveList{index: make(map[string]int)}
}

// add appends e unless an entry with the same path exists.
func (l *archiveList) add(e domain.ArchiveEntry) {
	if _, ok := l.index[e.RelPath]; ok {
		return
	}
	l.index[e.RelPath] = len(l.entries)
	l.entries = append(l.entries, e)
}

// put appends e, replacing an entry with the same path.
func (l *archiveList) put(e domain.ArchiveEntry) {
	if i, ok := l.index[e.RelPath]; ok {
		l.entries[i] = e
		return
	}
	l.add(e)
}

func (l *archiveList) hasBase(name string) bool {
	for _, e := range l.entries {
		if path.Base(e.RelPath) == name {
			return true
		}
	}
	return false
}

// sorted returns the entries in archive order.
func (l *archiveList) sorted() []domain.ArchiveEntry {
	domain.SortEntries(l.entries)
	return l.entries
}

// buildArchiveList turns the candidate files into the entries of the archive.
// Manifests are paired with their original bytes, raw lock files are dropped,
// and generated entries are appended as the package requires.
func (p *Packager) buildArchiveList(pkg *domain.Package, files []string, revision string) ([]domain.ArchiveEntry, error) {
	canonical, err := os.Stat(pkg.ManifestPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", pkg.ManifestPath)
	}

	list := newArchiveList()
	for _, file := range files {
		rel, err := filepath.Rel(pkg.Root, file)
		if err != nil || !filepath.IsLocal(rel) {
			return nil, zerr.With(domain.ErrSourceListFailed, "path", file)
		}
		if err := CheckFilename(rel, p.logger); err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case rel == domain.VcsInfoFileName:
			return nil, zerr.With(domain.ErrReservedVcsInfoFile, "path", file)
		case path.Base(rel) == domain.LockFileName:
			continue
		case path.Base(rel) == domain.ManifestFileName:
			if err := p.addManifest(list, pkg, canonical, rel, file); err != nil {
				return nil, err
			}
		default:
			list.add(domain.ArchiveEntry{RelPath: rel, Source: file})
		}
	}

	if pkg.IncludeLockfile() {
		list.put(domain.ArchiveEntry{
			RelPath:   domain.LockFileName,
			Generated: &domain.Generated{Kind: domain.GeneratedLock},
		})
	}
	if revision != "" {
		list.put(domain.ArchiveEntry{
			RelPath:   domain.VcsInfoFileName,
			Generated: &domain.Generated{Kind: domain.GeneratedVcsInfo, Text: domain.VcsInfoJSON(revision)},
		})
	}
	if err := p.addLicenseFile(list, pkg); err != nil {
		return nil, err
	}

	return list.sorted(), nil
}

// addManifest pairs a manifest with its original bytes. A manifest other than
// the one being published belongs to a nested package and is rewritten with
// that package's own identity.
func (p *Packager) addManifest(list *archiveList, pkg *domain.Package, canonical os.FileInfo, rel, file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", file)
	}

	owner := pkg
	if !os.SameFile(info, canonical) {
		nested, err := p.manifests.Load(file)
		if errors.Is(err, domain.ErrVirtualManifest) {
			p.logger.Debug(fmt.Sprintf("skipping workspace manifest `%s`", rel))
			return nil
		}
		if err != nil {
			return err
		}
		owner = nested
	}

	list.put(domain.ArchiveEntry{RelPath: rel + domain.OriginalManifestSuffix, Source: file})
	list.put(domain.ArchiveEntry{
		RelPath:   rel,
		Generated: &domain.Generated{Kind: domain.GeneratedManifest, Package: owner},
	})
	return nil
}

func (p *Packager) addLicenseFile(list *archiveList, pkg *domain.Package) error {
	licenseFile := pkg.Metadata.LicenseFile
	if licenseFile == "" {
		return nil
	}

	licensePath := filepath.FromSlash(licenseFile)
	abs := licensePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(pkg.Root, licensePath)
	}

	if _, err := os.Stat(abs); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrSourceListFailed.Error()), "path", abs)
		}
		relMsg := ""
		if !filepath.IsAbs(licensePath) {
			relMsg = fmt.Sprintf(" (relative to `%s`)", pkg.Root)
		}
		p.logger.Warn(fmt.Sprintf(
			"license-file `%s` does not appear to exist%s.\n"+
				"Please update the license-file setting in the manifest at `%s`\n"+
				"This may become a hard error in the future.",
			licenseFile, relMsg, pkg.ManifestPath,
		))
		return nil
	}

	if rel, err := filepath.Rel(pkg.Root, abs); err == nil && filepath.IsLocal(rel) {
		list.add(domain.ArchiveEntry{RelPath: filepath.ToSlash(rel), Source: abs})
		return nil
	}

	name := filepath.Base(licensePath)
	if list.hasBase(name) {
		p.logger.Warn(fmt.Sprintf(
			"license-file `%s` appears to be a path outside of the package, "+
				"but there is already a file named `%s` in the root of the package. "+
				"The archived package will contain the copy in the root of the package. "+
				"Update the license-file to point to the path relative "+
				"to the root of the package to remove this warning.",
			licenseFile, name,
		))
		return nil
	}
	list.add(domain.ArchiveEntry{RelPath: name, Source: abs})
	return nil
}
