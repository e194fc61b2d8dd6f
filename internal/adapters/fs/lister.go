package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceLister = (*SourceLister)(nil)

// SourceLister selects the files of a package using its include and exclude patterns.
type SourceLister struct {
	walker *Walker
}

// NewSourceLister creates a new SourceLister.
func NewSourceLister(walker *Walker) *SourceLister {
	return &SourceLister{walker: walker}
}

// ListFiles returns the absolute paths of the files to package, sorted.
// Include patterns win over exclude patterns. The manifest is always listed.
func (l *SourceLister) ListFiles(pkg *domain.Package, ignore domain.IgnoreFunc) ([]string, error) {
	include, err := compilePatterns(pkg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(pkg.Exclude)
	if err != nil {
		return nil, err
	}

	skip := func(e Entry) bool {
		if IsVCSDir(e) {
			return true
		}
		if ignore != nil && ignore(e.Path, e.IsDir()) {
			return true
		}
		if !e.IsDir() {
			if len(include) > 0 {
				return !matchAny(include, e.Rel)
			}
			return matchAny(exclude, e.Rel)
		}
		if e.Depth == 1 && e.Dir.Name() == domain.TargetDirName {
			return true
		}
		if len(include) > 0 {
			return false
		}
		return matchAny(exclude, e.Rel) || isNestedPackage(e.Path)
	}

	var files []string
	for entry, err := range l.walker.Walk(pkg.Root, skip) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceListFailed.Error()), "path", pkg.Root)
		}
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Path)
	}

	if !slices.Contains(files, pkg.ManifestPath) {
		files = append(files, pkg.ManifestPath)
	}
	slices.Sort(files)
	return files, nil
}

// compilePatterns normalizes manifest patterns into doublestar patterns relative to the package root.
func compilePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		normalized := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(p), "/"), "/")
		if !doublestar.ValidatePattern(normalized) {
			return nil, zerr.With(domain.ErrSourceListFailed, "pattern", p)
		}
		out = append(out, normalized)
	}
	return out, nil
}

// matchAny reports whether rel or one of its parent directories matches a pattern.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

func isNestedPackage(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, domain.ManifestFileName))
	return err == nil
}
