// Package fs provides file system adapters for walking, listing, and fingerprinting package trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// Entry is a path visited by the Walker.
type Entry struct {
	// Path is the path joined onto the walk root.
	Path string
	// Rel is the slash-separated path relative to the walk root.
	Rel string
	// Depth is 1 for direct children of the root.
	Depth int
	Dir   fs.DirEntry
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Dir.IsDir()
}

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Dir.Type()&fs.ModeSymlink != 0
}

// SkipFunc reports whether an entry is left out. Skipped directories are not descended into.
type SkipFunc func(e Entry) bool

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every file and directory below root in lexical order.
// Symbolic links are yielded but never followed. A walk error is yielded once and ends the walk.
func (w *Walker) Walk(root string, skip SkipFunc) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			entry := Entry{
				Path:  path,
				Rel:   rel,
				Depth: strings.Count(rel, "/") + 1,
				Dir:   d,
			}

			if skip != nil && skip(entry) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(entry, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, err)
		}
	}
}

// IsVCSDir reports whether e is the metadata directory of a version control system.
func IsVCSDir(e Entry) bool {
	name := e.Dir.Name()
	return e.IsDir() && (name == ".git" || name == ".jj")
}
