// Package vcs inspects the git repository a package lives in.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VersionControl = (*Checker)(nil)

type fileState int

const (
	stateCurrent fileState = iota
	stateChanged
	stateIgnored
	stateUnknown
)

// Checker implements ports.VersionControl on top of go-git.
type Checker struct {
	logger ports.Logger
}

// NewChecker creates a new Checker.
func NewChecker(logger ports.Logger) *Checker {
	return &Checker{logger: logger}
}

// repoView is a worktree together with its status and ignore rules.
type repoView struct {
	repo    *git.Repository
	root    string
	status  git.Status
	matcher gitignore.Matcher
}

func openView(repo *git.Repository) (*repoView, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}

	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, wt.Excludes...)

	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}

	return &repoView{
		repo:    repo,
		root:    root,
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// rel returns the slash-separated path of abs inside the worktree.
func (v *repoView) rel(abs string) (string, bool) {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (v *repoView) ignored(rel string, isDir bool) bool {
	return v.matcher.Match(strings.Split(rel, "/"), isDir)
}

func (v *repoView) state(abs string) (fileState, error) {
	rel, ok := v.rel(abs)
	if !ok {
		return stateUnknown, nil
	}

	if v.status == nil {
		wt, err := v.repo.Worktree()
		if err != nil {
			return stateUnknown, err
		}
		status, err := wt.StatusWithOptions(git.StatusOptions{Strategy: git.Preload})
		if err != nil {
			return stateUnknown, err
		}
		v.status = status
	}

	// Index the map directly: Status.File inserts missing paths as untracked.
	if fs, ok := v.status[rel]; ok {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			return stateCurrent, nil
		}
		return stateChanged, nil
	}
	if v.ignored(rel, false) {
		return stateIgnored, nil
	}
	return stateUnknown, nil
}

func (v *repoView) tracked(rel string) bool {
	idx, err := v.repo.Storer.Index()
	if err != nil {
		return false
	}
	_, err = idx.Entry(rel)
	return err == nil
}

func (c *Checker) open(root string) (*repoView, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", root)
	}

	view, err := openView(repo)
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", root)
	}
	return view, nil
}

// CheckRepoState reports the revision the package files were committed at.
func (c *Checker) CheckRepoState(
	_ context.Context, pkg *domain.Package, files []string, allowDirty bool,
) (string, error) {
	view, err := c.open(pkg.Root)
	if err != nil {
		return "", err
	}
	if view == nil {
		c.logger.Debug(fmt.Sprintf("No (git) VCS found for `%s`", pkg.Root))
		return "", nil
	}

	manifest, err := filepath.EvalSymlinks(pkg.ManifestPath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", pkg.ManifestPath)
	}
	manifestRel, ok := view.rel(manifest)
	if !ok || !view.tracked(manifestRel) || view.ignored(manifestRel, false) {
		c.logger.Debug(fmt.Sprintf(
			"No (git) %s found at `%s` in workdir `%s`", domain.ManifestFileName, pkg.ManifestPath, view.root,
		))
		return "", nil
	}

	subs := collectSubmodules(view)

	root, err := filepath.EvalSymlinks(pkg.Root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", pkg.Root)
	}

	var dirty []string
	for _, file := range files {
		abs, err := filepath.EvalSymlinks(filepath.Dir(file))
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", file)
		}
		abs = filepath.Join(abs, filepath.Base(file))

		isDirty, err := fileIsDirty(view, subs, abs)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrVcsStatusFailed.Error()), "path", file)
		}
		if !isDirty {
			continue
		}

		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = abs
		}
		dirty = append(dirty, filepath.ToSlash(rel))
	}

	if len(dirty) == 0 {
		head, err := view.repo.Head()
		if err != nil {
			return "", zerr.Wrap(err, domain.ErrVcsStatusFailed.Error())
		}
		return head.Hash().String(), nil
	}

	if allowDirty {
		return "", nil
	}

	slices.Sort(dirty)
	return "", zerr.With(fmt.Errorf(
		"%d %w:\n\n%s\n\nto proceed despite this and include the uncommitted changes, pass the `--allow-dirty` flag",
		len(dirty), domain.ErrDirtyWorkingDirectory, strings.Join(dirty, "\n"),
	), "count", len(dirty))
}

func fileIsDirty(view *repoView, subs []*repoView, abs string) (bool, error) {
	state, err := view.state(abs)
	if err != nil {
		return false, err
	}
	if state != stateUnknown {
		return stateIsDirty(state, abs), nil
	}

	for _, sub := range subs {
		if _, ok := sub.rel(abs); !ok {
			continue
		}
		state, err := sub.state(abs)
		if err != nil {
			return false, err
		}
		if stateIsDirty(state, abs) {
			return true, nil
		}
	}
	return false, nil
}

func stateIsDirty(state fileState, abs string) bool {
	switch state {
	case stateChanged:
		return true
	case stateIgnored:
		return filepath.Base(abs) != domain.LockFileName
	default:
		return false
	}
}

// collectSubmodules returns every initialized submodule below view, deepest first.
func collectSubmodules(view *repoView) []*repoView {
	var out []*repoView
	queue := []*git.Repository{view.repo}
	for len(queue) > 0 {
		repo := queue[0]
		queue = queue[1:]

		wt, err := repo.Worktree()
		if err != nil {
			continue
		}
		subs, err := wt.Submodules()
		if err != nil {
			continue
		}
		for _, sub := range subs {
			subRepo, err := sub.Repository()
			if err != nil {
				continue
			}
			subView, err := openView(subRepo)
			if err != nil {
				continue
			}
			out = append(out, subView)
			queue = append(queue, subRepo)
		}
	}

	slices.SortStableFunc(out, func(a, b *repoView) int {
		return len(b.root) - len(a.root)
	})
	return out
}

// IgnoreFunc returns the ignore rules of the repository holding root.
func (c *Checker) IgnoreFunc(root string) (domain.IgnoreFunc, error) {
	view, err := c.open(root)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return func(string, bool) bool { return false }, nil
	}

	return func(path string, isDir bool) bool {
		resolved := path
		if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
			resolved = filepath.Join(dir, filepath.Base(path))
		}
		rel, ok := view.rel(resolved)
		if !ok || rel == "." {
			return false
		}
		return view.ignored(rel, isDir)
	}, nil
}
