package packager_test

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/telemetry"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/core/ports/mocks"
	"go.trai.ch/parcel/internal/engine/packager"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	ctrl          *gomock.Controller
	manifests     *mocks.MockManifestService
	resolver      *mocks.MockResolver
	registry      *mocks.MockRegistry
	builder       *mocks.MockBuilder
	vcs           *mocks.MockVersionControl
	lister        *mocks.MockSourceLister
	fingerprinter *mocks.MockFingerprinter
	archiver      *mocks.MockArchiver
	telemetry     ports.Telemetry
	logger        *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		ctrl:          ctrl,
		manifests:     mocks.NewMockManifestService(ctrl),
		resolver:      mocks.NewMockResolver(ctrl),
		registry:      mocks.NewMockRegistry(ctrl),
		builder:       mocks.NewMockBuilder(ctrl),
		vcs:           mocks.NewMockVersionControl(ctrl),
		lister:        mocks.NewMockSourceLister(ctrl),
		fingerprinter: mocks.NewMockFingerprinter(ctrl),
		archiver:      mocks.NewMockArchiver(ctrl),
		telemetry:     telemetry.New(),
		logger:        mocks.NewMockLogger(ctrl),
	}
}

func (f *fixture) packager() *packager.Packager {
	return f.packagerWith(f.archiver)
}

func (f *fixture) packagerWith(archiver ports.Archiver) *packager.Packager {
	return packager.New(
		f.manifests, f.resolver, f.registry, f.builder, f.vcs,
		f.lister, f.fingerprinter, archiver, f.telemetry, f.logger,
	)
}

// writeTree creates files under root and returns their absolute paths, sorted.
func writeTree(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func newPackage(root string) *domain.Package {
	return &domain.Package{
		Name:          "demo",
		Version:       "0.1.0",
		Root:          root,
		ManifestPath:  filepath.Join(root, domain.ManifestFileName),
		WorkspaceRoot: root,
	}
}

func relPaths(entries []domain.ArchiveEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelPath
	}
	return out
}

func findEntry(t *testing.T, entries []domain.ArchiveEntry, rel string) domain.ArchiveEntry {
	t.Helper()
	for _, e := range entries {
		if e.RelPath == rel {
			return e
		}
	}
	t.Fatalf("entry %s not found", rel)
	return domain.ArchiveEntry{}
}

func TestBuildArchiveList_Basic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml":   "[package]\n",
		"Parcel.lock":   "version = 1\n",
		"README.md":     "# demo\n",
		"src/main.go":   "package main\n",
		"src/util.go":   "package main\n",
		"docs/guide.md": "guide\n",
	})

	f := newFixture(t)
	pkg := newPackage(root)

	entries, err := f.packager().BuildArchiveList(pkg, files, "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Parcel.toml", "Parcel.toml.orig", "README.md", "docs/guide.md", "src/main.go", "src/util.go",
	}, relPaths(entries))

	manifest := findEntry(t, entries, "Parcel.toml")
	require.True(t, manifest.IsGenerated())
	assert.Equal(t, domain.GeneratedManifest, manifest.Generated.Kind)
	assert.Same(t, pkg, manifest.Generated.Package)

	orig := findEntry(t, entries, "Parcel.toml.orig")
	assert.False(t, orig.IsGenerated())
	assert.Equal(t, filepath.Join(root, "Parcel.toml"), orig.Source)
}

func TestBuildArchiveList_GeneratedEntries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml": "[package]\n",
		"src/main.go": "package main\n",
	})

	f := newFixture(t)
	pkg := newPackage(root)
	pkg.Binaries = []domain.Binary{{Name: "demo", Path: "src/main.go"}}

	entries, err := f.packager().BuildArchiveList(pkg, files, "0123456789abcdef")
	require.NoError(t, err)

	assert.Equal(t, []string{
		domain.VcsInfoFileName, "Parcel.lock", "Parcel.toml", "Parcel.toml.orig", "src/main.go",
	}, relPaths(entries))

	lock := findEntry(t, entries, "Parcel.lock")
	require.True(t, lock.IsGenerated())
	assert.Equal(t, domain.GeneratedLock, lock.Generated.Kind)

	vcsInfo := findEntry(t, entries, domain.VcsInfoFileName)
	require.True(t, vcsInfo.IsGenerated())
	assert.Equal(t, domain.GeneratedVcsInfo, vcsInfo.Generated.Kind)
	assert.JSONEq(t, `{"git":{"sha1":"0123456789abcdef"}}`, vcsInfo.Generated.Text)
}

func TestBuildArchiveList_ReservedVcsInfoFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml":          "[package]\n",
		domain.VcsInfoFileName: "{}",
	})

	f := newFixture(t)
	_, err := f.packager().BuildArchiveList(newPackage(root), files, "")
	assert.ErrorContains(t, err, domain.ErrReservedVcsInfoFile.Error())
}

func TestBuildArchiveList_RejectsSpecialCharacter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml": "[package]\n",
		"a:b.txt":     "x",
	})

	f := newFixture(t)
	_, err := f.packager().BuildArchiveList(newPackage(root), files, "")
	assert.ErrorContains(t, err, "cannot package a filename with a special character `:`: a:b.txt")
}

func TestBuildArchiveList_NestedManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml":                 "[package]\n",
		"examples/plugin/Parcel.toml": "[package]\n",
		"examples/plugin/Parcel.lock": "version = 1\n",
		"examples/plugin/lib.go":      "package plugin\n",
		"fixtures/ws/Parcel.toml":     "[workspace]\n",
	})

	f := newFixture(t)
	nested := &domain.Package{Name: "plugin", Version: "0.2.0", Root: filepath.Join(root, "examples", "plugin")}
	f.manifests.EXPECT().Load(filepath.Join(root, "examples", "plugin", "Parcel.toml")).Return(nested, nil)
	f.manifests.EXPECT().Load(filepath.Join(root, "fixtures", "ws", "Parcel.toml")).Return(nil, domain.ErrVirtualManifest)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	entries, err := f.packager().BuildArchiveList(newPackage(root), files, "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Parcel.toml",
		"Parcel.toml.orig",
		"examples/plugin/Parcel.toml",
		"examples/plugin/Parcel.toml.orig",
		"examples/plugin/lib.go",
	}, relPaths(entries))

	rewritten := findEntry(t, entries, "examples/plugin/Parcel.toml")
	require.True(t, rewritten.IsGenerated())
	assert.Same(t, nested, rewritten.Generated.Package)
}

func TestBuildArchiveList_UniqueAndSorted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeTree(t, root, map[string]string{
		"Parcel.toml":      "[package]\n",
		"Parcel.toml.orig": "stale copy\n",
		"LICENSE":          "MIT\n",
		"b.txt":            "b",
		"a/z.txt":          "z",
		"a.txt":            "a",
	})

	f := newFixture(t)
	pkg := newPackage(root)
	pkg.Metadata.LicenseFile = "LICENSE"

	want := []string{"LICENSE", "Parcel.toml", "Parcel.toml.orig", "a.txt", "a/z.txt", "b.txt"}

	for range 5 {
		shuffled := slices.Clone(files)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		entries, err := f.packager().BuildArchiveList(pkg, shuffled, "")
		require.NoError(t, err)
		assert.Equal(t, want, relPaths(entries))

		orig := findEntry(t, entries, "Parcel.toml.orig")
		assert.Equal(t, filepath.Join(root, "Parcel.toml"), orig.Source)
	}
}

func TestBuildArchiveList_LicenseFile(t *testing.T) {
	t.Parallel()

	t.Run("outside root collides with root file", func(t *testing.T) {
		t.Parallel()

		parent := t.TempDir()
		root := filepath.Join(parent, "demo")
		writeTree(t, parent, map[string]string{"LICENSE": "outer\n"})
		files := writeTree(t, root, map[string]string{
			"Parcel.toml": "[package]\n",
			"LICENSE":     "inner\n",
		})

		f := newFixture(t)
		pkg := newPackage(root)
		pkg.Metadata.LicenseFile = "../LICENSE"
		f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
			assert.Contains(t, msg, "license-file `../LICENSE` appears to be a path outside of the package")
		})

		entries, err := f.packager().BuildArchiveList(pkg, files, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"LICENSE", "Parcel.toml", "Parcel.toml.orig"}, relPaths(entries))
		assert.Equal(t, filepath.Join(root, "LICENSE"), findEntry(t, entries, "LICENSE").Source)
	})

	t.Run("outside root is copied under its base name", func(t *testing.T) {
		t.Parallel()

		parent := t.TempDir()
		root := filepath.Join(parent, "demo")
		writeTree(t, parent, map[string]string{"LICENSE-MIT": "outer\n"})
		files := writeTree(t, root, map[string]string{"Parcel.toml": "[package]\n"})

		f := newFixture(t)
		pkg := newPackage(root)
		pkg.Metadata.LicenseFile = "../LICENSE-MIT"

		entries, err := f.packager().BuildArchiveList(pkg, files, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"LICENSE-MIT", "Parcel.toml", "Parcel.toml.orig"}, relPaths(entries))
		assert.Equal(t, filepath.Join(parent, "LICENSE-MIT"), findEntry(t, entries, "LICENSE-MIT").Source)
	})

	t.Run("inside root but excluded from files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		files := writeTree(t, root, map[string]string{"Parcel.toml": "[package]\n"})
		writeTree(t, root, map[string]string{"legal/COPYING": "text\n"})

		f := newFixture(t)
		pkg := newPackage(root)
		pkg.Metadata.LicenseFile = "legal/COPYING"

		entries, err := f.packager().BuildArchiveList(pkg, files, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Parcel.toml", "Parcel.toml.orig", "legal/COPYING"}, relPaths(entries))
	})

	t.Run("missing file warns", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		files := writeTree(t, root, map[string]string{"Parcel.toml": "[package]\n"})

		f := newFixture(t)
		pkg := newPackage(root)
		pkg.Metadata.LicenseFile = "LICENSE"
		f.logger.EXPECT().Warn(
			"license-file `LICENSE` does not appear to exist (relative to `" + root + "`).\n" +
				"Please update the license-file setting in the manifest at `" + pkg.ManifestPath + "`\n" +
				"This may become a hard error in the future.",
		)

		entries, err := f.packager().BuildArchiveList(pkg, files, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Parcel.toml", "Parcel.toml.orig"}, relPaths(entries))
	})
}
