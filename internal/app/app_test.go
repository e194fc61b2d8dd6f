package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/telemetry"
	"go.trai.ch/parcel/internal/app"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/core/ports/mocks"
	"go.trai.ch/parcel/internal/engine/packager"
	"go.uber.org/mock/gomock"
)

type verboseLogger struct {
	*mocks.MockLogger
	verbose bool
}

func (l *verboseLogger) SetVerbose(enable bool) {
	l.verbose = enable
}

type harness struct {
	manifests *mocks.MockManifestService
	vcs       *mocks.MockVersionControl
	lister    *mocks.MockSourceLister
	logger    *verboseLogger
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		manifests: mocks.NewMockManifestService(ctrl),
		vcs:       mocks.NewMockVersionControl(ctrl),
		lister:    mocks.NewMockSourceLister(ctrl),
		logger:    &verboseLogger{MockLogger: mocks.NewMockLogger(ctrl)},
	}

	var log ports.Logger = h.logger
	pkgr := packager.New(
		h.manifests,
		mocks.NewMockResolver(ctrl),
		mocks.NewMockRegistry(ctrl),
		mocks.NewMockBuilder(ctrl),
		h.vcs,
		h.lister,
		mocks.NewMockFingerprinter(ctrl),
		mocks.NewMockArchiver(ctrl),
		telemetry.New(),
		log,
	)
	h.app = app.New(h.manifests, pkgr, log)
	return h
}

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, domain.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte("[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"), 0o600))
	return path
}

func TestApp_Package_FindsManifestInParent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manifestPath := writeManifest(t, root)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	h := newHarness(t)
	pkg := &domain.Package{Name: "demo", Version: "0.1.0", Root: root, ManifestPath: manifestPath, WorkspaceRoot: root}
	files := []string{manifestPath}

	h.manifests.EXPECT().Load(manifestPath).Return(pkg, nil)
	h.vcs.EXPECT().IgnoreFunc(root).Return(nil, nil)
	h.lister.EXPECT().ListFiles(pkg, gomock.Any()).Return(files, nil)
	h.vcs.EXPECT().CheckRepoState(gomock.Any(), pkg, files, false).Return("", nil)

	res, err := h.app.WithWorkingDir(nested).Package(context.Background(), app.PackageOptions{
		PackageOptions: domain.PackageOptions{List: true, Verbose: true},
	})
	require.NoError(t, err)

	assert.True(t, h.logger.verbose)
	got := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		got[i] = e.RelPath
	}
	assert.Equal(t, []string{"Parcel.toml", "Parcel.toml.orig"}, got)
}

func TestApp_Package_ExplicitManifestPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manifestPath := writeManifest(t, filepath.Join(root, "crates", "demo"))

	h := newHarness(t)
	h.manifests.EXPECT().Load(manifestPath).Return(nil, domain.ErrVirtualManifest)

	_, err := h.app.Package(context.Background(), app.PackageOptions{
		ManifestPath: filepath.Dir(manifestPath),
	})
	assert.ErrorContains(t, err, domain.ErrVirtualManifest.Error())
}

func TestApp_Package_ManifestNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.app.WithWorkingDir(t.TempDir()).Package(context.Background(), app.PackageOptions{})
	assert.ErrorContains(t, err, domain.ErrManifestNotFound.Error())
}
