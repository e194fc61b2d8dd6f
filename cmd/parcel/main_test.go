package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/parcel/internal/adapters/telemetry"
	"go.trai.ch/parcel/internal/app"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports/mocks"
	"go.trai.ch/parcel/internal/engine/packager"
	"go.uber.org/mock/gomock"
)

func newComponents(ctrl *gomock.Controller) (*app.Components, *mocks.MockManifestService, *mocks.MockLogger) {
	manifests := mocks.NewMockManifestService(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	pkgr := packager.New(
		manifests,
		mocks.NewMockResolver(ctrl),
		mocks.NewMockRegistry(ctrl),
		mocks.NewMockBuilder(ctrl),
		mocks.NewMockVersionControl(ctrl),
		mocks.NewMockSourceLister(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		mocks.NewMockArchiver(ctrl),
		telemetry.New(),
		logger,
	)
	return &app.Components{
		App:    app.New(manifests, pkgr, logger),
		Logger: logger,
	}, manifests, logger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, _, _ := newComponents(ctrl)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "parcel version")
	assert.True(t, cleaned)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when packaging fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, manifests, logger := newComponents(ctrl)

	dir := t.TempDir()
	manifests.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrManifestParseFailed)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(
		context.Background(),
		[]string{"package", "--manifest-path", dir},
		new(bytes.Buffer), new(bytes.Buffer),
		provider,
		func(a *app.App) { a.WithWorkingDir(dir) },
	)
	assert.Equal(t, 1, exitCode)
}
