package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/shell"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newProject(t *testing.T, command ...string) *domain.Project {
	t.Helper()

	root := t.TempDir()
	return &domain.Project{
		Package: &domain.Package{
			Name:    "demo",
			Version: "0.1.0",
			Root:    root,
			Build:   domain.BuildSettings{Command: command},
		},
		TargetDir: filepath.Join(root, domain.TargetDirName),
	}
}

func TestBuilder_Compile_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		mockLogger.EXPECT().Info("line1"),
		mockLogger.EXPECT().Info("line2"),
	)

	builder := shell.NewBuilder(mockLogger, nil)
	err := builder.Compile(context.Background(), newProject(t, "sh", "-c", "echo line1; echo line2"), domain.CompileOptions{})
	require.NoError(t, err)
}

func TestBuilder_Compile_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("part1part2").Times(1)

	builder := shell.NewBuilder(mockLogger, nil)
	project := newProject(t, "sh", "-c", "printf part1; sleep 0.1; echo part2")
	require.NoError(t, builder.Compile(context.Background(), project, domain.CompileOptions{}))
}

func TestBuilder_Compile_BuildVariables(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	project := newProject(t, "sh", "-c",
		`echo "$PARCEL_PKG_NAME $PARCEL_PKG_VERSION $PARCEL_PROFILE $PARCEL_JOBS $PARCEL_FEATURES $EXTRA"`)
	project.Package.Build.Env = map[string]string{"EXTRA": "from-manifest"}

	mockLogger.EXPECT().Info("demo 0.1.0 build 4 a,b from-manifest").Times(1)

	builder := shell.NewBuilder(mockLogger, nil)
	err := builder.Compile(context.Background(), project, domain.CompileOptions{
		Jobs:     4,
		Features: []string{"a", "b"},
		Mode:     domain.CompileModeBuild,
	})
	require.NoError(t, err)
}

func TestBuilder_Compile_WorkingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	project := newProject(t, "sh", "-c", "touch built.txt")
	builder := shell.NewBuilder(mockLogger, nil)
	require.NoError(t, builder.Compile(context.Background(), project, domain.CompileOptions{}))

	_, err := os.Stat(filepath.Join(project.Package.Root, "built.txt"))
	assert.NoError(t, err)
}

func TestBuilder_Compile_DefaultCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("default").Times(1)

	builder := shell.NewBuilder(mockLogger, []string{"sh", "-c", "echo default"})
	require.NoError(t, builder.Compile(context.Background(), newProject(t), domain.CompileOptions{}))
}

func TestBuilder_Compile_NoCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	builder := shell.NewBuilder(mockLogger, nil)
	require.NoError(t, builder.Compile(context.Background(), newProject(t), domain.CompileOptions{}))
}

func TestBuilder_Compile_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("boom").Times(1)

	builder := shell.NewBuilder(mockLogger, nil)
	err := builder.Compile(context.Background(), newProject(t, "sh", "-c", "echo boom; exit 3"), domain.CompileOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBuildFailed.Error())
	assert.ErrorContains(t, err, "command failed")
}

func TestBuilder_Compile_HermeticPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("success").Times(1)

	binDir := t.TempDir()
	cmdName := "my-build-tool"
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(filepath.Join(binDir, cmdName), []byte("#!/bin/sh\necho success\n"), 0o700))

	project := newProject(t, cmdName)
	project.Package.Build.Env = map[string]string{"PATH": binDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	builder := shell.NewBuilder(mockLogger, nil)
	require.NoError(t, builder.Compile(context.Background(), project, domain.CompileOptions{}))
}
