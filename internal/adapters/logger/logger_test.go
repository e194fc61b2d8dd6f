package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/logger"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(lg *logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(lg *logger.Logger) { lg.Info("Packaged 4 files") },
			goldenName: "info_basic",
		},
		{
			name:       "multiline info",
			log:        func(lg *logger.Logger) { lg.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "warn",
			log:        func(lg *logger.Logger) { lg.Warn("manifest has no description") },
			goldenName: "warn_basic",
		},
		{
			name:       "status",
			log:        func(lg *logger.Logger) { lg.Status("Packaging", "demo v0.1.0 (/src/demo)") },
			goldenName: "status_basic",
		},
		{
			name:       "debug hidden by default",
			log:        func(lg *logger.Logger) { lg.Debug("not shown") },
			goldenName: "debug_hidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_SetVerbose(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetVerbose(true)
	lg.Debug("shown")
	assert.Equal(t, "shown\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name: "zerr chain with metadata",
			err: func() error {
				inner := zerr.With(zerr.New("database timeout"), "timeout_ms", 5000)
				outer := zerr.Wrap(inner, "failed to fetch user")
				return zerr.With(outer, "user_id", "12345")
			}(),
			goldenName: "error_chain_metadata",
		},
		{
			name: "multiline message",
			err: zerr.New("2 files in the working directory contain changes:\n\n" +
				"a.txt\nb.txt"),
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "Expected no output for nil error")
}

func TestLogger_SetFile(t *testing.T) {
	lg, buf := newTestLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	lg.SetFile(domain.LogSettings{File: path, Level: "debug", MaxSize: 1})
	lg.Debug("resolving dependencies")
	lg.Status("Packaging", "demo v0.1.0")
	lg.Error(zerr.With(zerr.New("build command failed"), "exit_code", 2))
	require.NoError(t, lg.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG msg=\"resolving dependencies\"")
	assert.Contains(t, string(data), "status=Packaging")
	assert.Contains(t, string(data), "build command failed")
	assert.NotContains(t, buf.String(), "resolving dependencies")
}

func TestLogger_SetFile_Disabled(t *testing.T) {
	lg, _ := newTestLogger(t)

	lg.SetFile(domain.LogSettings{})
	lg.Info("console only")
	assert.NoError(t, lg.Close())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("INFO"))
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("verbose"))
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lg.Info("concurrent info")
			lg.Warn("concurrent warn")
			lg.Error(errors.New("concurrent error"))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		lg.SetOutput(&bytes.Buffer{})
	}()
	wg.Wait()
}
