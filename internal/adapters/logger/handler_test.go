package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/parcel/internal/adapters/logger"
)

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).With("pkg", "demo").WithGroup("req")

	lg.Info("fetched", "name", "zlib")
	assert.Equal(t, "fetched req.pkg=demo req.name=zlib\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	level := &slog.LevelVar{}
	h := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level})

	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	level.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(t.Context(), slog.LevelDebug))
}
