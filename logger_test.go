package dotmap

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, h.Enabled(context.Background(), level))
	}
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	assert.IsType(t, nopHandler{}, h.WithAttrs([]slog.Attr{slog.String("k", "v")}))
	assert.IsType(t, nopHandler{}, h.WithGroup("g"))
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	Logger().Info("pipeline message", slog.Int("dots", 42))
	require.Contains(t, buf.String(), "pipeline message")
	require.Contains(t, buf.String(), "dots=42")
}

func TestSetLogger_NilRestoresSilence(t *testing.T) {
	SetLogger(nil)

	require.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
