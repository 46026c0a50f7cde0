package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)

	l.Debug("hidden")
	l.Info("rendered tree", "nodes", 14)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rendered tree")
	assert.Contains(t, out, "nodes=14")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, Level(true))
	assert.Equal(t, log.WarnLevel, Level(false))
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContext_Default(t *testing.T) {
	assert.Same(t, log.Default(), FromContext(context.Background()))
}

func TestTimer_Done(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.DebugLevel)

	Start(l).Done("parsed input", "bytes", 42)

	out := buf.String()
	assert.Contains(t, out, "parsed input")
	assert.Contains(t, out, "bytes=42")
	assert.Contains(t, out, "elapsed=")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonfmt.log")

	w, closeFn, err := OpenFile(path)
	require.NoError(t, err)
	New(w, log.DebugLevel).Debug("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestOpenFile_BadPath(t *testing.T) {
	_, closeFn, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"))
	require.Error(t, err)
	assert.NoError(t, closeFn())
}
