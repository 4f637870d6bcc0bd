package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nudge.log")

	log, err := New("debug", path)
	require.NoError(t, err)

	log.Info("hello from the test")
	require.NoError(t, log.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello from the test")
}

func TestNewFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nudge.log")

	log, err := New("warn", path)
	require.NoError(t, err)

	log.Info("too quiet to land")
	log.Warn("loud enough")
	require.NoError(t, log.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "too quiet to land")
	assert.Contains(t, string(content), "loud enough")
}
