package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadUsesUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, zerolog.Nop())
	require.NoError(t, err)

	first, err := store.Upload(context.Background(), "lecture.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Upload(context.Background(), "lecture.pdf", strings.NewReader("two"))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, ".pdf", filepath.Ext(first))

	content, err := os.ReadFile(filepath.FromSlash(first))
	require.NoError(t, err)
	require.Equal(t, "one", string(content))
}

func TestLocalRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, zerolog.Nop())
	require.NoError(t, err)

	path, err := store.Upload(context.Background(), "notes.zip", strings.NewReader("zip"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), path))
	_, err = os.Stat(filepath.FromSlash(path))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, store.Remove(context.Background(), path))
}

func TestLocalRemoveRefusesPathsOutsideDir(t *testing.T) {
	store, err := NewLocal(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	require.Error(t, store.Remove(context.Background(), "/etc/passwd"))
}
