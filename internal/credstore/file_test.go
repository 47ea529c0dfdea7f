package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "credential")
	store := NewFileStore(path)

	require.NoError(t, store.Save("tok-123"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credential"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credential"))

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestFileStoreClear(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credential"))
	require.NoError(t, store.Save("tok"))

	require.NoError(t, store.Clear())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an already-empty slot is not an error.
	assert.NoError(t, store.Clear())
}
