package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathValidatorResolvePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	validator, err := NewPathValidator(root)
	require.NoError(t, err)

	t.Run("root path resolves to root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("/")
		require.NoError(t, resolveErr)
		require.Equal(t, validator.RootAbs(), resolved)
	})

	t.Run("image name resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("space-1.jpg")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "space-1.jpg"), resolved)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("../secrets.txt")
		require.Error(t, resolveErr)
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("space\n1.jpg")
		require.Error(t, resolveErr)
	})

	t.Run("null bytes are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("space\x001.jpg")
		require.Error(t, resolveErr)
	})
}

func TestStorageRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := New(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	written, err := store.Save("space-1.png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	require.Equal(t, int64(9), written)

	file, info, err := store.Open("space-1.png")
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, int64(9), info.Size())

	require.NoError(t, store.Remove("space-1.png"))
	_, _, err = store.Open("space-1.png")
	require.Error(t, err)

	// Removing a missing file is not an error.
	require.NoError(t, store.Remove("space-1.png"))
}
