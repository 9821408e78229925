package keystore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates directory with correct permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		baseDir := filepath.Join(tmpDir, "creds")

		store, err := NewFileStore(baseDir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(baseDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("round trips a value", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))

		value, err := store.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", value)
	})

	t.Run("writes entries with 0600 permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewFileStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))

		info, err := os.Stat(filepath.Join(tmpDir, TokenKey))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))
		require.NoError(t, store.Delete(ctx, TokenKey))
		require.NoError(t, store.Delete(ctx, TokenKey))

		_, err = store.Get(ctx, TokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sanitizes hostile keys", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewFileStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, "../escape", "x"))

		// Nothing written outside the base directory
		_, err = os.Stat(filepath.Join(filepath.Dir(tmpDir), "escape"))
		assert.True(t, os.IsNotExist(err))

		value, err := store.Get(ctx, "../escape")
		require.NoError(t, err)
		assert.Equal(t, "x", value)
	})
}

func TestSecureStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a value", func(t *testing.T) {
		store, err := NewSecureStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))

		value, err := store.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", value)
	})

	t.Run("value is not stored in the clear", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewSecureStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "super-secret-token"))

		data, err := os.ReadFile(filepath.Join(tmpDir, TokenKey+".sealed"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "super-secret-token")
	})

	t.Run("survives reopening the store", func(t *testing.T) {
		tmpDir := t.TempDir()

		first, err := NewSecureStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, first.Set(ctx, TokenKey, "tok-123"))

		second, err := NewSecureStore(tmpDir)
		require.NoError(t, err)

		value, err := second.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", value)
	})

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		store, err := NewSecureStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("detects tampered entries", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewSecureStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))

		path := filepath.Join(tmpDir, TokenKey+".sealed")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data[len(data)-1] ^= 0xff
		require.NoError(t, os.WriteFile(path, data, 0600))

		_, err = store.Get(ctx, TokenKey)
		assert.ErrorIs(t, err, ErrCorruptEntry)
	})

	t.Run("distinct keys per directory", func(t *testing.T) {
		first, err := NewSecureStore(t.TempDir())
		require.NoError(t, err)
		second, err := NewSecureStore(t.TempDir())
		require.NoError(t, err)

		assert.NotEqual(t, first.key, second.key)
	})
}

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a value", func(t *testing.T) {
		store := NewMemory()

		require.NoError(t, store.Set(ctx, TokenKey, "tok-123"))

		value, err := store.Get(ctx, TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", value)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		store := NewMemory()

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("FailWith poisons every operation", func(t *testing.T) {
		boom := errors.New("disk on fire")
		store := NewMemory()
		store.FailWith = boom

		assert.ErrorIs(t, store.Set(ctx, TokenKey, "x"), boom)
		_, err := store.Get(ctx, TokenKey)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, store.Delete(ctx, TokenKey), boom)
	})
}
