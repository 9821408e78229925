package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcptscan/rcptscan/internal/keystore"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("endpoint: https://receipts.example.com\nstorage: plain\ntimeout: 10s\n"), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://receipts.example.com", cfg.Endpoint)
		assert.Equal(t, StoragePlain, cfg.Storage)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: memory\n"), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, Default().Endpoint, cfg.Endpoint)
		assert.Equal(t, Default().Timeout, cfg.Timeout)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("endpoint: [broken"), 0600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("selects each backend", func(t *testing.T) {
		dir := t.TempDir()

		store, err := OpenStore(Config{Storage: StoragePlain, DataDir: dir})
		require.NoError(t, err)
		assert.IsType(t, &keystore.FileStore{}, store)

		store, err = OpenStore(Config{Storage: StorageSecure, DataDir: dir})
		require.NoError(t, err)
		assert.IsType(t, &keystore.SecureStore{}, store)

		store, err = OpenStore(Config{Storage: StorageMemory})
		require.NoError(t, err)
		assert.IsType(t, &keystore.Memory{}, store)
	})

	t.Run("empty storage falls back to secure", func(t *testing.T) {
		store, err := OpenStore(Config{DataDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &keystore.SecureStore{}, store)
	})

	t.Run("unknown backend is an error", func(t *testing.T) {
		_, err := OpenStore(Config{Storage: "carrier-pigeon"})
		assert.Error(t, err)
	})
}
