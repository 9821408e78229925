// Package config loads the client configuration file and selects the
// credential storage backend. Backend selection happens exactly once here;
// nothing downstream branches on the platform again.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/rcptscan/rcptscan/internal/keystore"
)

// Storage backend names accepted in the config file.
const (
	StoragePlain  = "plain"
	StorageSecure = "secure"
	StorageMemory = "memory"
)

// Config is the client configuration, loaded from ~/.rcptscan/config.yaml
// with flags and environment overriding individual fields.
type Config struct {
	// Endpoint is the backend base URL.
	Endpoint string `yaml:"endpoint"`
	// Storage picks the credential backend: plain, secure or memory.
	Storage string `yaml:"storage"`
	// DataDir overrides where credentials are kept.
	DataDir string `yaml:"data_dir"`
	// Timeout for backend requests.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint: "http://localhost:8000",
		Storage:  StorageSecure,
		Timeout:  30 * time.Second,
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home directory, no config file. Defaults apply.
			log.Debug().Err(err).Msg("no home directory, using default config")
			return cfg, nil
		}
		path = filepath.Join(home, ".rcptscan", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("loaded config file")

	return cfg, nil
}

// OpenStore creates the credential store named by the config.
func OpenStore(cfg Config) (keystore.Store, error) {
	switch cfg.Storage {
	case StoragePlain:
		return keystore.NewFileStore(cfg.DataDir)
	case StorageSecure, "":
		return keystore.NewSecureStore(cfg.DataDir)
	case StorageMemory:
		return keystore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
