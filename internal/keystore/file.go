package keystore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileStore keeps one plain file per key under a private base directory.
// This is the default backend on platforms without an encrypted store.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file-backed store rooted at baseDir.
// If baseDir is empty, uses ~/.rcptscan/credentials/
func NewFileStore(baseDir string) (*FileStore, error) {
	baseDir, err := resolveBaseDir(baseDir)
	if err != nil {
		return nil, err
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("file keystore initialized")

	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	return writeFileAtomic(s.path(key), []byte(value))
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, sanitizeKey(key))
}

func resolveBaseDir(baseDir string) (string, error) {
	if baseDir != "" {
		return baseDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rcptscan", "credentials"), nil
}

// sanitizeKey keeps key-derived filenames from escaping the base directory.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, key)
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated credential on disk.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}

	return nil
}
