package keystore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrCorruptEntry is returned when a sealed entry fails to decrypt,
// typically after tampering or a lost key file.
var ErrCorruptEntry = errors.New("keystore: entry cannot be decrypted")

const (
	secureKeyFile = "store.key"
	nonceSize     = 24
	keySize       = 32
)

// SecureStore seals each value with secretbox under a per-machine random
// key, so credentials are encrypted at rest. The key file lives alongside
// the entries with 0600 permissions.
type SecureStore struct {
	baseDir string
	key     [keySize]byte
}

// NewSecureStore creates an encrypted store rooted at baseDir, generating
// the sealing key on first use.
// If baseDir is empty, uses ~/.rcptscan/credentials/
func NewSecureStore(baseDir string) (*SecureStore, error) {
	baseDir, err := resolveBaseDir(baseDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	store := &SecureStore{baseDir: baseDir}

	if err := store.loadOrCreateKey(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("secure keystore initialized")

	return store, nil
}

func (s *SecureStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}

	if len(sealed) < nonceSize {
		return "", ErrCorruptEntry
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrCorruptEntry
	}

	return string(plain), nil
}

func (s *SecureStore) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)

	return writeFileAtomic(s.path(key), sealed)
}

func (s *SecureStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *SecureStore) path(key string) string {
	return filepath.Join(s.baseDir, sanitizeKey(key)+".sealed")
}

func (s *SecureStore) loadOrCreateKey() error {
	keyPath := filepath.Join(s.baseDir, secureKeyFile)

	data, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		if len(data) != keySize {
			return fmt.Errorf("invalid key file %s: expected %d bytes, got %d", keyPath, keySize, len(data))
		}
		copy(s.key[:], data)
		return nil
	case os.IsNotExist(err):
		if _, err := rand.Read(s.key[:]); err != nil {
			return fmt.Errorf("failed to generate sealing key: %w", err)
		}
		if err := writeFileAtomic(keyPath, s.key[:]); err != nil {
			return err
		}
		log.Debug().Str("keyPath", keyPath).Msg("generated new sealing key")
		return nil
	default:
		return fmt.Errorf("failed to read key file: %w", err)
	}
}
