// Package session holds the process-wide authentication state: the bearer
// token, the signed-in user, and the transitions between signed-in and
// signed-out.
//
// The session is the fail-safe boundary around credential storage: in-memory
// state always wins, and storage failures are logged and absorbed so a broken
// disk degrades to "not logged in" instead of an error the user cannot act on.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"github.com/rcptscan/rcptscan/internal/keystore"
)

// User is the profile returned by the backend for the signed-in account.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the authentication state machine. Construct one per process
// with New and pass it to whatever needs the current token; there is no
// package-level instance.
type Session struct {
	store  keystore.Store
	logger zerolog.Logger

	loadOnce sync.Once

	mu     sync.RWMutex
	token  string
	user   *User
	loaded bool
}

// New creates an empty, unauthenticated session backed by store.
func New(store keystore.Store, logger zerolog.Logger) *Session {
	return &Session{store: store, logger: logger}
}

// Token returns the current bearer token, if any.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// User returns a copy of the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Loaded reports whether LoadToken has completed. It transitions from
// false to true exactly once per process and never goes back.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// SetAuth transitions to authenticated. In-memory state is updated first so
// callers observe the new identity immediately; persistence is best effort
// and a partial write is never rolled back.
func (s *Session) SetAuth(ctx context.Context, user User, token string) {
	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	s.logger.Debug().
		Str("email", user.Email).
		Str("tokenFingerprint", fingerprint(token)).
		Msg("session authenticated")

	if err := s.store.Set(ctx, keystore.TokenKey, token); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist token")
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode user")
		return
	}
	if err := s.store.Set(ctx, keystore.UserKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist user")
	}
}

// Logout deletes the persisted credentials best-effort, then
// unconditionally clears the in-memory state. After Logout returns the
// session is unauthenticated no matter what storage did.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Delete(ctx, keystore.TokenKey); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete persisted token")
	}
	if err := s.store.Delete(ctx, keystore.UserKey); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete persisted user")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.logger.Debug().Msg("session cleared")
}

// LoadToken restores persisted credentials. Only the first call does any
// work; it always finishes with Loaded() == true, whether or not anything
// was restored. Authentication is restored only when both the token and
// the user record are present and readable.
func (s *Session) LoadToken(ctx context.Context) {
	s.loadOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loaded = true
			s.mu.Unlock()
		}()

		token, err := s.readValue(ctx, keystore.TokenKey)
		if err != nil || token == "" {
			return
		}

		userJSON, err := s.readValue(ctx, keystore.UserKey)
		if err != nil || userJSON == "" {
			return
		}

		var user User
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode persisted user")
			return
		}

		s.mu.Lock()
		s.token = token
		s.user = &user
		s.mu.Unlock()

		s.logger.Debug().
			Str("email", user.Email).
			Str("tokenFingerprint", fingerprint(token)).
			Msg("session restored from storage")
	})
}

// readValue treats both absence and storage failure as "no value",
// logging only real failures.
func (s *Session) readValue(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, keystore.ErrNotFound) {
			s.logger.Error().Err(err).Str("key", key).Msg("failed to read persisted credential")
		}
		return "", err
	}
	return value, nil
}

// fingerprint returns a short identifier for a token that is safe to log.
func fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:])[:12]
}
