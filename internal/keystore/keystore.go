// Package keystore persists the bearer token and user profile across runs.
//
// The backend is chosen once at startup; everything above this package talks
// to the Store interface and never branches on where the bytes live.
package keystore

import (
	"context"
	"errors"
)

// Sentinel errors
var (
	// ErrNotFound is returned by Get when no value exists for the key.
	ErrNotFound = errors.New("keystore: key not found")
)

// Well-known keys. Both are written together on login and removed
// together on logout.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Store is the capability required to persist credentials.
// Implementations return real errors; the session layer decides how much
// failure to tolerate.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
