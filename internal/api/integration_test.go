package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcptscan/rcptscan/internal/cache"
	"github.com/rcptscan/rcptscan/internal/client"
	"github.com/rcptscan/rcptscan/internal/keystore"
	"github.com/rcptscan/rcptscan/internal/session"
)

// newStack wires session, client and API the way cmd/cli does.
func newStack(store keystore.Store, url string) (*session.Session, *API) {
	sess := session.New(store, zerolog.Nop())
	c := client.New(client.Config{
		BaseURL:     url,
		TokenSource: sess.Token,
		OnLogout:    sess.Logout,
		Logger:      zerolog.Nop(),
	})
	return sess, New(c, cache.New(), zerolog.Nop())
}

func TestLoginPersistRestore(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(w, AuthResponse{AccessToken: "tok-123", TokenType: "bearer"})
		case "/auth/me":
			// The freshly minted token must arrive explicitly; the session
			// has nothing yet.
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(w, map[string]string{"_id": "u-1", "email": "sam@example.com"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store := keystore.NewMemory()
	sess, a := newStack(store, server.URL)
	sess.LoadToken(ctx)
	require.False(t, sess.Authenticated())

	auth, err := a.Login(ctx, "sam@example.com", "hunter2")
	require.NoError(t, err)

	user, err := a.CurrentUser(ctx, auth.AccessToken)
	require.NoError(t, err)

	sess.SetAuth(ctx, *user, auth.AccessToken)
	require.True(t, sess.Authenticated())

	// Fresh process over the same storage restores the same state.
	restored, _ := newStack(store, server.URL)
	restored.LoadToken(ctx)
	assert.True(t, restored.Authenticated())
	token, _ := restored.Token()
	assert.Equal(t, "tok-123", token)
	restoredUser, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, "sam@example.com", restoredUser.Email)
}

func TestExpiredTokenForcesLogout(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	store := keystore.NewMemory()
	sess, a := newStack(store, server.URL)
	sess.SetAuth(ctx, session.User{ID: "u-1", Email: "sam@example.com"}, "stale-token")

	_, err := a.ListReceipts(ctx, 1, 10)
	require.Error(t, err)

	// By the time the caller sees the error, the session is already
	// signed out and the persisted credentials are gone.
	assert.False(t, sess.Authenticated())
	_, getErr := store.Get(ctx, keystore.TokenKey)
	assert.ErrorIs(t, getErr, keystore.ErrNotFound)
	assert.Contains(t, err.Error(), "Could not validate credentials")
}
