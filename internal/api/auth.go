package api

import (
	"context"
	"fmt"

	"github.com/rcptscan/rcptscan/internal/client"
	"github.com/rcptscan/rcptscan/internal/session"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (a *API) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := a.client.Post(ctx, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &out, nil
}

// Register creates a new account.
func (a *API) Register(ctx context.Context, email, password string) (*session.User, error) {
	var out session.User
	if err := a.client.Post(ctx, "/auth/register", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &out, nil
}

// CurrentUser fetches the signed-in user's profile. A non-empty
// tokenOverride is sent explicitly instead of the session token; used right
// after login, before the session has been updated.
func (a *API) CurrentUser(ctx context.Context, tokenOverride string) (*session.User, error) {
	var opts []client.Option
	if tokenOverride != "" {
		opts = append(opts, client.WithBearer(tokenOverride))
	}

	var out session.User
	if err := a.client.Get(ctx, "/auth/me", nil, &out, opts...); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return &out, nil
}
