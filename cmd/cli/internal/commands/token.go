package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCmd dumps the stored token's claims without verifying the
// signature. Useful for checking expiry when the backend starts
// answering 401.
type TokenCmd struct{}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	token, ok := app.session.Token()
	if !ok {
		return fmt.Errorf("no token stored. Run: rcptscan login")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("stored token is not a JWT: %w", err)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Printf("Subject:  %s\n", sub)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Printf("Expires:  %s", exp.Format(time.RFC3339))
		if time.Now().After(exp.Time) {
			fmt.Print(" (expired)")
		}
		fmt.Println()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		fmt.Printf("Issued:   %s\n", iat.Format(time.RFC3339))
	}

	return nil
}
