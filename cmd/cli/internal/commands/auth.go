package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type LoginCmd struct {
	Email    string `help:"Account email." required:""`
	Password string `help:"Account password. Prompted when omitted." env:"RCPTSCAN_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	password := l.Password
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	auth, err := app.api.Login(ctx, l.Email, password)
	if err != nil {
		return err
	}

	// Fetch the profile with the fresh token explicitly, the session
	// hasn't been updated yet.
	user, err := app.api.CurrentUser(ctx, auth.AccessToken)
	if err != nil {
		return err
	}

	app.session.SetAuth(ctx, *user, auth.AccessToken)

	fmt.Printf("Signed in as %s\n", user.Email)
	return nil
}

type RegisterCmd struct {
	Email    string `help:"Account email." required:""`
	Password string `help:"Account password. Prompted when omitted." env:"RCPTSCAN_PASSWORD"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	password := r.Password
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	user, err := app.api.Register(ctx, r.Email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created for %s\n", user.Email)
	fmt.Println("Sign in with: rcptscan login --email " + user.Email)
	return nil
}

type WhoamiCmd struct {
	Remote bool `help:"Ask the backend instead of showing the stored profile."`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if w.Remote {
		user, err := app.api.CurrentUser(ctx, "")
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", user.Email, user.ID)
		return nil
	}

	user, _ := app.session.User()
	fmt.Printf("%s (%s)\n", user.Email, user.ID)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	app.session.Logout(ctx)

	fmt.Println("Signed out.")
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
