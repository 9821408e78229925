package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcptscan/rcptscan/internal/api"
	"github.com/rcptscan/rcptscan/internal/cache"
	"github.com/rcptscan/rcptscan/internal/client"
	"github.com/rcptscan/rcptscan/internal/config"
	"github.com/rcptscan/rcptscan/internal/logger"
	"github.com/rcptscan/rcptscan/internal/session"
)

type Globals struct {
	Debug    bool
	Endpoint string
	Config   string
	Version  string
}

// app wires the client stack for one command invocation: config, logger,
// credential store, session (restored from storage), HTTP client, API.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	session *session.Session
	api     *api.API
}

func newApp(ctx context.Context, globals *Globals) (*app, error) {
	log := logger.Setup(globals.Debug)

	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if globals.Endpoint != "" {
		cfg.Endpoint = globals.Endpoint
	}

	store, err := config.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	sess := session.New(store, log)
	sess.LoadToken(ctx)

	httpClient := client.New(client.Config{
		BaseURL:     cfg.Endpoint,
		Timeout:     cfg.Timeout,
		TokenSource: sess.Token,
		Policy:      client.DefaultPolicy,
		OnLogout:    sess.Logout,
		Logger:      log,
	})

	return &app{
		cfg:     cfg,
		logger:  log,
		session: sess,
		api:     api.New(httpClient, cache.New(), log),
	}, nil
}

// requireAuth fails fast with a friendly message when no credentials are
// stored, instead of letting the backend answer 401.
func (a *app) requireAuth() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not signed in. Run: rcptscan login")
	}
	return nil
}
