package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/florianilch/ddauth/internal/credstore"
)

// App resolves and persists credentials through the configured backend.
type App struct {
	cfg    *Config
	store  credstore.CredentialStore
	logger *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for operation logs. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithCredentialStore replaces the store built from configuration.
func WithCredentialStore(store credstore.CredentialStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// New creates a new App instance.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	// No I/O until the first Lookup or Store
	if a.store == nil {
		store, err := cfg.Auth.NewCredentialStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create credential store: %w", err)
		}
		a.store = store
	}

	return a, nil
}

// Backend returns the name of the configured backend.
func (a *App) Backend() string {
	return a.cfg.Auth.Backend
}

// Lookup returns the credentials stored for machine.
func (a *App) Lookup(ctx context.Context, machine string) (credstore.Credentials, error) {
	logger := a.logger.With("backend", a.cfg.Auth.Backend, "machine", machine)

	creds, err := a.store.Lookup(ctx, machine)
	if err != nil {
		logger.DebugContext(ctx, "credential lookup failed", "error", err)
		return credstore.Credentials{}, fmt.Errorf("lookup %s: %w", machine, err)
	}

	logger.DebugContext(ctx, "credentials found", "has_login", creds.Login != "")
	return creds, nil
}

// Store persists the password and optional login for machine.
func (a *App) Store(ctx context.Context, machine, login, password string) error {
	logger := a.logger.With("backend", a.cfg.Auth.Backend, "machine", machine)

	if err := a.store.Store(ctx, machine, login, password); err != nil {
		logger.ErrorContext(ctx, "storing credentials failed", "error", err)
		return fmt.Errorf("store %s: %w", machine, err)
	}

	logger.InfoContext(ctx, "credentials stored", "login_updated", login != "")
	return nil
}

// NetrcPath returns the netrc file the netrc backend operates on.
func (a *App) NetrcPath() (string, error) {
	n, ok := a.store.(*credstore.NetrcStore)
	if !ok {
		return "", fmt.Errorf("backend %s does not use a netrc file", a.cfg.Auth.Backend)
	}
	return n.Path()
}
