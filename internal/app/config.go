package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/ddauth/internal/credstore"
	"github.com/florianilch/ddauth/internal/netrc"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogExporter selects where log records are shipped.
type LogExporter string

const (
	LogExporterNone     LogExporter = "none"
	LogExporterStdout   LogExporter = "stdout"
	LogExporterOTLPHTTP LogExporter = "otlp-http"
	LogExporterOTLPGRPC LogExporter = "otlp-grpc"
)

// Default configuration values
const (
	DefaultConfigLogFormat      = LogFormatText
	DefaultConfigLogExporter    = LogExporterNone
	DefaultConfigAuthBackend    = credstore.BackendNetrc
	DefaultConfigKeyringService = "ddauth"
	DefaultConfigEnvPrefix      = "DDNS_AUTH_"
)

// AuthConfig describes which credential backend to construct and how.
type AuthConfig struct {
	Backend string `json:"backend" validate:"required,oneof=netrc keyring env"`

	// Backend-specific settings (only the selected backend's settings are used)
	NetrcPaths     []string `json:"netrc_paths,omitempty" validate:"omitempty,dive,required"` // For netrc: candidate files in precedence order
	KeyringService string   `json:"keyring_service,omitempty"`                                // For keyring: service identifier
	EnvPrefix      string   `json:"env_prefix,omitempty"`                                     // For env: variable name prefix
}

// NewCredentialStore creates a CredentialStore from the authentication configuration.
func (a *AuthConfig) NewCredentialStore() (credstore.CredentialStore, error) {
	switch a.Backend {
	case credstore.BackendNetrc:
		return credstore.NewNetrcStore(a.NetrcPaths...)
	case credstore.BackendKeyring:
		return credstore.NewKeyringStore(a.KeyringService)
	case credstore.BackendEnv:
		return credstore.NewEnvStore(a.EnvPrefix)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", a.Backend)
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level  `json:"log_level"`
	LogFormat   LogFormat   `json:"log_format" validate:"oneof=text json"`
	LogExporter LogExporter `json:"log_exporter" validate:"oneof=none stdout otlp-http otlp-grpc"`
	Auth        AuthConfig  `json:"auth"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.Auth.Backend == "" {
		c.Auth.Backend = DefaultConfigAuthBackend
	}

	// Dynamic defaults based on backend
	switch c.Auth.Backend {
	case credstore.BackendNetrc:
		if len(c.Auth.NetrcPaths) == 0 {
			paths, err := netrc.DefaultPaths()
			if err != nil {
				return fmt.Errorf("auth.netrc_paths required (auto-detect failed: %w)", err)
			}
			c.Auth.NetrcPaths = paths
		}
	case credstore.BackendKeyring:
		if c.Auth.KeyringService == "" {
			c.Auth.KeyringService = DefaultConfigKeyringService
		}
	case credstore.BackendEnv:
		if c.Auth.EnvPrefix == "" {
			c.Auth.EnvPrefix = DefaultConfigEnvPrefix
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and backend requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Auth.Backend {
	case credstore.BackendNetrc:
		if len(c.Auth.NetrcPaths) == 0 {
			return errors.New("netrc_paths required for netrc backend")
		}
	case credstore.BackendKeyring:
		if c.Auth.KeyringService == "" {
			return errors.New("keyring_service required for keyring backend")
		}
	case credstore.BackendEnv:
		if c.Auth.EnvPrefix == "" {
			return errors.New("env_prefix required for env backend")
		}
	}

	return nil
}
