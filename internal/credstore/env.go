package credstore

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvStore provides read-only access to credentials in environment variables.
// Machine "members.dyndns.org" with prefix "DDNS_AUTH_" is read from
// DDNS_AUTH_MEMBERS_DYNDNS_ORG_LOGIN and DDNS_AUTH_MEMBERS_DYNDNS_ORG_PASSWORD.
type EnvStore struct {
	prefix string
}

// Compile-time check to ensure EnvStore implements CredentialStore
var _ CredentialStore = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore reading variables with the given prefix.
func NewEnvStore(prefix string) (*EnvStore, error) {
	if prefix == "" {
		return nil, fmt.Errorf("environment prefix cannot be empty")
	}

	return &EnvStore{
		prefix: prefix,
	}, nil
}

// EnvKey returns the variable name holding field ("LOGIN" or "PASSWORD") for machine.
func (e *EnvStore) EnvKey(machine, field string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		default:
			return '_'
		}
	}, machine)
	return e.prefix + name + "_" + field
}

// Lookup returns the credentials from the environment.
func (e *EnvStore) Lookup(ctx context.Context, machine string) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	if machine == "" {
		return Credentials{}, fmt.Errorf("%w: machine cannot be empty", ErrInvalidArgument)
	}

	login, hasLogin := os.LookupEnv(e.EnvKey(machine, "LOGIN"))
	password, hasPassword := os.LookupEnv(e.EnvKey(machine, "PASSWORD"))
	if !hasLogin && !hasPassword {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoEntry, machine)
	}
	if password == "" {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoPassword, machine)
	}
	return Credentials{Login: login, Password: password}, nil
}

// Store is not supported for environment variables (they are read-only).
func (e *EnvStore) Store(ctx context.Context, machine, login, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return ErrReadOnly
}
