package credstore

import (
	"context"
	"errors"

	"github.com/florianilch/ddauth/internal/netrc"
)

var (
	// ErrNoEntry is returned when the backend has no credentials for the machine.
	ErrNoEntry = netrc.ErrNoEntry

	// ErrNoPassword is returned when the stored credentials lack a password.
	ErrNoPassword = netrc.ErrNoPassword

	// ErrInvalidArgument is returned for an empty machine or password.
	ErrInvalidArgument = netrc.ErrInvalidArgument

	// ErrReadOnly is returned by Store on backends that cannot be written.
	ErrReadOnly = errors.New("credential storage is read-only")
)

// Credentials is the login/password pair stored for a machine.
type Credentials struct {
	Login    string
	Password string
}

// CredentialStore reads and writes credentials keyed by machine name.
// Machine names are compared case-insensitively by every backend.
type CredentialStore interface {
	// Lookup returns the credentials for machine. Returns ErrNoEntry when
	// nothing is stored and ErrNoPassword when the password is missing.
	Lookup(ctx context.Context, machine string) (Credentials, error)

	// Store persists the password and, when login is non-empty, the login for
	// machine. An empty login leaves a stored login unchanged.
	Store(ctx context.Context, machine, login, password string) error
}
