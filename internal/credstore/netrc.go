package credstore

import (
	"context"
	"fmt"

	"github.com/florianilch/ddauth/internal/netrc"
)

// NetrcStore keeps credentials in the first existing netrc file of a
// candidate list. The file must exist; it is never created.
type NetrcStore struct {
	store *netrc.Store
}

// Compile-time check to ensure NetrcStore implements CredentialStore
var _ CredentialStore = (*NetrcStore)(nil)

// NewNetrcStore creates a NetrcStore trying paths in order.
func NewNetrcStore(paths ...string) (*NetrcStore, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one netrc path is required")
	}

	return &NetrcStore{
		store: netrc.NewStore(netrc.NewLocator(paths...)),
	}, nil
}

// Path returns the netrc file currently in use.
func (n *NetrcStore) Path() (string, error) {
	return n.store.Path()
}

// Lookup returns the credentials of the netrc entry for machine.
func (n *NetrcStore) Lookup(ctx context.Context, machine string) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	creds, err := n.store.Lookup(machine)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Login: creds.Login, Password: creds.Password}, nil
}

// Store adds or updates the netrc entry for machine.
func (n *NetrcStore) Store(ctx context.Context, machine, login, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return n.store.Update(machine, login, password)
}
