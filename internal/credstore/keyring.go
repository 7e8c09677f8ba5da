package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps credentials in the OS-native credential storage
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
// Each machine is one item under the service, keyed by its lower-cased name.
type KeyringStore struct {
	service string
}

// Compile-time check to ensure KeyringStore implements CredentialStore
var _ CredentialStore = (*KeyringStore)(nil)

// keyringItem is the JSON document stored as the keyring secret.
type keyringItem struct {
	Login    string `json:"login,omitempty"`
	Password string `json:"password"`
}

// NewKeyringStore creates a KeyringStore for the given service identifier.
func NewKeyringStore(service string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}

	return &KeyringStore{
		service: service,
	}, nil
}

// Lookup returns the credentials stored for machine.
func (k *KeyringStore) Lookup(ctx context.Context, machine string) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	if machine == "" {
		return Credentials{}, fmt.Errorf("%w: machine cannot be empty", ErrInvalidArgument)
	}

	item, found, err := k.get(machine)
	if err != nil {
		return Credentials{}, err
	}
	if !found {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoEntry, machine)
	}
	if item.Password == "" {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoPassword, machine)
	}
	return Credentials{Login: item.Login, Password: item.Password}, nil
}

// Store writes the credentials for machine, overwriting the stored password.
// The stored login is kept when login is empty.
func (k *KeyringStore) Store(ctx context.Context, machine, login, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if machine == "" {
		return fmt.Errorf("%w: machine cannot be empty", ErrInvalidArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidArgument)
	}

	item, _, err := k.get(machine)
	if err != nil {
		return err
	}
	item.Password = password
	if login != "" {
		item.Login = login
	}

	secret, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding keyring item: %w", err)
	}
	return keyring.Set(k.service, strings.ToLower(machine), string(secret))
}

func (k *KeyringStore) get(machine string) (keyringItem, bool, error) {
	secret, err := keyring.Get(k.service, strings.ToLower(machine))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return keyringItem{}, false, nil
		}
		return keyringItem{}, false, fmt.Errorf("reading keyring for service %s: %w", k.service, err)
	}

	var item keyringItem
	if err := json.Unmarshal([]byte(secret), &item); err != nil {
		return keyringItem{}, false, fmt.Errorf("decoding keyring item for %s: %w", machine, err)
	}
	return item, true, nil
}
