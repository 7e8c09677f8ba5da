// Package credstore provides the credential backends a DNS update client
// can authenticate with.
//
// Supports three storage backends with different security and deployment tradeoffs:
//   - Netrc: plain-text netrc(5) file, ~/.netrc with /etc/netrc as fallback
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - Env: Read-only environment variable access (requires external secret management)
//
// Every backend answers Lookup with the same sentinel errors, so callers can
// switch backends without changing their error handling.
package credstore
