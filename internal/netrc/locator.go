package netrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// UserFileName is the per-user file name under the home directory.
	UserFileName = ".netrc"

	// SystemPath is the system-wide fallback.
	SystemPath = "/etc/netrc"
)

// DefaultPaths returns the candidate files in precedence order:
// the running user's ~/.netrc, then /etc/netrc.
func DefaultPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return []string{filepath.Join(home, UserFileName), SystemPath}, nil
}

// Locator resolves which netrc file is authoritative.
type Locator struct {
	paths []string
}

// NewLocator creates a Locator trying paths in the given order.
func NewLocator(paths ...string) *Locator {
	return &Locator{paths: append([]string(nil), paths...)}
}

// Paths returns the candidate paths in precedence order.
func (l *Locator) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Locate returns the first candidate that exists as a file. Candidates that
// are missing, directories or not reachable for lack of permission are
// skipped. Returns ErrFileNotFound when there is none.
func (l *Locator) Locate() (string, error) {
	for _, path := range l.paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return "", &IOError{Op: "stat", Path: path, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", ErrFileNotFound
}
