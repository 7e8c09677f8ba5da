package netrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// Credentials is the login/password pair stored for a machine.
type Credentials struct {
	Login    string
	Password string
}

// Store looks up and updates entries in the file resolved by its Locator.
// It keeps no state between calls.
type Store struct {
	locator *Locator
}

// NewStore creates a Store backed by locator.
func NewStore(locator *Locator) *Store {
	return &Store{locator: locator}
}

// Path returns the file the Store currently operates on.
func (s *Store) Path() (string, error) {
	return s.locator.Locate()
}

// Lookup returns the credentials stored for machine, compared
// case-insensitively. The login may be empty.
func (s *Store) Lookup(machine string) (Credentials, error) {
	if machine == "" {
		return Credentials{}, fmt.Errorf("%w: machine cannot be empty", ErrInvalidArgument)
	}

	path, err := s.locator.Locate()
	if err != nil {
		return Credentials{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, &IOError{Op: "read", Path: path, Err: err}
	}

	entry, ok := find(Parse(string(data)), machine)
	if !ok {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoEntry, machine)
	}
	if entry.Password == "" {
		return Credentials{}, fmt.Errorf("%w for %s", ErrNoPassword, machine)
	}
	return Credentials{Login: entry.Login, Password: entry.Password}, nil
}

// Update sets the password for machine and, when login is non-empty, its
// login. An existing entry is rewritten in place; otherwise a new line is
// appended. All other lines are written back unchanged.
//
// Only the first entry matching machine is rewritten. Later duplicates are
// left as they are even though Lookup prefers the last one.
func (s *Store) Update(machine, login, password string) error {
	if err := validateUpdate(machine, login, password); err != nil {
		return err
	}

	path, err := s.locator.Locate()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}

	content := strings.Join(rewrite(parseLines(string(data)), machine, login, password), "\n")
	return writeFile(path, []byte(content))
}

func validateUpdate(machine, login, password string) error {
	if machine == "" {
		return fmt.Errorf("%w: machine cannot be empty", ErrInvalidArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidArgument)
	}
	for _, v := range []struct{ name, value string }{
		{keyMachine, machine},
		{keyLogin, login},
		{keyPassword, password},
	} {
		if strings.ContainsFunc(v.value, unicode.IsSpace) {
			return fmt.Errorf("%w: %s cannot contain whitespace", ErrInvalidArgument, v.name)
		}
	}
	return nil
}

// position addresses a field within the parsed lines.
type position struct {
	line  int
	field int
}

// firstMatch returns the first machine field whose value matches machine.
func firstMatch(lines []line, machine string) (position, bool) {
	for i, l := range lines {
		for j, f := range l.fields {
			if f.key == keyMachine && f.value >= 0 && sameMachine(l.valueOf(f), machine) {
				return position{line: i, field: j}, true
			}
		}
	}
	return position{}, false
}

// rewrite produces the new file lines: everything before the first match
// verbatim, the matched entry updated, everything after it verbatim. Without
// a match a new entry is appended.
func rewrite(lines []line, machine, login, password string) []string {
	out := make([]string, 0, len(lines)+1)

	at, ok := firstMatch(lines, machine)
	if !ok {
		for _, l := range lines {
			out = append(out, l.text)
		}
		return append(out, newEntryLine(machine, login, password))
	}

	for _, l := range lines[:at.line] {
		out = append(out, l.text)
	}
	span := updateEntry(lines, at, login, password)
	for _, l := range span {
		out = append(out, l.String())
	}
	for _, l := range lines[at.line+len(span):] {
		out = append(out, l.text)
	}
	return out
}

// updateEntry rewrites the fields of the entry starting at at. The entry runs
// until the next machine, default or macdef keyword, possibly over several
// lines. Missing password (or login, when one is given) fields are inserted
// right after the machine value.
func updateEntry(lines []line, at position, login, password string) []line {
	var (
		span                  []line
		hasLogin, hasPassword bool
	)
	for i := at.line; i < len(lines); i++ {
		l := lines[i]
		if l.macro {
			break
		}
		l.tokens = slices.Clone(l.tokens)

		start := 0
		if i == at.line {
			start = at.field + 1
		}
		stop := false
		for _, f := range l.fields[start:] {
			switch f.key {
			case keyMachine, keyDefault, keyMacdef:
				stop = true
			case keyPassword:
				hasPassword = true
				if !f.next {
					l.tokens = setValue(l.tokens, f, password)
				}
			case keyLogin, keyUser:
				hasLogin = true
				if login != "" && !f.next {
					l.tokens = setValue(l.tokens, f, login)
				}
			}
			if stop {
				break
			}
		}
		span = append(span, l)
		if stop {
			break
		}
	}

	var missing []token
	if login != "" && !hasLogin {
		missing = append(missing, token{sep: " ", text: keyLogin}, token{sep: " ", text: quote(login)})
	}
	if !hasPassword {
		missing = append(missing, token{sep: " ", text: keyPassword}, token{sep: " ", text: quote(password)})
	}
	if len(missing) > 0 {
		machineValue := lines[at.line].fields[at.field].value
		span[0].tokens = slices.Insert(span[0].tokens, machineValue+1, missing...)
	}
	return span
}

func setValue(tokens []token, f field, value string) []token {
	if f.value < 0 {
		return append(tokens, token{sep: " ", text: quote(value)})
	}
	tokens[f.value].text = quote(value)
	return tokens
}

func newEntryLine(machine, login, password string) string {
	parts := []string{keyMachine, quote(strings.ToLower(machine))}
	if login != "" {
		parts = append(parts, keyLogin, quote(login))
	}
	parts = append(parts, keyPassword, quote(password))
	return strings.Join(parts, " ")
}

// writeFile replaces path with data through a temporary file in the same
// directory. Symlinks are followed and the original permission bits and
// owner kept. The file is overwritten in place instead when it has other
// hard links or its directory does not allow creating the temporary file.
func writeFile(path string, data []byte) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	mode := os.FileMode(0600)
	owner := fileOwner{uid: -1, gid: -1}
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
		owner = ownerOf(info)
	}
	if owner.links > 1 {
		return overwrite(target, data, mode)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(target), ".netrc-*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return overwrite(target, data, mode)
		}
		return &IOError{Op: "write", Path: target, Err: err}
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return &IOError{Op: "write", Path: target, Err: err}
	}
	if err := tempFile.Chmod(mode); err != nil {
		return &IOError{Op: "chmod", Path: target, Err: err}
	}
	if owner.uid >= 0 {
		// Best effort: only privileged callers can give the file away.
		_ = tempFile.Chown(owner.uid, owner.gid)
	}
	if err := tempFile.Close(); err != nil {
		return &IOError{Op: "write", Path: target, Err: err}
	}
	if err := os.Rename(tempName, target); err != nil {
		return &IOError{Op: "rename", Path: target, Err: err}
	}
	return nil
}

// overwrite truncates and rewrites target in place.
func overwrite(target string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(target, data, mode); err != nil {
		return &IOError{Op: "write", Path: target, Err: err}
	}
	return nil
}
