package netrc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore writes content to a netrc file in a temporary directory and
// returns a Store using it together with the file path.
func newTestStore(t *testing.T, content string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".netrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return NewStore(NewLocator(path, filepath.Join(t.TempDir(), "netrc"))), path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStoreRoundTrip(t *testing.T) {
	store, path := newTestStore(t, "")

	require.NoError(t, store.Update("example.com", "alice", "secret"))
	creds, err := store.Lookup("EXAMPLE.COM")

	require.NoError(t, err)
	assert.Equal(t, Credentials{Login: "alice", Password: "secret"}, creds)
	assert.Equal(t, "machine example.com login alice password secret", readFile(t, path))
}

func TestStoreUpdateIsIdempotent(t *testing.T) {
	store, path := newTestStore(t, "machine other.com login x password y\n")

	require.NoError(t, store.Update("example.com", "alice", "secret"))
	first := readFile(t, path)
	require.NoError(t, store.Update("example.com", "alice", "secret"))
	second := readFile(t, path)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, "machine example.com"))
}

func TestStoreUpdatePreservesOtherEntries(t *testing.T) {
	store, path := newTestStore(t, "machine other.com login carol password keep\nmachine example.com login bob password old\n")

	require.NoError(t, store.Update("example.com", "", "new"))

	lines := strings.Split(readFile(t, path), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "machine other.com login carol password keep", lines[0])
	assert.Equal(t, "machine example.com login bob password new", lines[1])
}

func TestStoreUpdateWithoutLoginKeepsExistingLogin(t *testing.T) {
	store, _ := newTestStore(t, "machine example.com login bob password old")

	require.NoError(t, store.Update("example.com", "", "new"))
	creds, err := store.Lookup("example.com")

	require.NoError(t, err)
	assert.Equal(t, Credentials{Login: "bob", Password: "new"}, creds)
}

func TestStoreUpdateAppendsOnMiss(t *testing.T) {
	original := "# dyndns accounts\nmachine other.com login carol password keep"
	store, path := newTestStore(t, original+"\n")

	require.NoError(t, store.Update("New.Example.com", "dave", "pw"))

	assert.Equal(t, original+"\nmachine new.example.com login dave password pw", readFile(t, path))
}

func TestStoreUpdateKeepsFileMode(t *testing.T) {
	store, path := newTestStore(t, "machine example.com password old")
	require.NoError(t, os.Chmod(path, 0640))

	require.NoError(t, store.Update("example.com", "", "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestStoreUpdateFollowsSymlink(t *testing.T) {
	store, target := newTestStore(t, "machine example.com password old")
	link := filepath.Join(t.TempDir(), ".netrc")
	require.NoError(t, os.Symlink(target, link))
	store = NewStore(NewLocator(link))

	require.NoError(t, store.Update("example.com", "", "new"))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "symlink replaced by a regular file")
	assert.Equal(t, "machine example.com password new", readFile(t, target))
}

func TestStoreUpdateInvalidArguments(t *testing.T) {
	store, path := newTestStore(t, "machine example.com password old")

	tests := []struct {
		name     string
		machine  string
		login    string
		password string
	}{
		{name: "empty machine", password: "pw"},
		{name: "empty password", machine: "example.com"},
		{name: "password with space", machine: "example.com", password: "two words"},
		{name: "login with tab", machine: "example.com", login: "a\tb", password: "pw"},
		{name: "machine with newline", machine: "example.com\nmachine", password: "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Update(tt.machine, tt.login, tt.password)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	assert.Equal(t, "machine example.com password old", readFile(t, path))
}

func TestStoreLookupErrors(t *testing.T) {
	t.Run("no entry", func(t *testing.T) {
		store, _ := newTestStore(t, "machine other.com login x password y\n")

		_, err := store.Lookup("example.com")

		require.ErrorIs(t, err, ErrNoEntry)
		assert.Equal(t, "no netrc data found for example.com", err.Error())
	})

	t.Run("no file", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(NewLocator(filepath.Join(dir, ".netrc"), filepath.Join(dir, "netrc")))

		_, err := store.Lookup("example.com")
		assert.ErrorIs(t, err, ErrFileNotFound)

		err = store.Update("example.com", "alice", "secret")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("no password", func(t *testing.T) {
		store, _ := newTestStore(t, "machine example.com login bob\n")

		_, err := store.Lookup("example.com")

		require.ErrorIs(t, err, ErrNoPassword)
		assert.Equal(t, "no password found for example.com", err.Error())
	})

	t.Run("empty password value", func(t *testing.T) {
		store, _ := newTestStore(t, "machine example.com login bob password\n")

		_, err := store.Lookup("example.com")

		assert.ErrorIs(t, err, ErrNoPassword)
	})

	t.Run("quoted empty password", func(t *testing.T) {
		store, _ := newTestStore(t, "machine example.com login bob password \"\"\n")

		_, err := store.Lookup("example.com")

		assert.ErrorIs(t, err, ErrNoPassword)
	})

	t.Run("empty machine", func(t *testing.T) {
		store, _ := newTestStore(t, "")

		_, err := store.Lookup("")

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestStoreLookupQuotedValues(t *testing.T) {
	store, _ := newTestStore(t, `machine "example.com" login "bob" password "a b\"c"`+"\n")

	creds, err := store.Lookup("example.com")

	require.NoError(t, err)
	assert.Equal(t, Credentials{Login: "bob", Password: `a b"c`}, creds)
}

func TestStoreLookupValueOnNextLine(t *testing.T) {
	store, _ := newTestStore(t, "machine\n  example.com login bob password\n\n  secret\n")

	creds, err := store.Lookup("example.com")

	require.NoError(t, err)
	assert.Equal(t, Credentials{Login: "bob", Password: "secret"}, creds)
}

func TestStoreRoundTripEscapedPassword(t *testing.T) {
	store, path := newTestStore(t, "machine example.com login bob password old")

	require.NoError(t, store.Update("example.com", "", `p"w\x`))
	creds, err := store.Lookup("example.com")

	require.NoError(t, err)
	assert.Equal(t, `p"w\x`, creds.Password)
	assert.Equal(t, `machine example.com login bob password "p\"w\\x"`, readFile(t, path))
}

func TestStoreUpdateInReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	store, path := newTestStore(t, "machine example.com password old")
	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	require.NoError(t, store.Update("example.com", "", "new"))

	assert.Equal(t, "machine example.com password new", readFile(t, path))
}

func TestStoreLookupDefaultEntry(t *testing.T) {
	store, _ := newTestStore(t, "machine other.com password y\ndefault login anonymous password guest\n")

	creds, err := store.Lookup("example.com")

	require.NoError(t, err)
	assert.Equal(t, Credentials{Login: "anonymous", Password: "guest"}, creds)
}

func TestStoreDuplicateEntries(t *testing.T) {
	store, path := newTestStore(t, "machine example.com password one\nmachine example.com password two\n")

	require.NoError(t, store.Update("example.com", "", "new"))

	assert.Equal(t, "machine example.com password new\nmachine example.com password two", readFile(t, path))
	creds, err := store.Lookup("example.com")
	require.NoError(t, err)
	assert.Equal(t, "two", creds.Password, "lookup reads the last duplicate")
}

func TestStoreWriteFailureIsIOError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	store, path := newTestStore(t, "machine example.com password old")
	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(path, 0400))
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	err := store.Update("example.com", "", "new")

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
	assert.ErrorIs(t, err, os.ErrPermission)
}
