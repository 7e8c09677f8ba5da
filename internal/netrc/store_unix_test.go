//go:build unix

package netrc

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUpdateKeepsOwner(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("changing file ownership requires root")
	}
	store, path := newTestStore(t, "machine example.com password old")
	require.NoError(t, os.Chown(path, 1000, 1000))

	require.NoError(t, store.Update("example.com", "", "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	st, ok := info.Sys().(*syscall.Stat_t)
	require.True(t, ok)
	assert.Equal(t, uint32(1000), st.Uid)
	assert.Equal(t, uint32(1000), st.Gid)
	assert.Equal(t, "machine example.com password new", readFile(t, path))
}

func TestStoreUpdateKeepsHardLinks(t *testing.T) {
	store, path := newTestStore(t, "machine example.com password old")
	link := filepath.Join(filepath.Dir(path), "netrc.link")
	require.NoError(t, os.Link(path, link))

	require.NoError(t, store.Update("example.com", "", "new"))

	assert.Equal(t, "machine example.com password new", readFile(t, link))
	a, err := os.Stat(path)
	require.NoError(t, err)
	b, err := os.Stat(link)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))
}
