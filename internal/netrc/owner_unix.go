//go:build unix

package netrc

import (
	"io/fs"
	"syscall"
)

// fileOwner is the ownership of an existing file. uid and gid are -1 when
// unknown.
type fileOwner struct {
	uid, gid int
	links    uint64
}

func ownerOf(info fs.FileInfo) fileOwner {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileOwner{uid: -1, gid: -1}
	}
	return fileOwner{uid: int(st.Uid), gid: int(st.Gid), links: uint64(st.Nlink)}
}
