// Package netrc reads and updates credentials kept in netrc(5) files.
//
// A Locator picks the file (the per-user ~/.netrc wins over /etc/netrc) and a
// Store looks up or rewrites the entry for a machine:
//
//	store := netrc.NewStore(netrc.NewLocator(paths...))
//	creds, err := store.Lookup("members.dyndns.org")
//
// Updates rewrite only the entry being changed; every other line keeps its
// content and position. Nothing is cached between calls and no locking is
// performed, so concurrent writers race and the last one wins.
package netrc
