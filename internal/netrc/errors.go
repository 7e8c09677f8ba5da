package netrc

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when none of the candidate files exists.
	ErrFileNotFound = errors.New("cannot locate the netrc file")

	// ErrNoEntry is returned when no entry matches the requested machine.
	ErrNoEntry = errors.New("no netrc data found")

	// ErrNoPassword is returned when the matching entry carries no password.
	ErrNoPassword = errors.New("no password found")

	// ErrInvalidArgument is returned for values that cannot be written to a netrc file.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IOError records a failed read or write of a netrc file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
