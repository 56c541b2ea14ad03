package vfs

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by VFS operations. Callers compare with
// errors.Is; path-carrying failures additionally wrap a *PathError so
// callers can errors.As into it for the failing path.
var (
	ErrNotFound        = errors.New("vfs: not found")
	ErrNotADirectory   = errors.New("vfs: not a directory")
	ErrIsADirectory    = errors.New("vfs: is a directory")
	ErrInvalidPath     = errors.New("vfs: invalid path")
	ErrNotEmpty        = errors.New("vfs: directory not empty")
	ErrCorruptSnapshot = errors.New("vfs: corrupt snapshot")
)

// PathError records the operation and path a VFS call failed on,
// modeled on io/fs.PathError.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("vfs: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func pathErr(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}
