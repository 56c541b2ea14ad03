package patch

import "errors"

// Sentinel errors returned by the Patch Manager's operations.
var (
	ErrNotFound        = errors.New("patch: file not found")
	ErrContextMismatch = errors.New("patch: context did not match file contents")
	ErrMalformedDiff   = errors.New("patch: malformed unified diff")
	ErrSearchNotFound  = errors.New("patch: search string not found")
)
