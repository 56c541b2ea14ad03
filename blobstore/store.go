package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when ref is unknown to the backend.
var ErrNotFound = errors.New("blobstore: not found")

// Store is the Blob Store collaborator interface: byte I/O keyed by an
// opaque, content-derived reference. It is read-only from the
// perspective of the temporal core's Rehydrator — only the external
// snapshot-writing collaborator calls Save.
type Store interface {
	Load(ctx context.Context, ref Ref) ([]byte, error)
	Save(ctx context.Context, data []byte) (Ref, error)
}
