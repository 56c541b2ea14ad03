// Package blobstore defines the Blob Store collaborator interface and
// its concrete backends: opaque byte payloads addressed by a
// content-derived reference string.
package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Ref is an opaque, content-derived reference to a saved blob. It is a
// named string type (rather than a bare string) so that callers cannot
// accidentally pass an unrelated string where a Ref is expected.
type Ref string

// NewRef computes the Ref a Save of data would (and must) produce:
// "sha256:" followed by the lowercase hex digest of data. Backends use
// this to make Save idempotent — saving the same bytes twice returns
// the same Ref without writing twice.
func NewRef(data []byte) Ref {
	sum := sha256.Sum256(data)
	return Ref("sha256:" + hex.EncodeToString(sum[:]))
}

// ParseRef validates that s has the shape a Ref must have and returns
// it as a Ref. It does not verify the hash matches any particular
// content — that is the backend's job at Load time, if it chooses to.
func ParseRef(s string) (Ref, error) {
	const prefix = "sha256:"
	if len(s) != len(prefix)+64 || s[:len(prefix)] != prefix {
		return "", fmt.Errorf("blobstore: malformed ref %q", s)
	}
	if _, err := hex.DecodeString(s[len(prefix):]); err != nil {
		return "", fmt.Errorf("blobstore: malformed ref %q: %w", s, err)
	}
	return Ref(s), nil
}

func (r Ref) String() string { return string(r) }
