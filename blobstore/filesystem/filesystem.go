// Package filesystem implements a blobstore.Store backed by a sharded
// local directory tree, with atomic temp-file-then-rename writes so a
// crash mid-write never leaves a partially written blob visible under
// its final name.
package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Store is a directory-backed blobstore.Store. Refs are sharded two
// hex characters deep so that no single directory accumulates more
// entries than a typical filesystem handles comfortably.
type Store struct {
	path string
}

// New returns a Store rooted at path, creating it if necessary.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("filesystem blobstore: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) shardedPath(ref blobstore.Ref) string {
	name := string(ref)
	digest := strings.TrimPrefix(name, "sha256:")
	if len(digest) <= 4 {
		return filepath.Join(s.path, name)
	}
	return filepath.Join(s.path, digest[:2], digest[2:4], name)
}

func (s *Store) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	b, err := os.ReadFile(s.shardedPath(ref))
	if os.IsNotExist(err) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	ref := blobstore.NewRef(data)
	path := s.shardedPath(ref)

	if _, err := os.Stat(path); err == nil {
		// Content-addressed: identical bytes already on disk, nothing to do.
		return ref, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return ref, nil
}
