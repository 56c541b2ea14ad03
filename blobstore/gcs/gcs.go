// Package gcs implements a blobstore.Store backed by Google Cloud
// Storage, using cloud.google.com/go/storage and application-default
// credentials via golang.org/x/oauth2/google.
package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Store is a GCS-bucket-backed blobstore.Store. Objects are named by
// their Ref string directly, with no sharding — GCS buckets do not
// benefit from it the way a local filesystem directory does.
type Store struct {
	bucket *storage.BucketHandle
}

// New returns a Store writing into the named GCS bucket, using client
// for all calls. The caller owns client's lifecycle (Close it when
// done) per the core's "caller-managed connection lifecycle" contract.
func New(client *storage.Client, bucketName string) *Store {
	return &Store{bucket: client.Bucket(bucketName)}
}

// NewDefaultClient builds a *storage.Client from application-default
// credentials scoped to read/write bucket access, the composition
// root's usual way of obtaining a client to hand to New without every
// caller repeating the credential-discovery boilerplate.
func NewDefaultClient(ctx context.Context) (*storage.Client, error) {
	creds, err := google.FindDefaultCredentials(ctx, storage.ScopeReadWrite)
	if err != nil {
		return nil, err
	}
	return storage.NewClient(ctx, option.WithCredentials(creds))
}

func (s *Store) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	r, err := s.bucket.Object(string(ref)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (s *Store) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	ref := blobstore.NewRef(data)
	obj := s.bucket.Object(string(ref))

	// Content-addressed: skip the write if the object is already there.
	if _, err := obj.Attrs(ctx); err == nil {
		return ref, nil
	} else if !errors.Is(err, storage.ErrObjectNotExist) {
		return "", err
	}

	w := obj.NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return ref, nil
}
