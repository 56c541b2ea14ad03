// Package s3 implements a blobstore.Store backed by any S3-compatible
// object store (AWS S3, MinIO, Wasabi), via the minio client. Objects
// are named by their Ref string directly, with no sharding — object
// stores do not benefit from it the way a local filesystem does.
package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Store is a bucket-backed blobstore.Store speaking the S3 protocol.
type Store struct {
	client *minio.Client
	bucket string
}

// New returns a Store writing into the named bucket, using client for
// all calls. The caller owns client's lifecycle.
func New(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// NewClient builds a *minio.Client for the given endpoint from a static
// access-key pair, the composition root's usual way of obtaining a
// client to hand to New.
func NewClient(endpoint, accessKeyID, secretAccessKey string, useTLS bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useTLS,
	})
}

func (s *Store) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, string(ref), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// GetObject defers the request; a missing key surfaces on first read.
	data, err := io.ReadAll(obj)
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	ref := blobstore.NewRef(data)

	// Content-addressed: skip the write if the object is already there.
	if _, err := s.client.StatObject(ctx, s.bucket, string(ref), minio.StatObjectOptions{}); err == nil {
		return ref, nil
	} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return "", err
	}

	_, err := s.client.PutObject(ctx, s.bucket, string(ref), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", err
	}
	return ref, nil
}
