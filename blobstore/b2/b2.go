// Package b2 implements a blobstore.Store backed by a Backblaze B2
// bucket. The backblaze client predates context support, so Load and
// Save honor cancellation only between calls, the same way the
// filesystem backend does.
package b2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	backblaze "gopkg.in/kothar/go-backblaze.v0"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Store is a B2-bucket-backed blobstore.Store. Files are named by
// their Ref string directly.
type Store struct {
	bucket *backblaze.Bucket
}

// New returns a Store writing into bucket.
func New(bucket *backblaze.Bucket) *Store {
	return &Store{bucket: bucket}
}

// OpenBucket authenticates with the given application key pair and
// resolves the named bucket.
func OpenBucket(keyID, applicationKey, bucketName string) (*Store, error) {
	cli, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          keyID,
		ApplicationKey: applicationKey,
	})
	if err != nil {
		return nil, err
	}

	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	if bucket == nil {
		return nil, fmt.Errorf("b2 blobstore: bucket %q not found", bucketName)
	}
	return New(bucket), nil
}

func (s *Store) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	_, rc, err := s.bucket.DownloadFileByName(string(ref))
	if isNotFound(err) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (s *Store) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	ref := blobstore.NewRef(data)

	// Content-addressed: skip the upload if a version already exists, so
	// repeated saves of the same bytes don't pile up file versions.
	resp, err := s.bucket.ListFileNames(string(ref), 1)
	if err == nil && len(resp.Files) > 0 && resp.Files[0].Name == string(ref) {
		return ref, nil
	}

	if _, err := s.bucket.UploadFile(string(ref), nil, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return ref, nil
}

func isNotFound(err error) bool {
	var b2err *backblaze.B2Error
	return errors.As(err, &b2err) && b2err.Status == 404
}
