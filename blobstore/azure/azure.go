// Package azure implements a blobstore.Store backed by an Azure Blob
// Storage container, using shared-key credentials. Blobs are named by
// their Ref string directly.
package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Store is an Azure-container-backed blobstore.Store.
type Store struct {
	client    *azblob.Client
	container string
}

// New returns a Store writing into the named container, using client
// for all calls. The caller owns client's lifecycle.
func New(client *azblob.Client, container string) *Store {
	return &Store{client: client, container: container}
}

// NewSharedKeyClient builds an *azblob.Client for the given storage
// account from a shared account key.
func NewSharedKeyClient(account, key string) (*azblob.Client, error) {
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, err
	}
	return azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", account), cred, nil)
}

func (s *Store) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, string(ref), nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (s *Store) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	ref := blobstore.NewRef(data)
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(string(ref))

	// Content-addressed: skip the write if the blob is already there.
	if _, err := blobClient.GetProperties(ctx, nil); err == nil {
		return ref, nil
	} else if !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return "", err
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, string(ref), data, nil); err != nil {
		return "", err
	}
	return ref, nil
}
