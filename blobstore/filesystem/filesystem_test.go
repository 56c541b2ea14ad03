package filesystem_test

import (
	"context"
	"testing"

	"github.com/agentrecall/temporalcore/blobstore"
	"github.com/agentrecall/temporalcore/blobstore/filesystem"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, []byte("hello"))
	require.NoError(t, err)

	got, err := store.Load(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestLoadMissingRefReturnsNotFound(t *testing.T) {
	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), blobstore.NewRef([]byte("never saved")))
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSaveIsIdempotent(t *testing.T) {
	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ref1, err := store.Save(ctx, []byte("same"))
	require.NoError(t, err)
	ref2, err := store.Save(ctx, []byte("same"))
	require.NoError(t, err)

	require.Equal(t, ref1, ref2)
}
