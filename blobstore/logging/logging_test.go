package logging_test

import (
	"bytes"
	"context"
	"testing"

	coreLogging "github.com/agentrecall/temporalcore/internal/logging"

	"github.com/agentrecall/temporalcore/blobstore"
	"github.com/agentrecall/temporalcore/blobstore/logging"
	"github.com/stretchr/testify/require"
)

func TestWrapperLogsAndDelegates(t *testing.T) {
	base := blobstore.NewMemory()
	var buf bytes.Buffer
	ctx := coreLogging.WithLogger(context.Background(), []string{"temporalcore/blobstore/logging"}, coreLogging.ToWriter(&buf))

	w := logging.NewWrapper(base, logging.Prefix("test:"))

	ref, err := w.Save(ctx, []byte("payload"))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "test:save")

	buf.Reset()
	got, err := w.Load(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
	require.Contains(t, buf.String(), "test:load")
}
