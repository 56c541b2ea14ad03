package buf_test

import (
	"testing"

	"github.com/agentrecall/temporalcore/internal/buf"
	"github.com/stretchr/testify/require"
)

func TestManagerTracksOutstandingCount(t *testing.T) {
	mgr := buf.NewManager(10)

	verifyClean := func(want int) {
		t.Helper()
		require.Equal(t, int32(want), mgr.Outstanding())
	}

	b := mgr.Get()
	require.Equal(t, 10, b.Cap())
	require.Equal(t, 0, b.Len())
	verifyClean(1)

	b1 := mgr.Get()
	verifyClean(2)

	closer := mgr.ReadCloser(b)
	require.NoError(t, closer.Close())
	verifyClean(1)

	mgr.Put(b1)
	verifyClean(0)

	b2 := mgr.Get()
	verifyClean(1)
	require.Equal(t, 0, b2.Len())

	mgr.Put(b2)
	verifyClean(0)
}
