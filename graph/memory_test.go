package graph_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agentrecall/temporalcore/graph"
)

func TestSnapshotLookupReturnsLatestValidSnapshot(t *testing.T) {
	m := graph.NewMemory()
	m.AddSession(graph.Session{ID: "s1"})
	m.AddSnapshot(graph.SnapshotRecord{
		ID: "snap1", SessionID: "s1", SnapshotAt: 1000, VFSStateBlobRef: "ref1",
		VTStart: 0, VTEnd: graph.MaxDate, TTEnd: graph.MaxDate,
	})
	m.AddSnapshot(graph.SnapshotRecord{
		ID: "snap2", SessionID: "s1", SnapshotAt: 2000, VFSStateBlobRef: "ref2",
		VTStart: 0, VTEnd: graph.MaxDate, TTEnd: graph.MaxDate,
	})

	rows, err := m.Query(context.Background(), graph.SnapshotLookupQuery, map[string]interface{}{
		"sessionId": "s1", "t": int64(2500),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "ref2", rows[0]["s.vfs_state_blob_ref"])
}

func TestSnapshotLookupExcludesFutureAndSoftDeleted(t *testing.T) {
	m := graph.NewMemory()
	m.AddSession(graph.Session{ID: "s1"})
	m.AddSnapshot(graph.SnapshotRecord{
		ID: "snap1", SessionID: "s1", SnapshotAt: 5000, VFSStateBlobRef: "future",
		VTStart: 0, VTEnd: graph.MaxDate, TTEnd: graph.MaxDate,
	})
	m.AddSnapshot(graph.SnapshotRecord{
		ID: "snap2", SessionID: "s1", SnapshotAt: 1000, VFSStateBlobRef: "deleted",
		VTStart: 0, VTEnd: graph.MaxDate, TTEnd: 1500,
	})

	rows, err := m.Query(context.Background(), graph.SnapshotLookupQuery, map[string]interface{}{
		"sessionId": "s1", "t": int64(2000),
	})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDiffFetchOrdersByVTStartThenID(t *testing.T) {
	m := graph.NewMemory()
	m.AddSession(graph.Session{ID: "s1"})
	m.AddThought(graph.Thought{ID: "t1", SessionID: "s1"})
	m.AddToolCall(graph.ToolCall{ID: "tc1", ThoughtID: "t1", Name: "write_file"})
	m.AddDiffHunk(graph.DiffHunk{ID: "d2", ToolCallID: "tc1", FilePath: "/x", VTStart: 100})
	m.AddDiffHunk(graph.DiffHunk{ID: "d1", ToolCallID: "tc1", FilePath: "/y", VTStart: 100})
	m.AddDiffHunk(graph.DiffHunk{ID: "d0", ToolCallID: "tc1", FilePath: "/z", VTStart: 50})

	rows, err := m.Query(context.Background(), graph.DiffFetchQuery, map[string]interface{}{
		"sessionId": "s1", "lastSnapshotTime": int64(0), "targetTime": int64(200),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "d0", rows[0]["d.id"])
	require.Equal(t, "d1", rows[1]["d.id"])
	require.Equal(t, "d2", rows[2]["d.id"])
}

func TestToolCallFetchByID(t *testing.T) {
	m := graph.NewMemory()
	m.AddSession(graph.Session{ID: "s1"})
	m.AddThought(graph.Thought{ID: "t1", SessionID: "s1"})
	m.AddToolCall(graph.ToolCall{ID: "tc1", ThoughtID: "t1", Name: "read_file", Arguments: `{"path":"/a"}`})

	rows, err := m.Query(context.Background(), graph.ToolCallFetchQuery, map[string]interface{}{
		"sessionId": "s1", "eventId": "tc1",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "read_file", rows[0]["tc.name"])
}

func TestToolCallFetchMissingReturnsNoRows(t *testing.T) {
	m := graph.NewMemory()
	rows, err := m.Query(context.Background(), graph.ToolCallFetchQuery, map[string]interface{}{
		"sessionId": "s1", "eventId": "missing",
	})
	require.NoError(t, err)
	require.Empty(t, rows)
}

// Real ULIDs are themselves opaque strings as far as Memory is
// concerned; this exercises the fetch path with non-sequential,
// realistically-shaped IDs rather than the short literal ones used
// above, which exist only to make ordering assertions readable.
func TestToolCallFetchWithRealisticIDs(t *testing.T) {
	m := graph.NewMemory()
	sessionID, thoughtID, toolCallID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	m.AddSession(graph.Session{ID: sessionID})
	m.AddThought(graph.Thought{ID: thoughtID, SessionID: sessionID})
	m.AddToolCall(graph.ToolCall{
		ID: toolCallID, ThoughtID: thoughtID, Name: "read_file",
		Arguments: `{"path":"/a.txt"}`, VTStart: 1000,
	})

	rows, err := m.Query(context.Background(), graph.ToolCallFetchQuery, map[string]interface{}{
		"sessionId": sessionID, "eventId": toolCallID,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, toolCallID, rows[0]["tc.id"])
}
