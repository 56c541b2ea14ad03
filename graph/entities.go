// Package graph defines the bitemporal entities the temporal core reads
// and the narrow Store collaborator interface used to query them.
package graph

// MaxDate is the open-interval sentinel used for vt_end/tt_end on
// records that are still current — 9999-12-31T23:59:59Z in epoch
// milliseconds.
const MaxDate int64 = 253402300799000

// Session is the root of one recorded agent history.
type Session struct {
	ID        string
	CreatedAt int64
}

// Thought is one sequential reasoning unit within a Session, chained by
// NextID to the following Thought (empty if this is the last one).
type Thought struct {
	ID        string
	SessionID string
	NextID    string
	VTStart   int64
}

// ToolCall records one tool invocation: its arguments and the
// observation it produced, each as a raw JSON document.
type ToolCall struct {
	ID        string
	ThoughtID string
	Name      string
	Arguments string
	Result    *string // nil when no result was recorded
	VTStart   int64
	VTEnd     int64
	TTStart   int64
	TTEnd     int64
}

// DiffHunk is one unified-diff edit to a single file, produced by a
// ToolCall, valid starting at VTStart.
type DiffHunk struct {
	ID           string
	ToolCallID   string
	FilePath     string
	PatchContent string
	VTStart      int64
	VTEnd        int64
	TTStart      int64
	TTEnd        int64
}

// SnapshotRecord is a self-contained encoding of a VFS at SnapshotAt,
// stored out-of-line in the Blob Store under VFSStateBlobRef.
type SnapshotRecord struct {
	ID              string
	SessionID       string
	SnapshotAt      int64
	VFSStateBlobRef string
	VTStart         int64
	VTEnd           int64
	TTStart         int64
	TTEnd           int64
}

// isLive reports whether tt_end still equals MaxDate, i.e. the record
// has not been soft-deleted.
func isLive(ttEnd int64) bool { return ttEnd == MaxDate }
