package graph

import "context"

// Row is one result row from a Store query: a flat map from column
// name to value, the way a Cypher RETURN clause would shape it.
type Row map[string]interface{}

// Store is the single collaborator interface the temporal core needs
// from the graph layer: one parameterized, read-only query operation.
// Implementations are free to be a real Cypher-speaking driver, an
// in-memory fixture (see Memory), or anything else that can answer the
// three named queries below.
type Store interface {
	Query(ctx context.Context, cypherText string, params map[string]interface{}) ([]Row, error)
}

// The three Cypher templates the core issues. A Store implementation
// dispatches on cypherText equality, as Memory does — nothing in the
// core constructs ad-hoc query text.
const (
	SnapshotLookupQuery = `MATCH (s:Snapshot)-[:SNAPSHOT_OF]->(sess:Session {id:$sessionId})
WHERE s.snapshot_at <= $t AND s.vt_start <= $t AND s.vt_end > $t AND s.tt_end = 253402300799000
RETURN s.vfs_state_blob_ref, s.snapshot_at
ORDER BY s.snapshot_at DESC
LIMIT 1`

	DiffFetchQuery = `MATCH (sess:Session {id:$sessionId})-[:HAS_THOUGHT]->(:Thought)-[:NEXT*0..]->(:Thought)-[:ISSUED]->(:ToolCall)-[:PRODUCED]->(d:DiffHunk)
WHERE d.vt_start > $lastSnapshotTime AND d.vt_start <= $targetTime AND d.tt_end = 253402300799000
RETURN d.id, d.file_path, d.patch_content, d.vt_start
ORDER BY d.vt_start ASC, d.id ASC`

	ToolCallFetchQuery = `MATCH (sess:Session {id:$sessionId})-[:HAS_THOUGHT]->(:Thought)-[:NEXT*0..]->(:Thought)-[:ISSUED]->(tc:ToolCall {id:$eventId})
WHERE tc.tt_end = 253402300799000
RETURN tc.id, tc.name, tc.arguments, tc.result, tc.vt_start`
)
