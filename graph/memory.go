package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory Store sufficient for tests, the CLI, and small
// deployments. It answers exactly the three named queries in store.go;
// it is not a general Cypher engine. Mutation methods (AddSession,
// AddThought, ...) are provided for seeding fixtures and are not part
// of the Store interface itself — a real deployment's Graph Store is
// populated by the (out-of-scope) ingestion server, not by the core.
type Memory struct {
	mu sync.RWMutex

	sessions  map[string]Session
	thoughts  map[string]Thought
	toolCalls map[string]ToolCall
	diffHunks map[string]DiffHunk
	snapshots map[string]SnapshotRecord
}

// NewMemory returns an empty in-memory graph.
func NewMemory() *Memory {
	return &Memory{
		sessions:  map[string]Session{},
		thoughts:  map[string]Thought{},
		toolCalls: map[string]ToolCall{},
		diffHunks: map[string]DiffHunk{},
		snapshots: map[string]SnapshotRecord{},
	}
}

func (m *Memory) AddSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *Memory) AddThought(t Thought) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thoughts[t.ID] = t
}

func (m *Memory) AddToolCall(tc ToolCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tc.TTEnd == 0 {
		tc.TTEnd = MaxDate
	}
	m.toolCalls[tc.ID] = tc
}

func (m *Memory) AddDiffHunk(d DiffHunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.TTEnd == 0 {
		d.TTEnd = MaxDate
	}
	m.diffHunks[d.ID] = d
}

func (m *Memory) AddSnapshot(s SnapshotRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.TTEnd == 0 {
		s.TTEnd = MaxDate
	}
	if s.VTEnd == 0 {
		s.VTEnd = MaxDate
	}
	m.snapshots[s.ID] = s
}

// SoftDelete closes tt_end on the DiffHunk, ToolCall, or SnapshotRecord
// identified by id, at the given instant. It is a no-op if id is unknown.
func (m *Memory) SoftDelete(id string, at int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.diffHunks[id]; ok {
		d.TTEnd = at
		m.diffHunks[id] = d
		return
	}
	if tc, ok := m.toolCalls[id]; ok {
		tc.TTEnd = at
		m.toolCalls[id] = tc
		return
	}
	if s, ok := m.snapshots[id]; ok {
		s.TTEnd = at
		m.snapshots[id] = s
	}
}

// Query implements Store by dispatching on the exact Cypher template
// used (the only three the core ever issues).
func (m *Memory) Query(ctx context.Context, cypherText string, params map[string]interface{}) ([]Row, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch cypherText {
	case SnapshotLookupQuery:
		return m.snapshotLookup(params)
	case DiffFetchQuery:
		return m.diffFetch(params)
	case ToolCallFetchQuery:
		return m.toolCallFetch(params)
	default:
		return nil, fmt.Errorf("graph: unsupported query")
	}
}

func (m *Memory) snapshotLookup(params map[string]interface{}) ([]Row, error) {
	sessionID, _ := params["sessionId"].(string)
	t, _ := params["t"].(int64)

	var best *SnapshotRecord
	for _, s := range m.snapshots {
		s := s
		if s.SessionID != sessionID {
			continue
		}
		if !isLive(s.TTEnd) {
			continue
		}
		if s.SnapshotAt > t || s.VTStart > t || s.VTEnd <= t {
			continue
		}
		if best == nil || s.SnapshotAt > best.SnapshotAt {
			best = &s
		}
	}
	if best == nil {
		return nil, nil
	}
	return []Row{{
		"s.vfs_state_blob_ref": best.VFSStateBlobRef,
		"s.snapshot_at":        best.SnapshotAt,
	}}, nil
}

func (m *Memory) sessionThoughtIDs(sessionID string) map[string]bool {
	ids := map[string]bool{}
	for _, th := range m.thoughts {
		if th.SessionID == sessionID {
			ids[th.ID] = true
		}
	}
	return ids
}

func (m *Memory) diffFetch(params map[string]interface{}) ([]Row, error) {
	sessionID, _ := params["sessionId"].(string)
	lastSnapshotTime, _ := params["lastSnapshotTime"].(int64)
	targetTime, _ := params["targetTime"].(int64)

	thoughtIDs := m.sessionThoughtIDs(sessionID)

	toolCallIDs := map[string]bool{}
	for _, tc := range m.toolCalls {
		if thoughtIDs[tc.ThoughtID] {
			toolCallIDs[tc.ID] = true
		}
	}

	var matched []DiffHunk
	for _, d := range m.diffHunks {
		if !toolCallIDs[d.ToolCallID] {
			continue
		}
		if !isLive(d.TTEnd) {
			continue
		}
		if d.VTStart <= lastSnapshotTime || d.VTStart > targetTime {
			continue
		}
		matched = append(matched, d)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].VTStart != matched[j].VTStart {
			return matched[i].VTStart < matched[j].VTStart
		}
		return matched[i].ID < matched[j].ID
	})

	rows := make([]Row, 0, len(matched))
	for _, d := range matched {
		rows = append(rows, Row{
			"d.id":            d.ID,
			"d.file_path":     d.FilePath,
			"d.patch_content": d.PatchContent,
			"d.vt_start":      d.VTStart,
		})
	}
	return rows, nil
}

func (m *Memory) toolCallFetch(params map[string]interface{}) ([]Row, error) {
	sessionID, _ := params["sessionId"].(string)
	eventID, _ := params["eventId"].(string)

	thoughtIDs := m.sessionThoughtIDs(sessionID)

	tc, ok := m.toolCalls[eventID]
	if !ok || !thoughtIDs[tc.ThoughtID] || !isLive(tc.TTEnd) {
		return nil, nil
	}

	return []Row{{
		"tc.id":        tc.ID,
		"tc.name":      tc.Name,
		"tc.arguments": tc.Arguments,
		"tc.result":    tc.Result,
		"tc.vt_start":  tc.VTStart,
	}}, nil
}
