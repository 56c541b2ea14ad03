package vfs

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/agentrecall/temporalcore/internal/buf"
)

// snapshotBufs pools the gzip output buffers CreateSnapshot allocates,
// so repeated snapshotting of the same VFS doesn't allocate fresh
// backing storage on every call.
var snapshotBufs = buf.NewManager(4096)

// treeNode is the JSON shape of one VFS node: a file serializes to a
// JSON string, a directory to a JSON object keyed by child name. This
// mirrors the wire format exactly: decoding distinguishes the two
// shapes by JSON kind (string vs object), not by an explicit tag.
type treeNode map[string]json.RawMessage

// SnapshotSource records which decoding path loadSnapshot took, for
// diagnostic purposes only — the decoded tree is identical either way.
type SnapshotSource int

const (
	SnapshotSourceGzip SnapshotSource = iota
	SnapshotSourceLegacyJSON
)

// CreateSnapshot serializes the entire tree to JSON and gzips it. The
// result is what LoadSnapshot on any VFS accepts to reproduce this tree.
func (v *VFS) CreateSnapshot() ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	raw, err := encodeNode(v.root)
	if err != nil {
		return nil, err
	}

	out := snapshotBufs.Get()
	defer snapshotBufs.Put(out)

	gw := gzip.NewWriter(out)
	if _, err := gw.Write(raw); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())
	return result, nil
}

// LoadSnapshot replaces the entire tree with the one encoded in blob.
// blob is first tried as gzip(JSON); if that fails to decode as gzip,
// it is tried as raw JSON with a legacy {"root": <tree>} envelope. Both
// failing is ErrCorruptSnapshot.
func (v *VFS) LoadSnapshot(blob []byte) (SnapshotSource, error) {
	if raw, err := gunzip(blob); err == nil {
		root, decErr := decodeNode(raw)
		if decErr == nil {
			v.mu.Lock()
			v.root = root
			v.mu.Unlock()
			return SnapshotSourceGzip, nil
		}
	}

	var legacy struct {
		Root json.RawMessage `json:"root"`
	}
	if err := json.Unmarshal(blob, &legacy); err != nil || legacy.Root == nil {
		return 0, ErrCorruptSnapshot
	}
	root, err := decodeNode(legacy.Root)
	if err != nil {
		return 0, ErrCorruptSnapshot
	}

	v.mu.Lock()
	v.root = root
	v.mu.Unlock()
	return SnapshotSourceLegacyJSON, nil
}

func gunzip(blob []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

func encodeNode(n *node) (json.RawMessage, error) {
	if !n.isDir() {
		return json.Marshal(string(n.content))
	}

	obj := make(treeNode, len(n.children))
	for name, child := range n.children {
		raw, err := encodeNode(child)
		if err != nil {
			return nil, err
		}
		obj[name] = raw
	}
	return json.Marshal(obj)
}

func decodeNode(raw json.RawMessage) (*node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrCorruptSnapshot
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, ErrCorruptSnapshot
		}
		return &node{content: []byte(s)}, nil
	}

	if trimmed[0] != '{' {
		return nil, ErrCorruptSnapshot
	}

	var obj treeNode
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, ErrCorruptSnapshot
	}

	dir := newDir()
	for name, childRaw := range obj {
		child, err := decodeNode(childRaw)
		if err != nil {
			return nil, err
		}
		dir.children[name] = child
	}
	return dir, nil
}
