// Package patch applies unified diffs and literal search/replace edits
// to a single vfs.VFS, holding no state of its own beyond that reference.
package patch

import (
	"errors"
	"strings"

	"github.com/agentrecall/temporalcore/vfs"
)

// Manager mutates one VFS in place via ApplyUnifiedDiff and
// ApplySearchReplace. It has no side effects other than those mutations.
type Manager struct {
	v *vfs.VFS
}

// NewManager returns a Manager that edits v.
func NewManager(v *vfs.VFS) *Manager {
	return &Manager{v: v}
}

// ApplyUnifiedDiff applies a unified diff to the file at path. A header
// pair "--- /dev/null" / "+++ b/<path>" creates path instead of patching
// an existing file. Symmetrically, "+++ /dev/null" removes path after
// its content is verified against the hunk's context/removed lines.
// Hunks are applied in the order they appear; if any hunk fails to
// match, the whole call fails and the VFS is left unchanged.
func (m *Manager) ApplyUnifiedDiff(path, diffText string) error {
	d, err := parseUnifiedDiff(diffText)
	if err != nil {
		return err
	}

	if d.creation {
		var lines []string
		for _, h := range d.hunks {
			for _, hl := range h.lines {
				if hl.kind == kindAdd {
					lines = append(lines, hl.text)
				}
			}
		}
		return m.v.WriteFile(path, []byte(joinLines(lines)))
	}

	current, err := m.v.ReadFile(path)
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	originalLines := splitLines(string(current))
	newLines, err := applyHunks(originalLines, d.hunks)
	if err != nil {
		return err
	}

	if d.deletion {
		return m.v.Remove(path)
	}

	return m.v.WriteFile(path, []byte(joinLines(newLines)))
}

// ApplySearchReplace replaces every non-overlapping occurrence of
// search in the file at path with replace. Fails with ErrSearchNotFound
// if search does not occur, and ErrNotFound if path does not exist.
func (m *Manager) ApplySearchReplace(path, search, replace string) error {
	current, err := m.v.ReadFile(path)
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	content := string(current)
	if !strings.Contains(content, search) {
		return ErrSearchNotFound
	}

	updated := strings.ReplaceAll(content, search, replace)
	return m.v.WriteFile(path, []byte(updated))
}
