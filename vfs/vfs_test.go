package vfs_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/agentrecall/temporalcore/vfs"
)

// treeContents walks v and collects every file's content keyed by
// path, for comparing two trees "under the same set of paths, same
// file contents" equality that invariant 1 requires.
func treeContents(t *testing.T, v *vfs.VFS) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := v.Walk("/", func(path string, isDir bool) error {
		if isDir {
			return nil
		}
		content, err := v.ReadFile(path)
		if err != nil {
			return err
		}
		out[path] = string(content)
		return nil
	})
	require.NoError(t, err)
	return out
}

// Scenario A — write/read round trip.
func TestWriteReadRoundTrip(t *testing.T) {
	v := vfs.New()

	require.NoError(t, v.WriteFile("/a/b/file.txt", []byte("hello")))

	content, err := v.ReadFile("/a/b/file.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))

	require.True(t, v.Exists("/a/b"))

	entries, err := v.ReadDir("/a/b")
	require.NoError(t, err)
	require.Equal(t, []string{"file.txt"}, entries)
}

func TestReadFileNotFound(t *testing.T) {
	v := vfs.New()
	_, err := v.ReadFile("/missing.txt")
	require.ErrorIs(t, err, vfs.ErrNotFound)
}

func TestReadFileOnDirectoryIsADirectory(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.Mkdir("/a"))
	_, err := v.ReadFile("/a")
	require.ErrorIs(t, err, vfs.ErrIsADirectory)
}

func TestReadDirOnFileNotADirectory(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a.txt", []byte("x")))
	_, err := v.ReadDir("/a.txt")
	require.ErrorIs(t, err, vfs.ErrNotADirectory)
}

func TestWriteFileThroughFileSegmentFails(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a", []byte("x")))
	err := v.WriteFile("/a/b", []byte("y"))
	require.ErrorIs(t, err, vfs.ErrNotADirectory)
}

func TestMkdirIdempotent(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.Mkdir("/a/b/c"))
	require.NoError(t, v.Mkdir("/a/b/c"))

	entries, err := v.ReadDir("/a/b")
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, entries)
}

func TestMkdirOverExistingFileFails(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a", []byte("x")))
	err := v.Mkdir("/a")
	require.ErrorIs(t, err, vfs.ErrNotADirectory)
}

func TestExistsNeverFails(t *testing.T) {
	v := vfs.New()
	require.False(t, v.Exists("/nope"))
	require.False(t, v.Exists(""))
	require.True(t, v.Exists("/"))
}

func TestInvalidPaths(t *testing.T) {
	v := vfs.New()
	_, err := v.ReadFile("relative/path")
	require.ErrorIs(t, err, vfs.ErrInvalidPath)

	_, err = v.ReadFile("/a/../b")
	require.ErrorIs(t, err, vfs.ErrInvalidPath)

	_, err = v.ReadFile("")
	require.ErrorIs(t, err, vfs.ErrInvalidPath)
}

func TestTrailingSlashInsignificant(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.Mkdir("/a/b/"))
	require.True(t, v.Exists("/a/b"))
}

func TestRemoveFileAndEmptyDirectory(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a/f.txt", []byte("x")))
	require.NoError(t, v.Remove("/a/f.txt"))
	require.False(t, v.Exists("/a/f.txt"))
	require.NoError(t, v.Remove("/a"))
	require.False(t, v.Exists("/a"))
}

func TestRemoveNonEmptyDirectoryFails(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a/f.txt", []byte("x")))
	err := v.Remove("/a")
	require.ErrorIs(t, err, vfs.ErrNotEmpty)
}

func TestCopyAndMoveFile(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/src.txt", []byte("hi")))

	require.NoError(t, v.CopyFile("/src.txt", "/dst.txt"))
	require.True(t, v.Exists("/src.txt"))
	content, _ := v.ReadFile("/dst.txt")
	require.Equal(t, "hi", string(content))

	require.NoError(t, v.MoveFile("/dst.txt", "/moved.txt"))
	require.False(t, v.Exists("/dst.txt"))
	content, _ = v.ReadFile("/moved.txt")
	require.Equal(t, "hi", string(content))
}

// Invariant 1: snapshot round trip.
func TestSnapshotRoundTrip(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a/b/file.txt", []byte("hello")))
	require.NoError(t, v.WriteFile("/c.txt", []byte("world")))
	require.NoError(t, v.Mkdir("/empty/dir"))

	blob, err := v.CreateSnapshot()
	require.NoError(t, err)

	restored := vfs.New()
	source, err := restored.LoadSnapshot(blob)
	require.NoError(t, err)
	require.Equal(t, vfs.SnapshotSourceGzip, source)

	content, err := restored.ReadFile("/a/b/file.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))

	content, err = restored.ReadFile("/c.txt")
	require.NoError(t, err)
	require.Equal(t, "world", string(content))

	require.True(t, restored.Exists("/empty/dir"))
}

// Invariant 1, full-tree form: loadSnapshot(createSnapshot(v)) must
// reproduce the same set of paths and file contents as v, not merely
// one sampled file. cmp.Diff gives a readable failure if a future
// change to the encoding silently drops or corrupts an entry.
func TestSnapshotRoundTripPreservesWholeTree(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a/b/file.txt", []byte("hello")))
	require.NoError(t, v.WriteFile("/c.txt", []byte("world")))
	require.NoError(t, v.Mkdir("/empty/dir"))

	blob, err := v.CreateSnapshot()
	require.NoError(t, err)

	restored := vfs.New()
	_, err = restored.LoadSnapshot(blob)
	require.NoError(t, err)

	if diff := cmp.Diff(treeContents(t, v), treeContents(t, restored)); diff != "" {
		t.Fatalf("restored tree diverged from original (-want +got):\n%s", diff)
	}
}

func TestSnapshotEmptyFileRoundTrip(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/empty.txt", nil))

	blob, err := v.CreateSnapshot()
	require.NoError(t, err)

	restored := vfs.New()
	_, err = restored.LoadSnapshot(blob)
	require.NoError(t, err)

	content, err := restored.ReadFile("/empty.txt")
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestSnapshotUnicodeRoundTrip(t *testing.T) {
	v := vfs.New()
	text := "héllo wörld 世界 😀🚀"
	require.NoError(t, v.WriteFile("/unicode.txt", []byte(text)))

	blob, err := v.CreateSnapshot()
	require.NoError(t, err)

	restored := vfs.New()
	_, err = restored.LoadSnapshot(blob)
	require.NoError(t, err)

	content, err := restored.ReadFile("/unicode.txt")
	require.NoError(t, err)
	require.Equal(t, text, string(content))
}

func TestSnapshotLargeFileRoundTrip(t *testing.T) {
	v := vfs.New()
	content := strings.Repeat("x", 1<<20)
	require.NoError(t, v.WriteFile("/big.txt", []byte(content)))

	blob, err := v.CreateSnapshot()
	require.NoError(t, err)

	restored := vfs.New()
	_, err = restored.LoadSnapshot(blob)
	require.NoError(t, err)

	got, err := restored.ReadFile("/big.txt")
	require.NoError(t, err)
	require.Equal(t, content, string(got))
}

func TestLoadSnapshotLegacyJSONFallback(t *testing.T) {
	legacy := []byte(`{"root": {"a.txt": "hi"}}`)

	v := vfs.New()
	source, err := v.LoadSnapshot(legacy)
	require.NoError(t, err)
	require.Equal(t, vfs.SnapshotSourceLegacyJSON, source)

	content, err := v.ReadFile("/a.txt")
	require.NoError(t, err)
	require.Equal(t, "hi", string(content))
}

func TestLoadSnapshotCorruptFailsBoth(t *testing.T) {
	v := vfs.New()
	_, err := v.LoadSnapshot([]byte("not gzip and not json"))
	require.ErrorIs(t, err, vfs.ErrCorruptSnapshot)
}

func TestWalkVisitsDirectoriesBeforeChildren(t *testing.T) {
	v := vfs.New()
	require.NoError(t, v.WriteFile("/a/b.txt", []byte("x")))
	require.NoError(t, v.WriteFile("/a/c.txt", []byte("y")))

	var visited []string
	err := v.Walk("/", func(path string, isDir bool) error {
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/", "/a", "/a/b.txt", "/a/c.txt"}, visited)
}
