// Package buf provides a pool of reusable byte buffers for the snapshot
// gzip encode path, so that CreateSnapshot does not allocate a fresh
// output buffer on every call. LoadSnapshot does not use the pool.
package buf

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
)

// Manager hands out reusable *bytes.Buffer values sized around
// blockSize. It is safe for concurrent use.
type Manager struct {
	outstanding int32
	pool        sync.Pool
}

// NewManager creates a Manager whose pooled buffers start with
// blockSize bytes of backing capacity.
func NewManager(blockSize int) *Manager {
	mgr := &Manager{}
	mgr.pool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, blockSize))
		},
	}
	return mgr
}

// Get returns a buffer reset to empty, either freshly allocated or
// recycled from a prior Put/Close.
func (mgr *Manager) Get() *bytes.Buffer {
	atomic.AddInt32(&mgr.outstanding, 1)
	b := mgr.pool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// Put returns b to the pool.
func (mgr *Manager) Put(b *bytes.Buffer) {
	atomic.AddInt32(&mgr.outstanding, -1)
	mgr.pool.Put(b)
}

// ReadCloser wraps b so that closing it returns the buffer to mgr,
// letting a Get'd buffer be handed out as an io.ReadCloser to a caller
// that streams it and then discards it.
func (mgr *Manager) ReadCloser(b *bytes.Buffer) io.ReadCloser {
	return &returnOnClose{buffer: b, mgr: mgr}
}

// Outstanding returns the number of buffers currently checked out. Used
// by tests to catch leaks.
func (mgr *Manager) Outstanding() int32 {
	return atomic.LoadInt32(&mgr.outstanding)
}

type returnOnClose struct {
	buffer *bytes.Buffer
	mgr    *Manager
}

func (r *returnOnClose) Read(b []byte) (int, error) {
	return r.buffer.Read(b)
}

func (r *returnOnClose) Close() error {
	r.mgr.Put(r.buffer)
	return nil
}
