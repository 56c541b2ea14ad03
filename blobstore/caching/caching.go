// Package caching wraps a slower blobstore.Store with a bounded
// in-memory cache: a faster local store in front of the real backend,
// evicted on a least-recently-used basis once it grows past its size
// budget. Entries live in memory only; they do not survive the process.
package caching

import (
	"container/list"
	"context"
	"sync"

	"github.com/agentrecall/temporalcore/blobstore"
)

// Wrapper caches Load results from an upstream Store, up to maxBytes
// of cached payload, evicting the least recently used entry first.
type Wrapper struct {
	upstream blobstore.Store
	maxBytes int64

	mu        sync.Mutex
	totalSize int64
	lru       *list.List
	index     map[blobstore.Ref]*list.Element
}

type cacheItem struct {
	ref  blobstore.Ref
	data []byte
}

// NewWrapper returns a Wrapper in front of upstream, retaining at most
// maxBytes of cached blob content.
func NewWrapper(upstream blobstore.Store, maxBytes int64) *Wrapper {
	return &Wrapper{
		upstream: upstream,
		maxBytes: maxBytes,
		lru:      list.New(),
		index:    map[blobstore.Ref]*list.Element{},
	}
}

func (w *Wrapper) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	w.mu.Lock()
	if el, ok := w.index[ref]; ok {
		w.lru.MoveToFront(el)
		data := el.Value.(*cacheItem).data
		w.mu.Unlock()
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	w.mu.Unlock()

	data, err := w.upstream.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	w.put(ref, data)
	return data, nil
}

func (w *Wrapper) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	ref, err := w.upstream.Save(ctx, data)
	if err != nil {
		return "", err
	}
	w.put(ref, data)
	return ref, nil
}

func (w *Wrapper) put(ref blobstore.Ref, data []byte) {
	if w.maxBytes <= 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if el, ok := w.index[ref]; ok {
		w.lru.MoveToFront(el)
		return
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	el := w.lru.PushFront(&cacheItem{ref: ref, data: buf})
	w.index[ref] = el
	w.totalSize += int64(len(buf))

	for w.totalSize > w.maxBytes {
		oldest := w.lru.Back()
		if oldest == nil {
			break
		}
		item := oldest.Value.(*cacheItem)
		w.lru.Remove(oldest)
		delete(w.index, item.ref)
		w.totalSize -= int64(len(item.data))
	}
}
