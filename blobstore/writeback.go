package blobstore

import (
	"context"
	"sync"
)

// WriteBack wraps a Store's Save with an asynchronous, worker-pool
// backed queue. It exists for the external snapshot-writing
// collaborator, which can tolerate Save completing before the blob is
// durably persisted as long as Flush is called before the process
// exits; the read-only Rehydrator and Replay Engine never use it.
type WriteBack struct {
	base    Store
	reqs    chan writeBackRequest
	wg      sync.WaitGroup
	closeWG sync.WaitGroup
}

type writeBackRequest struct {
	data []byte
	done func(Ref, error)
}

// NewWriteBack starts workerCount background goroutines draining a
// queue of pending Saves against base.
func NewWriteBack(base Store, workerCount int) *WriteBack {
	if workerCount < 1 {
		workerCount = 1
	}

	w := &WriteBack{
		base: base,
		reqs: make(chan writeBackRequest, workerCount*4),
	}

	w.closeWG.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go w.worker()
	}

	return w
}

func (w *WriteBack) worker() {
	defer w.closeWG.Done()
	for req := range w.reqs {
		ref, err := w.base.Save(context.Background(), req.data)
		req.done(ref, err)
		w.wg.Done()
	}
}

// Load delegates straight to base; write-back only affects Save.
func (w *WriteBack) Load(ctx context.Context, ref Ref) ([]byte, error) {
	return w.base.Load(ctx, ref)
}

// Save enqueues data for asynchronous persistence and returns
// immediately with the Ref it will be saved under — computed
// synchronously since Ref is a pure function of content, so callers can
// reference the blob before the write completes.
func (w *WriteBack) Save(ctx context.Context, data []byte) (Ref, error) {
	ref := NewRef(data)

	buf := make([]byte, len(data))
	copy(buf, data)

	w.wg.Add(1)
	select {
	case w.reqs <- writeBackRequest{data: buf, done: func(Ref, error) {}}:
	case <-ctx.Done():
		w.wg.Done()
		return "", ctx.Err()
	}

	return ref, nil
}

// Flush blocks until every enqueued Save has completed.
func (w *WriteBack) Flush() {
	w.wg.Wait()
}

// Close stops accepting new work and waits for the workers to drain:
// every Save already queued completes before Close returns.
func (w *WriteBack) Close() {
	close(w.reqs)
	w.closeWG.Wait()
}
